package session

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dishcovery/dishcovery/internal/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type memoryOutput struct {
	mu       sync.Mutex
	messages map[string][][]byte
}

func newMemoryOutput() *memoryOutput {
	return &memoryOutput{messages: make(map[string][][]byte)}
}

func (m *memoryOutput) WriteMessage(topic string, msg []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[topic] = append(m.messages[topic], msg)
	return nil
}

func (m *memoryOutput) Close() error { return nil }

func (m *memoryOutput) count(topic string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages[topic])
}

func (m *memoryOutput) last(topic string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.messages[topic]
	if len(msgs) == 0 {
		return nil
	}
	return msgs[len(msgs)-1]
}

func testRestaurant() *models.Restaurant {
	return &models.Restaurant{
		ID:           "r1",
		BusinessName: "Spice Route",
		Cuisine:      "Indian",
		Status:       models.RestaurantStatusOpen,
		MenuItems: []models.MenuItem{
			{
				ID: "curry", Name: "Green Curry", Price: 13.00, Category: "Main Course",
				IsSpicy: true, Status: models.ItemStatusActive,
			},
			{
				ID: "rice", Name: "Jasmine Rice", Price: 4.00, Category: "Main Course",
				DietaryRestrictions: []string{"Vegan", "Gluten-Free"},
				Status:              models.ItemStatusActive,
			},
		},
	}
}

func newTestSession(t *testing.T) (*Session, *fakeClock, *memoryOutput) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, time.March, 14, 11, 0, 0, 0, time.UTC)}
	output := newMemoryOutput()
	prefs := models.UserPreferences{
		UserID:          "diner-1",
		SpicePreference: models.SpiceNoPreference,
	}
	s, err := New(testRestaurant(), prefs, clock, output)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s, clock, output
}

func TestNewSessionProjectsImmediately(t *testing.T) {
	s, _, output := newTestSession(t)

	if got := len(s.Projection()); got != 2 {
		t.Fatalf("expected 2 projected items, got %d", got)
	}
	if output.count(TopicMenuProjected) != 1 {
		t.Errorf("expected one projection event on load, got %d", output.count(TopicMenuProjected))
	}
	if output.count(TopicSession) != 1 {
		t.Errorf("expected a session start event, got %d", output.count(TopicSession))
	}
}

func TestNewSessionRejectsInvalidPreferences(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	prefs := models.UserPreferences{SpicePreference: "volcanic"}
	if _, err := New(testRestaurant(), prefs, clock, newMemoryOutput()); err == nil {
		t.Fatal("expected an error for an unknown spice preference")
	}
}

func TestRefreshTracksClock(t *testing.T) {
	s, clock, _ := newTestSession(t)

	before := s.Projection()
	// Move from 11:00 into the 13:00 lunch peak; prices must change.
	clock.Advance(2 * time.Hour)
	s.Refresh("tick")
	after := s.Projection()

	if before[0].DynamicPrice == after[0].DynamicPrice {
		t.Errorf("price did not move across the peak boundary: %v", before[0].DynamicPrice)
	}
}

func TestSetPreferencesReprojects(t *testing.T) {
	s, _, output := newTestSession(t)

	err := s.SetPreferences(models.UserPreferences{
		UserID:              "diner-1",
		DietaryRestrictions: []string{"Vegan"},
		SpicePreference:     models.SpiceMild,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	projection := s.Projection()
	if len(projection) != 1 || projection[0].ID != "rice" {
		t.Fatalf("expected only the vegan item, got %v", projection)
	}

	var event MenuProjectedEvent
	if err := json.Unmarshal(output.last(TopicMenuProjected), &event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Trigger != "preferences_changed" {
		t.Errorf("trigger = %q, want preferences_changed", event.Trigger)
	}
}

func TestCartFlowEmitsEvents(t *testing.T) {
	s, _, output := newTestSession(t)

	if err := s.AddToCart("curry"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.AddToCart("nonexistent"); err != ErrItemNotOnMenu {
		t.Fatalf("got %v, want ErrItemNotOnMenu", err)
	}

	s.ChangeQuantity("curry", 2)
	if got := s.QuantityOf("curry"); got != 3 {
		t.Errorf("quantity = %d, want 3", got)
	}

	s.RemoveFromCart("curry")
	if got := s.CartTotal(); got != 0 {
		t.Errorf("total = %v, want 0 after removal", got)
	}

	if got := output.count(TopicCartUpdated); got != 3 {
		t.Errorf("expected 3 cart events, got %d", got)
	}
}

func TestCartSnapshotDoesNotDriftWithTicks(t *testing.T) {
	s, clock, _ := newTestSession(t)

	if err := s.AddToCart("curry"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	totalAtAdd := s.CartTotal()

	clock.Advance(8 * time.Hour)
	s.Refresh("tick")

	if got := s.CartTotal(); got != totalAtAdd {
		t.Errorf("cart total drifted from %v to %v without a re-add", totalAtAdd, got)
	}
}

func TestRunTicksAndStops(t *testing.T) {
	s, clock, output := newTestSession(t)
	before := output.count(TopicMenuProjected)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	// Let a few ticks land, nudging the clock so refreshes are visible.
	time.Sleep(30 * time.Millisecond)
	clock.Advance(time.Minute)
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}

	if got := output.count(TopicMenuProjected); got <= before {
		t.Errorf("expected tick-driven projection events, still at %d", got)
	}

	var event SessionLifecycleEvent
	if err := json.Unmarshal(output.last(TopicSession), &event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.EventType != EventSessionEnded {
		t.Errorf("last session event = %q, want %q", event.EventType, EventSessionEnded)
	}
}
