package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/dishcovery/dishcovery/internal/engine"
	"github.com/dishcovery/dishcovery/internal/models"
	"github.com/lucsky/cuid"
)

var ErrItemNotOnMenu = errors.New("session: item is not on the currently projected menu")

// Session owns one diner's view of one restaurant: the latest projection and
// the cart built against it. Projection state is derived, never stored
// beyond the session; a new tick or preference change replaces it wholesale.
//
// A session is a single logical view. Its methods are safe to call from the
// runner goroutine and a UI goroutine concurrently, but two sessions never
// share state.
type Session struct {
	ID         string
	Restaurant *models.Restaurant

	mu         sync.Mutex
	prefs      models.UserPreferences
	cart       *engine.Cart
	projection []models.ProjectedMenuItem
	clock      Clock
	output     OutputDestination
}

func New(restaurant *models.Restaurant, prefs models.UserPreferences, clock Clock, output OutputDestination) (*Session, error) {
	if err := prefs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid preferences: %w", err)
	}
	spice, err := models.NormalizeSpice(prefs.SpicePreference)
	if err != nil {
		return nil, err
	}
	prefs.SpicePreference = spice

	s := &Session{
		ID:         cuid.New(),
		Restaurant: restaurant,
		prefs:      prefs,
		cart:       engine.NewCart(),
		clock:      clock,
		output:     output,
	}
	s.emit(TopicSession, SessionLifecycleEvent{
		BaseEvent: s.baseEvent(EventSessionStarted),
	})
	s.Refresh("load")
	return s, nil
}

// Refresh recomputes the projection against the current clock. The previous
// projection is simply discarded; there is nothing in flight to cancel.
func (s *Session) Refresh(trigger string) {
	s.mu.Lock()
	now := s.clock.Now()
	s.projection = engine.Project(s.Restaurant.MenuItems, s.prefs, now)
	event := s.menuProjectedEventLocked(trigger)
	s.mu.Unlock()

	s.emit(TopicMenuProjected, event)
}

// SetPreferences swaps the diner's preferences and re-projects immediately,
// without waiting for the next tick.
func (s *Session) SetPreferences(prefs models.UserPreferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}
	spice, err := models.NormalizeSpice(prefs.SpicePreference)
	if err != nil {
		return err
	}
	prefs.SpicePreference = spice

	s.mu.Lock()
	s.prefs = prefs
	s.mu.Unlock()

	s.Refresh("preferences_changed")
	return nil
}

// Projection returns the menu as of the last refresh, in display order.
func (s *Session) Projection() []models.ProjectedMenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ProjectedMenuItem, len(s.projection))
	copy(out, s.projection)
	return out
}

// AddToCart adds one unit of a projected item. The snapshot stored in the
// cart is the item as currently projected, so the price the diner saw is
// the price the cart keeps.
func (s *Session) AddToCart(itemID string) error {
	s.mu.Lock()
	var found *models.ProjectedMenuItem
	for i := range s.projection {
		if s.projection[i].ID == itemID {
			found = &s.projection[i]
			break
		}
	}
	if found == nil {
		s.mu.Unlock()
		return ErrItemNotOnMenu
	}
	s.cart.AddItem(*found)
	event := s.cartEventLocked("add", itemID)
	s.mu.Unlock()

	s.emit(TopicCartUpdated, event)
	return nil
}

func (s *Session) RemoveFromCart(itemID string) {
	s.mu.Lock()
	s.cart.RemoveItem(itemID)
	event := s.cartEventLocked("remove", itemID)
	s.mu.Unlock()

	s.emit(TopicCartUpdated, event)
}

func (s *Session) ChangeQuantity(itemID string, delta int) {
	s.mu.Lock()
	s.cart.UpdateQuantity(itemID, delta)
	event := s.cartEventLocked("update_quantity", itemID)
	s.mu.Unlock()

	s.emit(TopicCartUpdated, event)
}

func (s *Session) CartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total()
}

func (s *Session) CartLines() []engine.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

func (s *Session) QuantityOf(itemID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.QuantityOf(itemID)
}

// Run re-projects on the configured cadence until the context is cancelled.
// Cancellation stops the ticker before the session lifecycle event goes out,
// so a torn-down view never leaks a timer.
func (s *Session) Run(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.End()
			return
		case <-ticker.C:
			s.Refresh("tick")
		}
	}
}

// End emits the closing lifecycle event with the final cart totals. Callers
// driving the session manually (no Run loop) call it on teardown.
func (s *Session) End() {
	s.mu.Lock()
	event := SessionLifecycleEvent{
		BaseEvent: s.baseEvent(EventSessionEnded),
		CartCount: int64(s.cart.Count()),
		CartTotal: s.cart.Total(),
	}
	s.mu.Unlock()
	s.emit(TopicSession, event)
}

func (s *Session) baseEvent(eventType string) BaseEvent {
	base := NewBaseEvent(eventType, s.ID, s.clock.Now())
	base.UserID = s.prefs.UserID
	base.RestaurantID = s.Restaurant.ID
	return base
}

func (s *Session) menuProjectedEventLocked(trigger string) MenuProjectedEvent {
	event := MenuProjectedEvent{
		BaseEvent: s.baseEvent(EventMenuProjected),
		ItemCount: int64(len(s.projection)),
		Trigger:   trigger,
	}
	if len(s.projection) > 0 {
		event.TopItemID = s.projection[0].ID
		event.TopScore = int64(s.projection[0].RecommendationScore)
		sum := 0.0
		for _, p := range s.projection {
			if p.Recommended() {
				event.RecommendedCount++
			}
			sum += p.DynamicPrice
		}
		event.AvgDynamicPrice = sum / float64(len(s.projection))
	}
	return event
}

func (s *Session) cartEventLocked(action, itemID string) CartUpdatedEvent {
	return CartUpdatedEvent{
		BaseEvent: s.baseEvent(EventCartUpdated),
		Action:    action,
		ItemID:    itemID,
		Quantity:  int64(s.cart.QuantityOf(itemID)),
		CartCount: int64(s.cart.Count()),
		CartTotal: s.cart.Total(),
	}
}

func (s *Session) emit(topic string, event interface{}) {
	if s.output == nil {
		return
	}
	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error serializing event for %s: %v", topic, err)
		return
	}
	if err := s.output.WriteMessage(topic, msg); err != nil {
		log.Printf("Failed to write message to %s: %v", topic, err)
	}
}
