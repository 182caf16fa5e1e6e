package simulation

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/dishcovery/dishcovery/internal/factories"
	"github.com/dishcovery/dishcovery/internal/models"
	"github.com/dishcovery/dishcovery/internal/repositories/postgres"
	"github.com/dishcovery/dishcovery/internal/session"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/schollz/progressbar/v3"
)

// virtualClock is a session.Clock the driver advances by hand, so a whole
// evening of browsing replays in milliseconds and every price is
// reproducible from the seed.
type virtualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *virtualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *virtualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Simulator replays demo browsing sessions: generated restaurants and
// diners, a virtual clock stepped a minute at a time, re-projection on the
// configured cadence, and scripted cart behaviour. Events flow to the
// configured output destination.
type Simulator struct {
	Config      *models.Config
	Rng         *rand.Rand
	Restaurants []*models.Restaurant
	Diners      []*models.UserPreferences

	// Output overrides the config-derived destination, for tests.
	Output session.OutputDestination
}

func NewSimulator(config *models.Config) *Simulator {
	return &Simulator{
		Config: config,
		Rng:    rand.New(rand.NewSource(int64(config.Seed))),
	}
}

func (s *Simulator) Run() error {
	output := s.Output
	if output == nil {
		var err error
		output, err = session.NewOutputDestination(s.Config)
		if err != nil {
			return fmt.Errorf("failed to set up output destination: %w", err)
		}
		defer func() {
			if err := output.Close(); err != nil {
				log.Printf("Error closing output: %v", err)
			}
		}()
	}

	if err := s.initializeData(); err != nil {
		return err
	}
	log.Printf("Simulating %d sessions across %d restaurants and %d diners",
		s.Config.SessionCount, len(s.Restaurants), len(s.Diners))

	bar := progressbar.Default(int64(s.Config.SessionCount), "sessions")
	for i := 0; i < s.Config.SessionCount; i++ {
		if err := s.runSession(output); err != nil {
			log.Printf("Session %d failed: %v", i, err)
		}
		_ = bar.Add(1)
	}
	return nil
}

// initializeData generates restaurants and diners from the seed. With
// postgres enabled the generated data is persisted first and read back
// through the repositories, the same path the web app uses.
func (s *Simulator) initializeData() error {
	rf := factories.NewRestaurantFactory(s.Rng)
	pf := factories.NewPreferenceFactory(s.Rng)

	for i := 0; i < s.Config.InitialRestaurants; i++ {
		s.Restaurants = append(s.Restaurants, rf.CreateRestaurant(s.Config))
	}
	for i := 0; i < s.Config.InitialDiners; i++ {
		s.Diners = append(s.Diners, pf.CreatePreferences())
	}

	if !s.Config.PostgresEnabled {
		return nil
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, s.Config.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()

	catalogRepo := postgres.NewCatalogRepository(pool)
	prefRepo := postgres.NewPreferenceRepository(pool)

	if err := catalogRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to reset catalogs: %w", err)
	}
	if err := catalogRepo.BulkCreate(ctx, s.Restaurants); err != nil {
		return fmt.Errorf("failed to seed catalogs: %w", err)
	}
	for _, prefs := range s.Diners {
		if err := prefRepo.Save(ctx, prefs); err != nil {
			return fmt.Errorf("failed to seed preferences: %w", err)
		}
	}

	restaurants, err := catalogRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalogs: %w", err)
	}
	s.Restaurants = s.Restaurants[:0]
	for _, restaurant := range restaurants {
		s.Restaurants = append(s.Restaurants, restaurant)
	}
	// Map order is random; cuids sort by creation time, so this restores the
	// generation order and keeps runs reproducible from the seed.
	sort.Slice(s.Restaurants, func(i, j int) bool {
		return s.Restaurants[i].ID < s.Restaurants[j].ID
	})
	return nil
}

func (s *Simulator) runSession(output session.OutputDestination) error {
	restaurant := s.Restaurants[s.Rng.Intn(len(s.Restaurants))]
	diner := s.Diners[s.Rng.Intn(len(s.Diners))]

	clock := &virtualClock{now: s.randomSessionStart()}
	sess, err := session.New(restaurant, *diner, clock, output)
	if err != nil {
		return err
	}
	defer sess.End()

	// Browse between ten minutes and an hour, one virtual minute per step.
	duration := 10 + s.Rng.Intn(50)
	tickMinutes := int(s.Config.TickInterval / time.Minute)
	if tickMinutes < 1 {
		tickMinutes = 1
	}

	for minute := 1; minute <= duration; minute++ {
		clock.Advance(time.Minute)
		if minute%tickMinutes == 0 {
			sess.Refresh("tick")
		}

		// Diners idle between bursts of scrolling; only an actively browsing
		// minute can lead to a cart add.
		if s.Rng.Float64() >= s.Config.BrowseProbability {
			continue
		}
		if s.Rng.Float64() >= s.Config.AddToCartRate {
			continue
		}
		projection := sess.Projection()
		if len(projection) == 0 {
			continue
		}
		// Diners reach for the top of the list far more often than the tail.
		pick := projection[s.Rng.Intn(1+s.Rng.Intn(len(projection)))]
		if err := sess.AddToCart(pick.ID); err != nil {
			log.Printf("Failed to add %s to cart: %v", pick.ID, err)
		}
	}
	return nil
}

// randomSessionStart spreads sessions over the configured window so peak,
// off-peak and plain hours all show up in the pricing data.
func (s *Simulator) randomSessionStart() time.Time {
	window := s.Config.EndDate.Sub(s.Config.StartDate)
	if window <= 0 {
		return s.Config.StartDate
	}
	// Truncating the offset (not the sum) keeps the result at or after a
	// start date that is not minute-aligned.
	offset := time.Duration(s.Rng.Int63n(int64(window))).Truncate(time.Minute)
	return s.Config.StartDate.Add(offset)
}
