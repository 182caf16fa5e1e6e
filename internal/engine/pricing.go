package engine

import (
	"errors"
	"math"
	"time"
)

// CategorySpecials carries a flat markup on top of the time-based terms.
const CategorySpecials = "Specials"

const (
	peakSurcharge   = 0.10
	offPeakDiscount = 0.15
	specialsMarkup  = 0.05
	minMultiplier   = 0.8
)

var ErrInvalidBasePrice = errors.New("engine: base price must be positive")

// DynamicPrice computes the time-of-day price for a menu item. The
// multiplier starts at 1.0 and accumulates additive adjustments: a lunch and
// dinner peak surcharge, a late-night discount, two low-amplitude sine terms
// that drift with the half-hour interval and the fractional hour, and the
// Specials markup. The multiplier never drops below 0.8, so a dynamic price
// is always at least 80% of the base price. Deterministic in
// (basePrice, category, now); the caller re-invokes it on each tick.
func DynamicPrice(basePrice float64, category string, now time.Time) (float64, error) {
	if basePrice <= 0 {
		return 0, ErrInvalidBasePrice
	}

	hour := now.Hour()
	minute := now.Minute()

	multiplier := 1.0
	if (hour >= 12 && hour <= 14) || (hour >= 18 && hour <= 20) {
		multiplier += peakSurcharge
	}
	if hour >= 21 || hour <= 5 {
		multiplier -= offPeakDiscount
	}

	// Half-hour interval fluctuation plus a slower demand curve over the
	// fractional hour. Both vary continuously with the clock, nothing is
	// random.
	interval := minute / 30
	multiplier += math.Sin(float64(interval+hour)) * 0.05
	multiplier += math.Sin(float64(hour)+float64(minute)/60) * 0.03

	if category == CategorySpecials {
		multiplier += specialsMarkup
	}

	if multiplier < minMultiplier {
		multiplier = minMultiplier
	}

	return roundPrice(basePrice * multiplier), nil
}

// roundPrice rounds to two decimal places, the display precision for money
// throughout the app.
func roundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}
