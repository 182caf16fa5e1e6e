package engine

import (
	"sort"
	"time"

	"github.com/dishcovery/dishcovery/internal/models"
)

// Project derives the menu one diner sees at one instant. Pipeline:
// filter (inactive items, dietary mismatches when restrictions are set,
// spicy items for mild diners), score, price, then a stable sort descending
// by score so tied items keep their catalog order.
//
// A "hot" preference does not hide non-spicy items; it only boosts spicy
// ones through the score. Inputs are never mutated and the result is a fresh
// list; an empty result is a valid projection, not an error. The catalog is
// assumed validated upstream.
func Project(catalog []models.MenuItem, prefs models.UserPreferences, now time.Time) []models.ProjectedMenuItem {
	projected := make([]models.ProjectedMenuItem, 0, len(catalog))

	for _, item := range catalog {
		if item.Status != models.ItemStatusActive {
			continue
		}
		if len(prefs.DietaryRestrictions) > 0 &&
			!intersects(item.DietaryRestrictions, prefs.DietaryRestrictions) {
			continue
		}
		if prefs.SpicePreference == models.SpiceMild && item.IsSpicy {
			continue
		}

		price, err := DynamicPrice(item.Price, item.Category, now)
		if err != nil {
			// Non-positive price means the item slipped past upstream
			// validation; leaving it out beats rendering a broken price.
			continue
		}

		projected = append(projected, models.ProjectedMenuItem{
			MenuItem:            item,
			RecommendationScore: Score(item, prefs),
			DynamicPrice:        price,
			OriginalPrice:       item.Price,
		})
	}

	sort.SliceStable(projected, func(i, j int) bool {
		return projected[i].RecommendationScore > projected[j].RecommendationScore
	})

	return projected
}
