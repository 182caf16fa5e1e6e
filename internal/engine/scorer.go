package engine

import "github.com/dishcovery/dishcovery/internal/models"

// ScoreExcluded is returned when the diner has dietary restrictions and the
// item satisfies none of them. It is an exclusion sentinel, not a rank:
// Project filters such items out before scoring, so a rendered menu never
// contains it. Callers scoring an unfiltered catalog (cross-restaurant
// ranking, analytics) must treat it as "do not show".
const ScoreExcluded = -1

// Score computes the diner's affinity for a single item. All contributions
// are additive; the dietary check alone can short-circuit.
func Score(item models.MenuItem, prefs models.UserPreferences) int {
	score := 0

	if len(prefs.DietaryRestrictions) > 0 {
		if !intersects(item.DietaryRestrictions, prefs.DietaryRestrictions) {
			return ScoreExcluded
		}
		score += 3
	}

	switch prefs.SpicePreference {
	case models.SpiceHot:
		if item.IsSpicy {
			score += 2
		}
	case models.SpiceMild:
		if !item.IsSpicy {
			score += 2
		}
	}

	for _, category := range prefs.FavoriteCategories {
		if item.Category == category {
			score += 2
			break
		}
	}

	return score
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
