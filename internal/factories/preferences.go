package factories

import (
	"math/rand"

	"github.com/dishcovery/dishcovery/internal/models"
	"github.com/lucsky/cuid"
)

type PreferenceFactory struct {
	Rng *rand.Rand
}

func NewPreferenceFactory(rng *rand.Rand) *PreferenceFactory {
	return &PreferenceFactory{Rng: rng}
}

// CreatePreferences produces the questionnaire answers of one demo diner.
// Roughly half of diners carry no dietary restriction at all, mirroring the
// production questionnaire's skip rate.
func (pf *PreferenceFactory) CreatePreferences() *models.UserPreferences {
	prefs := &models.UserPreferences{
		UserID:          cuid.New(),
		SpicePreference: pf.randomSpice(),
	}

	if pf.Rng.Float64() < 0.5 {
		count := 1 + pf.Rng.Intn(2)
		seen := make(map[string]bool)
		for len(prefs.DietaryRestrictions) < count {
			tag := models.DietaryVocabulary[pf.Rng.Intn(len(models.DietaryVocabulary))]
			if seen[tag] {
				continue
			}
			seen[tag] = true
			prefs.DietaryRestrictions = append(prefs.DietaryRestrictions, tag)
		}
	}

	favoriteCount := pf.Rng.Intn(3)
	seen := make(map[string]bool)
	for len(prefs.FavoriteCategories) < favoriteCount {
		category := models.MenuCategories[pf.Rng.Intn(len(models.MenuCategories))]
		if seen[category] {
			continue
		}
		seen[category] = true
		prefs.FavoriteCategories = append(prefs.FavoriteCategories, category)
	}

	return prefs
}

func (pf *PreferenceFactory) randomSpice() string {
	switch pf.Rng.Intn(3) {
	case 0:
		return models.SpiceMild
	case 1:
		return models.SpiceHot
	}
	return models.SpiceNoPreference
}
