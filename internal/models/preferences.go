package models

// Spice preference values. The questionnaire also offers "medium" and
// "extra-hot"; those collapse to SpiceNoPreference since neither adds a
// filtering or scoring rule.
const (
	SpiceMild         = "mild"
	SpiceHot          = "hot"
	SpiceNoPreference = "no_preference"
)

type UserPreferences struct {
	UserID              string   `json:"user_id"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	SpicePreference     string   `json:"spice_preference"`
	FavoriteCategories  []string `json:"favorite_categories"`
}

// NormalizeSpice maps questionnaire values onto the three levels the engine
// distinguishes. Unknown values are a validation error, not a silent default.
func NormalizeSpice(value string) (string, error) {
	switch value {
	case SpiceMild, SpiceHot, SpiceNoPreference:
		return value, nil
	case "medium", "extra-hot", "":
		return SpiceNoPreference, nil
	}
	return "", ErrUnknownSpice
}

func (p *UserPreferences) Validate() error {
	if _, err := NormalizeSpice(p.SpicePreference); err != nil {
		return err
	}
	for _, tag := range p.DietaryRestrictions {
		if !knownDietaryTag(tag) {
			return ErrUnknownDietaryTag
		}
	}
	return nil
}
