package models

// Item statuses as stored by the restaurant dashboard. Inactive items never
// reach a diner's projected menu.
const (
	ItemStatusActive   = "active"
	ItemStatusInactive = "inactive"
)

// Dietary tags use a fixed vocabulary shared by menu items and diner
// preferences; matching is exact string intersection.
var DietaryVocabulary = []string{
	"Vegetarian",
	"Vegan",
	"Gluten-Free",
	"Dairy-Free",
	"Nut-Free",
	"Halal",
	"Kosher",
}

// MenuCategories is open-ended; these are the values the restaurant
// dashboard offers by default. "Specials" additionally carries a pricing
// markup.
var MenuCategories = []string{
	"Appetizers",
	"Main Course",
	"Desserts",
	"Beverages",
	"Specials",
}

type MenuItem struct {
	ID                  string   `json:"id"`
	RestaurantID        string   `json:"restaurant_id"`
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	Price               float64  `json:"price"`
	Category            string   `json:"category"`
	IsSpicy             bool     `json:"is_spicy"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
	Status              string   `json:"status"`
}

// Validate checks the fields the engine depends on. Callers validate items
// once at the ingestion boundary, not per projection.
func (m *MenuItem) Validate() error {
	if m.Price <= 0 {
		return ErrInvalidPrice
	}
	if m.Status != ItemStatusActive && m.Status != ItemStatusInactive {
		return ErrUnknownStatus
	}
	for _, tag := range m.DietaryRestrictions {
		if !knownDietaryTag(tag) {
			return ErrUnknownDietaryTag
		}
	}
	return nil
}

func knownDietaryTag(tag string) bool {
	for _, known := range DietaryVocabulary {
		if tag == known {
			return true
		}
	}
	return false
}
