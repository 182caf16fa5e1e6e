package models

// ProjectedMenuItem is a menu item as one diner sees it at one instant:
// scored against their preferences and re-priced for the current time of
// day. Projections are rebuilt wholesale, never mutated in place.
type ProjectedMenuItem struct {
	MenuItem
	RecommendationScore int     `json:"recommendation_score"`
	DynamicPrice        float64 `json:"dynamic_price"`
	OriginalPrice       float64 `json:"original_price"`
}

// Recommended reports whether the item clears the display threshold for the
// "recommended for you" badge. Presentation concern only; the score itself
// is unbounded.
func (p ProjectedMenuItem) Recommended() bool {
	return p.RecommendationScore > 3
}

// Discounted reports whether the current dynamic price sits below the base
// price, for strike-through display.
func (p ProjectedMenuItem) Discounted() bool {
	return p.DynamicPrice < p.OriginalPrice
}
