package models

const (
	RestaurantStatusOpen   = "open"
	RestaurantStatusClosed = "closed"
)

// Restaurant is the record the discovery front end hands to the engine: the
// owner-managed profile plus its full menu catalog.
type Restaurant struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"owner_id"`
	BusinessName    string     `json:"business_name"`
	BusinessAddress string     `json:"business_address"`
	BusinessPhone   string     `json:"business_phone"`
	Cuisine         string     `json:"cuisine"`
	Rating          float64    `json:"rating"`
	Status          string     `json:"status"`
	MenuItems       []MenuItem `json:"menu_items"`
}

// ActiveMenuItems returns the subset of the catalog the projector may show.
func (r *Restaurant) ActiveMenuItems() []MenuItem {
	items := make([]MenuItem, 0, len(r.MenuItems))
	for _, item := range r.MenuItems {
		if item.Status == ItemStatusActive {
			items = append(items, item)
		}
	}
	return items
}
