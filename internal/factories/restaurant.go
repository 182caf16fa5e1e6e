package factories

import (
	"math/rand"

	"github.com/dishcovery/dishcovery/internal/models"
	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
)

type RestaurantFactory struct {
	Rng  *rand.Rand
	fake faker.Faker
}

// NewRestaurantFactory derives all generated data, faker output included,
// from the one injected source so identical seeds yield identical catalogs.
func NewRestaurantFactory(rng *rand.Rand) *RestaurantFactory {
	return &RestaurantFactory{Rng: rng, fake: faker.NewWithSeed(rng)}
}

func (rf *RestaurantFactory) CreateRestaurant(config *models.Config) *models.Restaurant {
	cuisine := cuisines[rf.Rng.Intn(len(cuisines))]

	restaurant := &models.Restaurant{
		ID:              cuid.New(),
		OwnerID:         cuid.New(),
		BusinessName:    rf.fake.Company().Name(),
		BusinessAddress: rf.fake.Address().Address(),
		BusinessPhone:   rf.fake.Phone().Number(),
		Cuisine:         cuisine,
		Rating:          rf.fake.Float64(1, 2, 5),
		Status:          models.RestaurantStatusOpen,
	}

	itemCount := config.MinMenuItems
	if config.MaxMenuItems > config.MinMenuItems {
		itemCount += rf.Rng.Intn(config.MaxMenuItems - config.MinMenuItems)
	}
	for i := 0; i < itemCount; i++ {
		restaurant.MenuItems = append(restaurant.MenuItems, rf.createMenuItem(restaurant, cuisine))
	}
	return restaurant
}

func (rf *RestaurantFactory) createMenuItem(restaurant *models.Restaurant, cuisine string) models.MenuItem {
	category := models.MenuCategories[rf.Rng.Intn(len(models.MenuCategories))]

	status := models.ItemStatusActive
	// a sliver of every menu is switched off by the owner
	if rf.Rng.Float64() < 0.1 {
		status = models.ItemStatusInactive
	}

	return models.MenuItem{
		ID:                  cuid.New(),
		RestaurantID:        restaurant.ID,
		Name:                dishName(rf.Rng, cuisine),
		Description:         rf.fake.Lorem().Sentence(10),
		Price:               rf.fake.Float64(2, 5, 50),
		Category:            category,
		IsSpicy:             rf.Rng.Float64() < 0.3,
		DietaryRestrictions: rf.randomDietaryTags(),
		Status:              status,
	}
}

// randomDietaryTags draws zero to three tags from the fixed vocabulary.
func (rf *RestaurantFactory) randomDietaryTags() []string {
	count := rf.Rng.Intn(4)
	if count == 0 {
		return nil
	}
	picked := make([]string, 0, count)
	seen := make(map[string]bool)
	for len(picked) < count {
		tag := models.DietaryVocabulary[rf.Rng.Intn(len(models.DietaryVocabulary))]
		if seen[tag] {
			continue
		}
		seen[tag] = true
		picked = append(picked, tag)
	}
	return picked
}

var cuisines = []string{
	"Italian", "Indian", "American", "Japanese", "Mexican",
	"Chinese", "Thai", "Greek", "French", "Mediterranean",
}

func dishName(rng *rand.Rand, cuisine string) string {
	dishes := map[string][]string{
		"Italian":       {"Margherita Pizza", "Spaghetti Carbonara", "Lasagna", "Tiramisu"},
		"Indian":        {"Chicken Tikka Masala", "Vegetable Curry", "Naan Bread", "Biryani"},
		"American":      {"Cheeseburger", "Hot Dog", "BBQ Ribs", "Apple Pie"},
		"Japanese":      {"Sushi Roll", "Ramen", "Tempura", "Miso Soup"},
		"Mexican":       {"Tacos", "Burrito", "Guacamole", "Quesadilla"},
		"Chinese":       {"Kung Pao Chicken", "Fried Rice", "Dumplings", "Mapo Tofu"},
		"Thai":          {"Pad Thai", "Green Curry", "Tom Yum Soup", "Mango Sticky Rice"},
		"Greek":         {"Gyros", "Greek Salad", "Moussaka", "Baklava"},
		"French":        {"Coq au Vin", "Beef Bourguignon", "Ratatouille", "Crème Brûlée"},
		"Mediterranean": {"Falafel", "Hummus", "Tabbouleh", "Grilled Halloumi"},
	}
	if names, ok := dishes[cuisine]; ok {
		return names[rng.Intn(len(names))]
	}
	return "Special of the Day"
}
