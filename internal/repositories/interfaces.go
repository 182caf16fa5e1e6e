package repositories

import (
	"context"

	"github.com/dishcovery/dishcovery/internal/models"
)

// CatalogRepository supplies restaurants and their menus. The engine only
// ever reads through these; writes exist for the owner dashboard and the
// demo seeder.
type CatalogRepository interface {
	BulkCreate(ctx context.Context, restaurants []*models.Restaurant) error
	Create(ctx context.Context, restaurant *models.Restaurant) error
	GetAll(ctx context.Context) (map[string]*models.Restaurant, error)
	GetByID(ctx context.Context, restaurantID string) (*models.Restaurant, error)
	GetMenuItems(ctx context.Context, restaurantID string) ([]models.MenuItem, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

// PreferenceRepository holds diner questionnaire answers keyed by user id.
type PreferenceRepository interface {
	Save(ctx context.Context, prefs *models.UserPreferences) error
	GetByUserID(ctx context.Context, userID string) (*models.UserPreferences, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}
