package postgres

import (
	"context"
	"errors"

	"github.com/dishcovery/dishcovery/internal/models"
	"github.com/dishcovery/dishcovery/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("postgres: not found")

var _ repositories.CatalogRepository = (*CatalogRepository)(nil)

type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) BulkCreate(ctx context.Context, restaurants []*models.Restaurant) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, restaurant := range restaurants {
		query := `
            INSERT INTO restaurants (
                id, owner_id, business_name, business_address, business_phone,
                cuisine, rating, status
            ) VALUES (
                $1, $2, $3, $4, $5, $6, $7, $8
            )
        `
		_, err = tx.Exec(ctx, query,
			restaurant.ID,
			restaurant.OwnerID,
			restaurant.BusinessName,
			restaurant.BusinessAddress,
			restaurant.BusinessPhone,
			restaurant.Cuisine,
			restaurant.Rating,
			restaurant.Status,
		)
		if err != nil {
			return err
		}
	}

	items := make([]models.MenuItem, 0)
	for _, restaurant := range restaurants {
		items = append(items, restaurant.MenuItems...)
	}
	if len(items) > 0 {
		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"menu_items"},
			[]string{
				"id", "restaurant_id", "name", "description", "price",
				"category", "is_spicy", "dietary_restrictions", "status",
			},
			pgx.CopyFromSlice(len(items), func(i int) ([]interface{}, error) {
				return []interface{}{
					items[i].ID,
					items[i].RestaurantID,
					items[i].Name,
					items[i].Description,
					items[i].Price,
					items[i].Category,
					items[i].IsSpicy,
					items[i].DietaryRestrictions,
					items[i].Status,
				}, nil
			}),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *CatalogRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	return r.BulkCreate(ctx, []*models.Restaurant{restaurant})
}

func (r *CatalogRepository) GetAll(ctx context.Context) (map[string]*models.Restaurant, error) {
	query := `
        SELECT id, owner_id, business_name, business_address, business_phone,
               cuisine, rating, status
        FROM restaurants
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	restaurants := make(map[string]*models.Restaurant)
	for rows.Next() {
		restaurant := &models.Restaurant{}
		err := rows.Scan(
			&restaurant.ID,
			&restaurant.OwnerID,
			&restaurant.BusinessName,
			&restaurant.BusinessAddress,
			&restaurant.BusinessPhone,
			&restaurant.Cuisine,
			&restaurant.Rating,
			&restaurant.Status,
		)
		if err != nil {
			return nil, err
		}
		restaurants[restaurant.ID] = restaurant
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, restaurant := range restaurants {
		items, err := r.GetMenuItems(ctx, restaurant.ID)
		if err != nil {
			return nil, err
		}
		restaurant.MenuItems = items
	}
	return restaurants, nil
}

func (r *CatalogRepository) GetByID(ctx context.Context, restaurantID string) (*models.Restaurant, error) {
	query := `
        SELECT id, owner_id, business_name, business_address, business_phone,
               cuisine, rating, status
        FROM restaurants
        WHERE id = $1
    `
	restaurant := &models.Restaurant{}
	err := r.pool.QueryRow(ctx, query, restaurantID).Scan(
		&restaurant.ID,
		&restaurant.OwnerID,
		&restaurant.BusinessName,
		&restaurant.BusinessAddress,
		&restaurant.BusinessPhone,
		&restaurant.Cuisine,
		&restaurant.Rating,
		&restaurant.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	items, err := r.GetMenuItems(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	restaurant.MenuItems = items
	return restaurant, nil
}

// GetMenuItems returns a restaurant's catalog in insertion order (cuids
// sort by creation time), which the projector relies on for tie-breaking.
func (r *CatalogRepository) GetMenuItems(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	query := `
        SELECT id, restaurant_id, name, description, price, category,
               is_spicy, dietary_restrictions, status
        FROM menu_items
        WHERE restaurant_id = $1
        ORDER BY id
    `
	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var item models.MenuItem
		err := rows.Scan(
			&item.ID,
			&item.RestaurantID,
			&item.Name,
			&item.Description,
			&item.Price,
			&item.Category,
			&item.IsSpicy,
			&item.DietaryRestrictions,
			&item.Status,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *CatalogRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM restaurants").Scan(&count)
	return count, err
}

func (r *CatalogRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE restaurants CASCADE")
	return err
}
