package postgres

import (
	"context"
	"errors"

	"github.com/dishcovery/dishcovery/internal/models"
	"github.com/dishcovery/dishcovery/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ repositories.PreferenceRepository = (*PreferenceRepository)(nil)

type PreferenceRepository struct {
	pool *pgxpool.Pool
}

func NewPreferenceRepository(pool *pgxpool.Pool) *PreferenceRepository {
	return &PreferenceRepository{pool: pool}
}

func (r *PreferenceRepository) Save(ctx context.Context, prefs *models.UserPreferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}
	query := `
        INSERT INTO user_preferences (
            user_id, dietary_restrictions, spice_preference, favorite_categories
        ) VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id) DO UPDATE SET
            dietary_restrictions = EXCLUDED.dietary_restrictions,
            spice_preference = EXCLUDED.spice_preference,
            favorite_categories = EXCLUDED.favorite_categories
    `
	_, err := r.pool.Exec(ctx, query,
		prefs.UserID,
		prefs.DietaryRestrictions,
		prefs.SpicePreference,
		prefs.FavoriteCategories,
	)
	return err
}

func (r *PreferenceRepository) GetByUserID(ctx context.Context, userID string) (*models.UserPreferences, error) {
	query := `
        SELECT user_id, dietary_restrictions, spice_preference, favorite_categories
        FROM user_preferences
        WHERE user_id = $1
    `
	prefs := &models.UserPreferences{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&prefs.UserID,
		&prefs.DietaryRestrictions,
		&prefs.SpicePreference,
		&prefs.FavoriteCategories,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return prefs, nil
}

func (r *PreferenceRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM user_preferences").Scan(&count)
	return count, err
}

func (r *PreferenceRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE user_preferences")
	return err
}
