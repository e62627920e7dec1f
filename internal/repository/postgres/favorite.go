package postgres

import (
	"context"
	"fmt"

	"github.com/barisbll/influshop-backend-sub000/internal/domain"
	"github.com/barisbll/influshop-backend-sub000/pkg/database"
	apperrors "github.com/barisbll/influshop-backend-sub000/pkg/errors"
)

// FavoriteRepository implements user favorite persistence using PostgreSQL.
type FavoriteRepository struct {
	pool database.DBTX
}

// NewFavoriteRepository creates a new PostgreSQL-backed favorite repository.
func NewFavoriteRepository(pool database.DBTX) *FavoriteRepository {
	return &FavoriteRepository{pool: pool}
}

// Add marks an item as favorited by the user.
func (r *FavoriteRepository) Add(ctx context.Context, userID, itemID string) error {
	query := `INSERT INTO favorites (user_id, item_id, created_at) VALUES ($1, $2, NOW())`

	_, err := r.pool.Exec(ctx, query, userID, itemID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("favorite", "item", itemID)
		}
		return fmt.Errorf("insert favorite: %w", err)
	}

	return nil
}

// Remove unmarks the favorite.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, itemID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND item_id = $2`, userID, itemID)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("favorite", itemID)
	}

	return nil
}

// ListByUser returns the user's favorited items (active items only),
// paginated, with the total count.
func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string, page, perPage int) ([]domain.Item, int, error) {
	limit, offset := pageBounds(page, perPage)

	query := `
		SELECT i.id, i.influencer_id, i.item_group_id, i.name, i.description, i.price, i.quantity,
		       i.image_urls, i.extra_features, i.average_stars, i.stars_count, i.created_at, i.updated_at, i.deleted_at,
		       count(*) OVER() AS total_count
		FROM favorites f
		JOIN items i ON i.id = f.item_id AND i.deleted_at IS NULL
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list favorites: %w", err)
	}

	return scanItemRows(rows)
}
