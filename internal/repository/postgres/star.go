package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/barisbll/influshop-backend-sub000/internal/domain"
	"github.com/barisbll/influshop-backend-sub000/pkg/database"
	apperrors "github.com/barisbll/influshop-backend-sub000/pkg/errors"
)

// StarRepository implements item star rating persistence using PostgreSQL.
type StarRepository struct {
	pool database.DBTX
}

// NewStarRepository creates a new PostgreSQL-backed star repository.
func NewStarRepository(pool database.DBTX) *StarRepository {
	return &StarRepository{pool: pool}
}

// RecordRating inserts or updates the user's rating for an item inside one
// transaction. The item row is locked with FOR UPDATE so the read-modify-write
// of the running average cannot race with a concurrent rating.
//
// A first rating appends to the average: (avg*n + stars) / (n+1). A changed
// rating substitutes in place: (avg*n - old + new) / n. An unchanged rating is
// rejected with DUPLICATE_RATING.
func (r *StarRepository) RecordRating(ctx context.Context, userID, itemID string, stars int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin rating tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	summary := domain.RatingSummary{}
	err = tx.QueryRow(ctx,
		`SELECT average_stars, stars_count
		 FROM items
		 WHERE id = $1 AND deleted_at IS NULL
		 FOR UPDATE`, itemID).
		Scan(&summary.Average, &summary.Count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("item", itemID)
		}
		return fmt.Errorf("lock item: %w", err)
	}

	var (
		starID   string
		oldStars int
	)
	err = tx.QueryRow(ctx,
		`SELECT id, stars FROM item_stars
		 WHERE user_id = $1 AND item_id = $2 AND deleted_at IS NULL`, userID, itemID).
		Scan(&starID, &oldStars)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		summary = summary.Add(stars)
		if _, err := tx.Exec(ctx,
			`INSERT INTO item_stars (id, item_id, user_id, stars, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, NOW(), NOW())`,
			uuid.New().String(), itemID, userID, stars); err != nil {
			return fmt.Errorf("insert star: %w", err)
		}

	case err != nil:
		return fmt.Errorf("get existing star: %w", err)

	case oldStars == stars:
		return apperrors.Conflict("DUPLICATE_RATING", "item already rated with this value")

	default:
		summary = summary.Replace(oldStars, stars)
		if _, err := tx.Exec(ctx,
			`UPDATE item_stars SET stars = $2, updated_at = NOW() WHERE id = $1`,
			starID, stars); err != nil {
			return fmt.Errorf("update star: %w", err)
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE items SET average_stars = $2, stars_count = $3, updated_at = NOW() WHERE id = $1`,
		itemID, summary.Average, summary.Count); err != nil {
		return fmt.Errorf("update item rating summary: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit rating tx: %w", err)
	}

	return nil
}

// GetUserRating returns the user's active rating for the item.
func (r *StarRepository) GetUserRating(ctx context.Context, userID, itemID string) (*domain.ItemStar, error) {
	query := `
		SELECT id, item_id, user_id, stars, created_at, updated_at, deleted_at
		FROM item_stars
		WHERE user_id = $1 AND item_id = $2 AND deleted_at IS NULL`

	var s domain.ItemStar
	err := r.pool.QueryRow(ctx, query, userID, itemID).Scan(
		&s.ID,
		&s.ItemID,
		&s.UserID,
		&s.Stars,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get user rating: %w", err)
	}

	return &s, nil
}
