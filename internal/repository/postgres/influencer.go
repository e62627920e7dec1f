package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/barisbll/influshop-backend-sub000/internal/domain"
	"github.com/barisbll/influshop-backend-sub000/pkg/database"
	apperrors "github.com/barisbll/influshop-backend-sub000/pkg/errors"
)

// InfluencerRepository implements influencer persistence operations using PostgreSQL.
type InfluencerRepository struct {
	pool database.DBTX
}

// NewInfluencerRepository creates a new PostgreSQL-backed influencer repository.
func NewInfluencerRepository(pool database.DBTX) *InfluencerRepository {
	return &InfluencerRepository{pool: pool}
}

// Create inserts a new influencer into the database.
func (r *InfluencerRepository) Create(ctx context.Context, inf *domain.Influencer) error {
	query := `
		INSERT INTO influencers (id, username, email, password_hash, display_name, bio, image_url, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		inf.ID,
		inf.Username,
		inf.Email,
		inf.PasswordHash,
		inf.DisplayName,
		inf.Bio,
		inf.ImageURL,
		inf.IsVerified,
		inf.CreatedAt,
		inf.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("influencer", "username or email", inf.Username)
		}
		return fmt.Errorf("insert influencer: %w", err)
	}

	return nil
}

const influencerColumns = `id, username, email, password_hash, display_name, bio, image_url, is_verified, created_at, updated_at, deleted_at`

func scanInfluencer(row pgx.Row) (*domain.Influencer, error) {
	var inf domain.Influencer
	err := row.Scan(
		&inf.ID,
		&inf.Username,
		&inf.Email,
		&inf.PasswordHash,
		&inf.DisplayName,
		&inf.Bio,
		&inf.ImageURL,
		&inf.IsVerified,
		&inf.CreatedAt,
		&inf.UpdatedAt,
		&inf.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan influencer: %w", err)
	}
	return &inf, nil
}

// GetByID retrieves an active influencer by ID.
func (r *InfluencerRepository) GetByID(ctx context.Context, id string) (*domain.Influencer, error) {
	query := `SELECT ` + influencerColumns + ` FROM influencers WHERE id = $1 AND deleted_at IS NULL`
	return scanInfluencer(r.pool.QueryRow(ctx, query, id))
}

// GetByEmail retrieves an active influencer by email.
func (r *InfluencerRepository) GetByEmail(ctx context.Context, email string) (*domain.Influencer, error) {
	query := `SELECT ` + influencerColumns + ` FROM influencers WHERE email = $1 AND deleted_at IS NULL`
	return scanInfluencer(r.pool.QueryRow(ctx, query, email))
}

// GetByUsername retrieves an active influencer by username.
func (r *InfluencerRepository) GetByUsername(ctx context.Context, username string) (*domain.Influencer, error) {
	query := `SELECT ` + influencerColumns + ` FROM influencers WHERE username = $1 AND deleted_at IS NULL`
	return scanInfluencer(r.pool.QueryRow(ctx, query, username))
}

// Update modifies an existing influencer.
func (r *InfluencerRepository) Update(ctx context.Context, inf *domain.Influencer) error {
	query := `
		UPDATE influencers
		SET username = $2, email = $3, password_hash = $4, display_name = $5, bio = $6, image_url = $7, is_verified = $8, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, query,
		inf.ID,
		inf.Username,
		inf.Email,
		inf.PasswordHash,
		inf.DisplayName,
		inf.Bio,
		inf.ImageURL,
		inf.IsVerified,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("influencer", "username or email", inf.Username)
		}
		return fmt.Errorf("update influencer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("influencer", inf.ID)
	}

	return nil
}

// SoftDeleteCascade tombstones the influencer, their item groups and items,
// and the comments and stars under those items, in a single transaction.
func (r *InfluencerRepository) SoftDeleteCascade(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin influencer delete tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE influencers SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete influencer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("influencer", id)
	}

	cascade := []string{
		`UPDATE comments SET deleted_at = NOW()
		 WHERE deleted_at IS NULL
		   AND item_id IN (SELECT id FROM items WHERE influencer_id = $1)`,
		`UPDATE item_stars SET deleted_at = NOW()
		 WHERE deleted_at IS NULL
		   AND item_id IN (SELECT id FROM items WHERE influencer_id = $1)`,
		`UPDATE items SET deleted_at = NOW() WHERE influencer_id = $1 AND deleted_at IS NULL`,
		`UPDATE item_groups SET deleted_at = NOW() WHERE influencer_id = $1 AND deleted_at IS NULL`,
		`DELETE FROM reports WHERE reporter_kind = 'influencer' AND reporter_id = $1`,
	}
	for _, q := range cascade {
		if _, err := tx.Exec(ctx, q, id); err != nil {
			return fmt.Errorf("cascade influencer delete: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit influencer delete tx: %w", err)
	}

	return nil
}
