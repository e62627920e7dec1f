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

// AddressRepository implements address persistence using PostgreSQL.
type AddressRepository struct {
	pool database.DBTX
}

// NewAddressRepository creates a new PostgreSQL-backed address repository.
func NewAddressRepository(pool database.DBTX) *AddressRepository {
	return &AddressRepository{pool: pool}
}

// Create inserts a new address.
func (r *AddressRepository) Create(ctx context.Context, a *domain.Address) error {
	query := `
		INSERT INTO addresses (id, user_id, label, line1, line2, city, state, country, zip_code, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		a.ID,
		a.UserID,
		a.Label,
		a.Line1,
		a.Line2,
		a.City,
		a.State,
		a.Country,
		a.ZipCode,
		a.IsDefault,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}

	return nil
}

const addressColumns = `id, user_id, label, line1, line2, city, state, country, zip_code, is_default, created_at, updated_at, deleted_at`

// GetByID retrieves an active address by ID.
func (r *AddressRepository) GetByID(ctx context.Context, id string) (*domain.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1 AND deleted_at IS NULL`

	var a domain.Address
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.UserID,
		&a.Label,
		&a.Line1,
		&a.Line2,
		&a.City,
		&a.State,
		&a.Country,
		&a.ZipCode,
		&a.IsDefault,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get address: %w", err)
	}

	return &a, nil
}

// ListByUserID returns all active addresses for the given user.
func (r *AddressRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Address, error) {
	query := `SELECT ` + addressColumns + `
		FROM addresses
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY is_default DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	addresses := []domain.Address{}
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.Label,
			&a.Line1,
			&a.Line2,
			&a.City,
			&a.State,
			&a.Country,
			&a.ZipCode,
			&a.IsDefault,
			&a.CreatedAt,
			&a.UpdatedAt,
			&a.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan address row: %w", err)
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate address rows: %w", err)
	}

	return addresses, nil
}

// Update modifies an existing address.
func (r *AddressRepository) Update(ctx context.Context, a *domain.Address) error {
	query := `
		UPDATE addresses
		SET label = $2, line1 = $3, line2 = $4, city = $5, state = $6, country = $7, zip_code = $8, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, query,
		a.ID,
		a.Label,
		a.Line1,
		a.Line2,
		a.City,
		a.State,
		a.Country,
		a.ZipCode,
	)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("address", a.ID)
	}

	return nil
}

// SoftDelete tombstones an address.
func (r *AddressRepository) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE addresses SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("address", id)
	}

	return nil
}

// SetDefault marks the specified address as the user's default inside one
// transaction, unsetting any previous default.
func (r *AddressRepository) SetDefault(ctx context.Context, userID, addressID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin set default tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`UPDATE addresses SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default = TRUE`, userID); err != nil {
		return fmt.Errorf("unset default address: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE addresses SET is_default = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`,
		addressID, userID)
	if err != nil {
		return fmt.Errorf("set default address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("address", addressID)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit set default tx: %w", err)
	}

	return nil
}
