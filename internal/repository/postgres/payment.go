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

// PaymentMethodRepository implements saved card persistence using PostgreSQL.
type PaymentMethodRepository struct {
	pool database.DBTX
}

// NewPaymentMethodRepository creates a new PostgreSQL-backed payment method repository.
func NewPaymentMethodRepository(pool database.DBTX) *PaymentMethodRepository {
	return &PaymentMethodRepository{pool: pool}
}

// Create inserts a new payment method.
func (r *PaymentMethodRepository) Create(ctx context.Context, m *domain.PaymentMethod) error {
	query := `
		INSERT INTO payment_methods (id, user_id, card_holder, brand, last4, expiry_month, expiry_year, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		m.ID,
		m.UserID,
		m.CardHolder,
		m.Brand,
		m.Last4,
		m.ExpiryMonth,
		m.ExpiryYear,
		m.IsDefault,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment method: %w", err)
	}

	return nil
}

const paymentColumns = `id, user_id, card_holder, brand, last4, expiry_month, expiry_year, is_default, created_at, updated_at, deleted_at`

// GetByID retrieves an active payment method by ID.
func (r *PaymentMethodRepository) GetByID(ctx context.Context, id string) (*domain.PaymentMethod, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_methods WHERE id = $1 AND deleted_at IS NULL`

	var m domain.PaymentMethod
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.UserID,
		&m.CardHolder,
		&m.Brand,
		&m.Last4,
		&m.ExpiryMonth,
		&m.ExpiryYear,
		&m.IsDefault,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get payment method: %w", err)
	}

	return &m, nil
}

// ListByUserID returns all active payment methods for the given user.
func (r *PaymentMethodRepository) ListByUserID(ctx context.Context, userID string) ([]domain.PaymentMethod, error) {
	query := `SELECT ` + paymentColumns + `
		FROM payment_methods
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY is_default DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	defer rows.Close()

	methods := []domain.PaymentMethod{}
	for rows.Next() {
		var m domain.PaymentMethod
		if err := rows.Scan(
			&m.ID,
			&m.UserID,
			&m.CardHolder,
			&m.Brand,
			&m.Last4,
			&m.ExpiryMonth,
			&m.ExpiryYear,
			&m.IsDefault,
			&m.CreatedAt,
			&m.UpdatedAt,
			&m.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan payment method row: %w", err)
		}
		methods = append(methods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment method rows: %w", err)
	}

	return methods, nil
}

// SoftDelete tombstones a payment method.
func (r *PaymentMethodRepository) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payment_methods SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete payment method: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("payment method", id)
	}

	return nil
}

// SetDefault marks the specified payment method as the user's default inside
// one transaction, unsetting any previous default.
func (r *PaymentMethodRepository) SetDefault(ctx context.Context, userID, methodID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin set default tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`UPDATE payment_methods SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default = TRUE`, userID); err != nil {
		return fmt.Errorf("unset default payment method: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE payment_methods SET is_default = TRUE, updated_at = NOW() WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`,
		methodID, userID)
	if err != nil {
		return fmt.Errorf("set default payment method: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("payment method", methodID)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit set default tx: %w", err)
	}

	return nil
}
