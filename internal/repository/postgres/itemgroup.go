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

// ItemGroupRepository implements item group persistence using PostgreSQL.
// The per-axis value lists live in a JSONB column.
type ItemGroupRepository struct {
	pool database.DBTX
}

// NewItemGroupRepository creates a new PostgreSQL-backed item group repository.
func NewItemGroupRepository(pool database.DBTX) *ItemGroupRepository {
	return &ItemGroupRepository{pool: pool}
}

// Create inserts a new item group.
func (r *ItemGroupRepository) Create(ctx context.Context, g *domain.ItemGroup) error {
	query := `
		INSERT INTO item_groups (id, influencer_id, name, extra_features, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		g.ID,
		g.InfluencerID,
		g.Name,
		g.ExtraFeatures,
		g.CreatedAt,
		g.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("item group", "name", g.Name)
		}
		return fmt.Errorf("insert item group: %w", err)
	}

	return nil
}

const itemGroupColumns = `id, influencer_id, name, extra_features, created_at, updated_at, deleted_at`

func scanItemGroup(row pgx.Row) (*domain.ItemGroup, error) {
	var g domain.ItemGroup
	err := row.Scan(
		&g.ID,
		&g.InfluencerID,
		&g.Name,
		&g.ExtraFeatures,
		&g.CreatedAt,
		&g.UpdatedAt,
		&g.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan item group: %w", err)
	}
	return &g, nil
}

// GetByID retrieves an active item group by ID.
func (r *ItemGroupRepository) GetByID(ctx context.Context, id string) (*domain.ItemGroup, error) {
	query := `SELECT ` + itemGroupColumns + ` FROM item_groups WHERE id = $1 AND deleted_at IS NULL`
	return scanItemGroup(r.pool.QueryRow(ctx, query, id))
}

// GetByName retrieves an influencer's active item group by name.
func (r *ItemGroupRepository) GetByName(ctx context.Context, influencerID, name string) (*domain.ItemGroup, error) {
	query := `SELECT ` + itemGroupColumns + ` FROM item_groups WHERE influencer_id = $1 AND name = $2 AND deleted_at IS NULL`
	return scanItemGroup(r.pool.QueryRow(ctx, query, influencerID, name))
}

// ListByInfluencer returns the influencer's active item groups.
func (r *ItemGroupRepository) ListByInfluencer(ctx context.Context, influencerID string) ([]domain.ItemGroup, error) {
	query := `SELECT ` + itemGroupColumns + `
		FROM item_groups
		WHERE influencer_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, influencerID)
	if err != nil {
		return nil, fmt.Errorf("list item groups: %w", err)
	}
	defer rows.Close()

	groups := []domain.ItemGroup{}
	for rows.Next() {
		var g domain.ItemGroup
		if err := rows.Scan(
			&g.ID,
			&g.InfluencerID,
			&g.Name,
			&g.ExtraFeatures,
			&g.CreatedAt,
			&g.UpdatedAt,
			&g.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item group row: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item group rows: %w", err)
	}

	return groups, nil
}

// SoftDeleteCascade tombstones the group and its items (plus the items'
// comments and stars) in one transaction.
func (r *ItemGroupRepository) SoftDeleteCascade(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin group delete tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE item_groups SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete item group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("item group", id)
	}

	cascade := []string{
		`UPDATE comments SET deleted_at = NOW()
		 WHERE deleted_at IS NULL
		   AND item_id IN (SELECT id FROM items WHERE item_group_id = $1)`,
		`UPDATE item_stars SET deleted_at = NOW()
		 WHERE deleted_at IS NULL
		   AND item_id IN (SELECT id FROM items WHERE item_group_id = $1)`,
		`UPDATE items SET deleted_at = NOW() WHERE item_group_id = $1 AND deleted_at IS NULL`,
	}
	for _, q := range cascade {
		if _, err := tx.Exec(ctx, q, id); err != nil {
			return fmt.Errorf("cascade group delete: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit group delete tx: %w", err)
	}

	return nil
}
