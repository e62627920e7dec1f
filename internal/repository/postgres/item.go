package postgres

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/barisbll/influshop-backend-sub000/internal/domain"
	"github.com/barisbll/influshop-backend-sub000/internal/repository"
	"github.com/barisbll/influshop-backend-sub000/pkg/database"
	apperrors "github.com/barisbll/influshop-backend-sub000/pkg/errors"
)

// ItemRepository implements item persistence using PostgreSQL. Feature
// selections live in a JSONB column; image URLs in a text array.
type ItemRepository struct {
	pool database.DBTX
}

// NewItemRepository creates a new PostgreSQL-backed item repository.
func NewItemRepository(pool database.DBTX) *ItemRepository {
	return &ItemRepository{pool: pool}
}

const itemColumns = `id, influencer_id, item_group_id, name, description, price, quantity, image_urls, extra_features, average_stars, stars_count, created_at, updated_at, deleted_at`

func scanItem(row pgx.Row) (*domain.Item, error) {
	var it domain.Item
	err := row.Scan(
		&it.ID,
		&it.InfluencerID,
		&it.ItemGroupID,
		&it.Name,
		&it.Description,
		&it.Price,
		&it.Quantity,
		&it.ImageURLs,
		&it.ExtraFeatures,
		&it.AverageStars,
		&it.StarsCount,
		&it.CreatedAt,
		&it.UpdatedAt,
		&it.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return &it, nil
}

func scanItemRows(rows pgx.Rows) ([]domain.Item, int, error) {
	defer rows.Close()

	items := []domain.Item{}
	totalCount := 0

	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(
			&it.ID,
			&it.InfluencerID,
			&it.ItemGroupID,
			&it.Name,
			&it.Description,
			&it.Price,
			&it.Quantity,
			&it.ImageURLs,
			&it.ExtraFeatures,
			&it.AverageStars,
			&it.StarsCount,
			&it.CreatedAt,
			&it.UpdatedAt,
			&it.DeletedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan item row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate item rows: %w", err)
	}

	return items, totalCount, nil
}

const insertItemQuery = `
	INSERT INTO items (id, influencer_id, item_group_id, name, description, price, quantity, image_urls, extra_features, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// Create inserts a standalone item with no group membership.
func (r *ItemRepository) Create(ctx context.Context, it *domain.Item) error {
	_, err := r.pool.Exec(ctx, insertItemQuery,
		it.ID,
		it.InfluencerID,
		it.ItemGroupID,
		it.Name,
		it.Description,
		it.Price,
		it.Quantity,
		it.ImageURLs,
		it.ExtraFeatures,
		it.CreatedAt,
		it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("item", "name", it.Name)
		}
		return fmt.Errorf("insert item: %w", err)
	}

	return nil
}

// CreateVariant inserts an item into the given group inside one transaction.
// The group row is locked with FOR UPDATE so concurrent variant creations on
// the same group serialize: the item's feature selections must match the
// group's declared axes exactly, no existing item in the group may carry the
// identical full value tuple, and any new values are registered into the
// group's per-axis lists.
func (r *ItemRepository) CreateVariant(ctx context.Context, groupID string, it *domain.Item) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin variant tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var group domain.ItemGroup
	err = tx.QueryRow(ctx,
		`SELECT id, influencer_id, name, extra_features
		 FROM item_groups
		 WHERE id = $1 AND deleted_at IS NULL
		 FOR UPDATE`, groupID).
		Scan(&group.ID, &group.InfluencerID, &group.Name, &group.ExtraFeatures)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("item group", groupID)
		}
		return fmt.Errorf("lock item group: %w", err)
	}

	if mismatch := group.MatchSelections(it.ExtraFeatures); !mismatch.IsZero() {
		return &apperrors.AppError{
			Code:    "GROUP_FEATURE_MISMATCH",
			Message: fmt.Sprintf("selections do not match group axes (missing %v, extra %v)", mismatch.Missing, mismatch.Extra),
			Status:  http.StatusBadRequest,
			Err:     apperrors.ErrInvalidInput,
		}
	}

	// No two items in a group may share the identical full value tuple.
	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM items
			WHERE item_group_id = $1 AND deleted_at IS NULL AND extra_features = $2
		)`, groupID, it.ExtraFeatures).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check duplicate variant: %w", err)
	}
	if exists {
		return apperrors.Conflict("DUPLICATE_VARIANT", "an item with this exact feature combination already exists in the group")
	}

	if group.RegisterSelections(it.ExtraFeatures) {
		if _, err := tx.Exec(ctx,
			`UPDATE item_groups SET extra_features = $2, updated_at = NOW() WHERE id = $1`,
			groupID, group.ExtraFeatures); err != nil {
			return fmt.Errorf("register feature values: %w", err)
		}
	}

	it.ItemGroupID = &groupID
	if _, err := tx.Exec(ctx, insertItemQuery,
		it.ID,
		it.InfluencerID,
		it.ItemGroupID,
		it.Name,
		it.Description,
		it.Price,
		it.Quantity,
		it.ImageURLs,
		it.ExtraFeatures,
		it.CreatedAt,
		it.UpdatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("item", "name", it.Name)
		}
		return fmt.Errorf("insert variant item: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit variant tx: %w", err)
	}

	return nil
}

// GetByID retrieves an active item by ID.
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 AND deleted_at IS NULL`
	return scanItem(r.pool.QueryRow(ctx, query, id))
}

// ListByInfluencer returns paginated active items for an influencer plus the
// total count.
func (r *ItemRepository) ListByInfluencer(ctx context.Context, influencerID string, page, perPage int) ([]domain.Item, int, error) {
	limit, offset := pageBounds(page, perPage)

	query := `SELECT ` + itemColumns + `, count(*) OVER() AS total_count
		FROM items
		WHERE influencer_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, influencerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}

	return scanItemRows(rows)
}

// ListByGroup returns the active items in an item group.
func (r *ItemRepository) ListByGroup(ctx context.Context, groupID string) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + `
		FROM items
		WHERE item_group_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("list group items: %w", err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(
			&it.ID,
			&it.InfluencerID,
			&it.ItemGroupID,
			&it.Name,
			&it.Description,
			&it.Price,
			&it.Quantity,
			&it.ImageURLs,
			&it.ExtraFeatures,
			&it.AverageStars,
			&it.StarsCount,
			&it.CreatedAt,
			&it.UpdatedAt,
			&it.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan group item row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate group item rows: %w", err)
	}

	return items, nil
}

// Search returns paginated active items matching the filter, plus the total
// count. The keyword is a case-insensitive substring match on name or
// description; price, influencer, and group constraints are optional.
func (r *ItemRepository) Search(ctx context.Context, filter repository.ItemSearchFilter, page, perPage int) ([]domain.Item, int, error) {
	limit, offset := pageBounds(page, perPage)

	where := `deleted_at IS NULL AND (name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')`
	args := []any{filter.Keyword}

	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		where += fmt.Sprintf(" AND price >= $%d", len(args))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		where += fmt.Sprintf(" AND price <= $%d", len(args))
	}
	if filter.InfluencerID != nil {
		args = append(args, *filter.InfluencerID)
		where += fmt.Sprintf(" AND influencer_id = $%d", len(args))
	}
	if filter.ItemGroupID != nil {
		args = append(args, *filter.ItemGroupID)
		where += fmt.Sprintf(" AND item_group_id = $%d", len(args))
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s, count(*) OVER() AS total_count
		FROM items
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, itemColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search items: %w", err)
	}

	return scanItemRows(rows)
}

// Update modifies an existing item's editable fields.
func (r *ItemRepository) Update(ctx context.Context, it *domain.Item) error {
	query := `
		UPDATE items
		SET name = $2, description = $3, price = $4, quantity = $5, image_urls = $6, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, query,
		it.ID,
		it.Name,
		it.Description,
		it.Price,
		it.Quantity,
		it.ImageURLs,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("item", it.ID)
	}

	return nil
}

// SoftDeleteCascade tombstones the item with its comments, votes, and stars
// in one transaction.
func (r *ItemRepository) SoftDeleteCascade(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin item delete tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE items SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("item", id)
	}

	cascade := []string{
		`UPDATE comment_votes SET deleted_at = NOW()
		 WHERE deleted_at IS NULL
		   AND comment_id IN (SELECT id FROM comments WHERE item_id = $1)`,
		`UPDATE comments SET deleted_at = NOW() WHERE item_id = $1 AND deleted_at IS NULL`,
		`UPDATE item_stars SET deleted_at = NOW() WHERE item_id = $1 AND deleted_at IS NULL`,
		`DELETE FROM favorites WHERE item_id = $1`,
	}
	for _, q := range cascade {
		if _, err := tx.Exec(ctx, q, id); err != nil {
			return fmt.Errorf("cascade item delete: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit item delete tx: %w", err)
	}

	return nil
}

// pageBounds converts 1-based page/perPage into LIMIT/OFFSET values.
func pageBounds(page, perPage int) (limit, offset int) {
	limit = perPage
	if limit <= 0 {
		limit = 20
	}
	if page > 1 {
		offset = (page - 1) * limit
	}
	return limit, offset
}
