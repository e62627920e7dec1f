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

// CommentRepository implements comment and vote persistence using PostgreSQL.
type CommentRepository struct {
	pool database.DBTX
}

// NewCommentRepository creates a new PostgreSQL-backed comment repository.
func NewCommentRepository(pool database.DBTX) *CommentRepository {
	return &CommentRepository{pool: pool}
}

// Create inserts a new comment.
func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	query := `
		INSERT INTO comments (id, item_id, user_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.ItemID,
		c.UserID,
		c.Content,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	return nil
}

const commentColumns = `id, item_id, user_id, content, likes, dislikes, created_at, updated_at, deleted_at`

// GetByID retrieves an active comment by ID.
func (r *CommentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1 AND deleted_at IS NULL`

	var c domain.Comment
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.ItemID,
		&c.UserID,
		&c.Content,
		&c.Likes,
		&c.Dislikes,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}

	return &c, nil
}

// ListByItem returns paginated active comments for an item plus the total count.
func (r *CommentRepository) ListByItem(ctx context.Context, itemID string, page, perPage int) ([]domain.Comment, int, error) {
	limit, offset := pageBounds(page, perPage)

	query := `SELECT ` + commentColumns + `, count(*) OVER() AS total_count
		FROM comments
		WHERE item_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, itemID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	totalCount := 0

	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(
			&c.ID,
			&c.ItemID,
			&c.UserID,
			&c.Content,
			&c.Likes,
			&c.Dislikes,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.DeletedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate comment rows: %w", err)
	}

	return comments, totalCount, nil
}

// Update modifies an existing comment's content.
func (r *CommentRepository) Update(ctx context.Context, c *domain.Comment) error {
	query := `UPDATE comments SET content = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.pool.Exec(ctx, query, c.ID, c.Content)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("comment", c.ID)
	}

	return nil
}

// SoftDelete tombstones the comment and its votes in one transaction.
func (r *CommentRepository) SoftDelete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin comment delete tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE comments SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("comment", id)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE comment_votes SET deleted_at = NOW() WHERE comment_id = $1 AND deleted_at IS NULL`, id); err != nil {
		return fmt.Errorf("cascade comment delete: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit comment delete tx: %w", err)
	}

	return nil
}

// Vote records, flips, or removes the user's like/dislike on a comment inside
// one transaction. The comment row is locked with FOR UPDATE so the counter
// maintenance cannot race. Voting the same way twice removes the vote.
func (r *CommentRepository) Vote(ctx context.Context, commentID, userID string, isLike bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin vote tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var likes, dislikes int
	err = tx.QueryRow(ctx,
		`SELECT likes, dislikes FROM comments
		 WHERE id = $1 AND deleted_at IS NULL
		 FOR UPDATE`, commentID).
		Scan(&likes, &dislikes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("comment", commentID)
		}
		return fmt.Errorf("lock comment: %w", err)
	}

	var (
		voteID  string
		wasLike bool
	)
	err = tx.QueryRow(ctx,
		`SELECT id, is_like FROM comment_votes
		 WHERE comment_id = $1 AND user_id = $2 AND deleted_at IS NULL`, commentID, userID).
		Scan(&voteID, &wasLike)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if _, err := tx.Exec(ctx,
			`INSERT INTO comment_votes (id, comment_id, user_id, is_like, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, NOW(), NOW())`,
			uuid.New().String(), commentID, userID, isLike); err != nil {
			return fmt.Errorf("insert vote: %w", err)
		}
		if isLike {
			likes++
		} else {
			dislikes++
		}

	case err != nil:
		return fmt.Errorf("get existing vote: %w", err)

	case wasLike == isLike:
		// Same direction again: retract the vote.
		if _, err := tx.Exec(ctx,
			`UPDATE comment_votes SET deleted_at = NOW() WHERE id = $1`, voteID); err != nil {
			return fmt.Errorf("remove vote: %w", err)
		}
		if isLike {
			likes--
		} else {
			dislikes--
		}

	default:
		// Opposite direction: flip the vote.
		if _, err := tx.Exec(ctx,
			`UPDATE comment_votes SET is_like = $2, updated_at = NOW() WHERE id = $1`, voteID, isLike); err != nil {
			return fmt.Errorf("flip vote: %w", err)
		}
		if isLike {
			likes++
			dislikes--
		} else {
			likes--
			dislikes++
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE comments SET likes = $2, dislikes = $3, updated_at = NOW() WHERE id = $1`,
		commentID, likes, dislikes); err != nil {
		return fmt.Errorf("update vote counters: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit vote tx: %w", err)
	}

	return nil
}
