package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/barisbll/influshop-backend-sub000/internal/domain"
	"github.com/barisbll/influshop-backend-sub000/internal/repository"
	apperrors "github.com/barisbll/influshop-backend-sub000/pkg/errors"
)

// maxCommentLength bounds comment content in runes.
const maxCommentLength = 2000

// CommentService implements item comments and their like/dislike votes.
type CommentService struct {
	commentRepo repository.CommentRepository
	itemRepo    repository.ItemRepository
	logger      *slog.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(
	commentRepo repository.CommentRepository,
	itemRepo repository.ItemRepository,
	logger *slog.Logger,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		itemRepo:    itemRepo,
		logger:      logger,
	}
}

// CreateComment posts a comment on an item.
func (s *CommentService) CreateComment(ctx context.Context, userID, itemID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.InvalidInput("comment content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("comment must be at most %d characters", maxCommentLength))
	}

	// The item must still be live.
	if _, err := s.itemRepo.GetByID(ctx, itemID); err != nil {
		return nil, fmt.Errorf("get item for comment: %w", err)
	}

	now := time.Now().UTC()
	comment := &domain.Comment{
		ID:        uuid.New().String(),
		ItemID:    itemID,
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.logger.InfoContext(ctx, "comment created",
		slog.String("user_id", userID),
		slog.String("item_id", itemID),
		slog.String("comment_id", comment.ID),
	)

	return comment, nil
}

// ListComments returns paginated comments for an item.
func (s *CommentService) ListComments(ctx context.Context, itemID string, page, perPage int) ([]domain.Comment, int, error) {
	comments, total, err := s.commentRepo.ListByItem(ctx, itemID, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	return comments, total, nil
}

// UpdateComment edits a comment owned by the user.
func (s *CommentService) UpdateComment(ctx context.Context, userID, commentID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.InvalidInput("comment content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return nil, apperrors.InvalidInput(fmt.Sprintf("comment must be at most %d characters", maxCommentLength))
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("get comment for update: %w", err)
	}

	if comment.UserID != userID {
		return nil, apperrors.NotFound("comment", commentID)
	}

	comment.Content = content
	comment.UpdatedAt = time.Now().UTC()
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}

	s.logger.InfoContext(ctx, "comment updated",
		slog.String("user_id", userID),
		slog.String("comment_id", commentID),
	)

	return comment, nil
}

// DeleteComment removes a comment owned by the user together with its votes.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID string) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("get comment for delete: %w", err)
	}

	if comment.UserID != userID {
		return apperrors.NotFound("comment", commentID)
	}

	if err := s.commentRepo.SoftDelete(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	s.logger.InfoContext(ctx, "comment deleted",
		slog.String("user_id", userID),
		slog.String("comment_id", commentID),
	)

	return nil
}

// VoteComment records, flips, or retracts the user's like/dislike on a
// comment. Voting the same way twice removes the vote.
func (s *CommentService) VoteComment(ctx context.Context, userID, commentID string, isLike bool) error {
	if err := s.commentRepo.Vote(ctx, commentID, userID, isLike); err != nil {
		return fmt.Errorf("vote comment: %w", err)
	}

	s.logger.InfoContext(ctx, "comment vote recorded",
		slog.String("user_id", userID),
		slog.String("comment_id", commentID),
		slog.Bool("is_like", isLike),
	)

	return nil
}
