package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/barisbll/influshop-backend-sub000/internal/domain"
	"github.com/barisbll/influshop-backend-sub000/internal/event"
	"github.com/barisbll/influshop-backend-sub000/internal/repository"
	apperrors "github.com/barisbll/influshop-backend-sub000/pkg/errors"
)

// RatingService implements star ratings over items.
type RatingService struct {
	starRepo repository.StarRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewRatingService creates a new rating service.
func NewRatingService(
	starRepo repository.StarRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *RatingService {
	return &RatingService{
		starRepo: starRepo,
		producer: producer,
		logger:   logger,
	}
}

// RateItem records or replaces the user's rating for an item. The item's
// running average is maintained incrementally; re-rating with the unchanged
// value is rejected.
func (s *RatingService) RateItem(ctx context.Context, userID, itemID string, stars int) error {
	if !domain.ValidStars(stars) {
		return apperrors.InvalidInput(fmt.Sprintf("stars must be between %d and %d", domain.MinStars, domain.MaxStars))
	}

	if err := s.starRepo.RecordRating(ctx, userID, itemID, stars); err != nil {
		return fmt.Errorf("record rating: %w", err)
	}

	// Publish rating event (non-blocking on failure).
	if err := s.producer.PublishItemRated(ctx, itemID, userID, stars); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish item.rated event",
			slog.String("item_id", itemID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "item rated",
		slog.String("user_id", userID),
		slog.String("item_id", itemID),
		slog.Int("stars", stars),
	)

	return nil
}

// GetUserRating returns the user's current rating for the item.
func (s *RatingService) GetUserRating(ctx context.Context, userID, itemID string) (*domain.ItemStar, error) {
	star, err := s.starRepo.GetUserRating(ctx, userID, itemID)
	if err != nil {
		return nil, fmt.Errorf("get user rating: %w", err)
	}
	return star, nil
}
