package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/barisbll/influshop-backend-sub000/internal/domain"
	"github.com/barisbll/influshop-backend-sub000/internal/repository"
	apperrors "github.com/barisbll/influshop-backend-sub000/pkg/errors"
)

// FavoriteService implements the user's favorite items.
type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
	itemRepo     repository.ItemRepository
	logger       *slog.Logger
}

// NewFavoriteService creates a new favorite service.
func NewFavoriteService(
	favoriteRepo repository.FavoriteRepository,
	itemRepo repository.ItemRepository,
	logger *slog.Logger,
) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		itemRepo:     itemRepo,
		logger:       logger,
	}
}

// AddFavorite marks an item as favorited by the user.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID, itemID string) error {
	if _, err := s.itemRepo.GetByID(ctx, itemID); err != nil {
		return fmt.Errorf("get item for favorite: %w", err)
	}

	// Re-favoriting is a no-op rather than a conflict.
	if err := s.favoriteRepo.Add(ctx, userID, itemID); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("add favorite: %w", err)
	}

	s.logger.InfoContext(ctx, "favorite added",
		slog.String("user_id", userID),
		slog.String("item_id", itemID),
	)

	return nil
}

// RemoveFavorite unmarks the favorite.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, itemID string) error {
	if err := s.favoriteRepo.Remove(ctx, userID, itemID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}

	s.logger.InfoContext(ctx, "favorite removed",
		slog.String("user_id", userID),
		slog.String("item_id", itemID),
	)

	return nil
}

// ListFavorites returns the user's favorited items, paginated.
func (s *FavoriteService) ListFavorites(ctx context.Context, userID string, page, perPage int) ([]domain.Item, int, error) {
	items, total, err := s.favoriteRepo.ListByUser(ctx, userID, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list favorites: %w", err)
	}
	return items, total, nil
}
