package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/barisbll/influshop-backend-sub000/internal/domain"
	"github.com/barisbll/influshop-backend-sub000/internal/repository"
	apperrors "github.com/barisbll/influshop-backend-sub000/pkg/errors"
)

// Cart limits.
const (
	maxCartItems        = 50
	maxQuantityPerItem  = 20
	cartTTL             = 30 * 24 * time.Hour
	maxCartSaveAttempts = 3
)

// CartService implements the user's shopping cart over the optimistic
// versioned cart store.
type CartService struct {
	cartRepo repository.CartRepository
	itemRepo repository.ItemRepository
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	itemRepo repository.ItemRepository,
	logger *slog.Logger,
) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		itemRepo: itemRepo,
		logger:   logger,
	}
}

// GetCart returns the user's cart, materializing an empty one if none exists.
func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.cartRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart == nil {
		cart = newCart(userID)
	}
	return cart, nil
}

// AddItem puts quantity units of the item into the cart, snapshotting the
// item's current price and name.
func (s *CartService) AddItem(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be greater than zero")
	}
	if quantity > maxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must be at most %d", maxQuantityPerItem))
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get item for cart: %w", err)
	}
	if item.Quantity < quantity {
		return nil, apperrors.Conflict("INSUFFICIENT_STOCK", "not enough stock for the requested quantity")
	}

	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		idx := cart.FindItemIndex(itemID)
		if idx >= 0 {
			next := cart.Items[idx].Quantity + quantity
			if next > maxQuantityPerItem {
				return apperrors.InvalidInput(fmt.Sprintf("quantity must be at most %d", maxQuantityPerItem))
			}
			cart.Items[idx].Quantity = next
			return nil
		}

		if len(cart.Items) >= maxCartItems {
			return apperrors.InvalidInput(fmt.Sprintf("cart can hold at most %d distinct items", maxCartItems))
		}

		imageURL := ""
		if len(item.ImageURLs) > 0 {
			imageURL = item.ImageURLs[0]
		}
		cart.Items = append(cart.Items, domain.CartItem{
			ItemID:   item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: quantity,
			ImageURL: imageURL,
		})
		return nil
	})
}

// UpdateItemQuantity sets the quantity of an item already in the cart.
// Quantity zero removes the item.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error) {
	if quantity < 0 {
		return nil, apperrors.InvalidInput("quantity must not be negative")
	}
	if quantity > maxQuantityPerItem {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must be at most %d", maxQuantityPerItem))
	}

	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		idx := cart.FindItemIndex(itemID)
		if idx < 0 {
			return apperrors.NotFound("cart item", itemID)
		}
		if quantity == 0 {
			cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
			return nil
		}
		cart.Items[idx].Quantity = quantity
		return nil
	})
}

// RemoveItem takes an item out of the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) (*domain.Cart, error) {
	return s.mutate(ctx, userID, func(cart *domain.Cart) error {
		idx := cart.FindItemIndex(itemID)
		if idx < 0 {
			return apperrors.NotFound("cart item", itemID)
		}
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		return nil
	})
}

// ClearCart drops the user's cart entirely.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	if err := s.cartRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("user_id", userID),
	)

	return nil
}

// mutate loads the cart, applies fn, and saves under the optimistic version
// check, retrying on concurrent writes.
func (s *CartService) mutate(ctx context.Context, userID string, fn func(cart *domain.Cart) error) (*domain.Cart, error) {
	for attempt := 0; attempt < maxCartSaveAttempts; attempt++ {
		cart, err := s.cartRepo.Get(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("get cart: %w", err)
		}
		if cart == nil {
			cart = newCart(userID)
		}

		if err := fn(cart); err != nil {
			return nil, err
		}

		expected := cart.Version
		now := time.Now().UTC()
		cart.UpdatedAt = now
		cart.ExpiresAt = now.Add(cartTTL)

		saved, err := s.cartRepo.SaveIfVersion(ctx, cart, expected)
		if err != nil {
			return nil, fmt.Errorf("save cart: %w", err)
		}
		if saved {
			s.logger.InfoContext(ctx, "cart updated",
				slog.String("user_id", userID),
				slog.Int("item_count", cart.ItemCount()),
			)
			return cart, nil
		}

		s.logger.DebugContext(ctx, "cart save lost version race, retrying",
			slog.String("user_id", userID),
			slog.Int("attempt", attempt+1),
		)
	}

	return nil, apperrors.Conflict("CART_CONFLICT", "cart was modified concurrently, retry the request")
}

func newCart(userID string) *domain.Cart {
	now := time.Now().UTC()
	return &domain.Cart{
		UserID:    userID,
		Items:     []domain.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(cartTTL),
	}
}
