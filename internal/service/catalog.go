package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/barisbll/influshop-backend-sub000/internal/domain"
	"github.com/barisbll/influshop-backend-sub000/internal/event"
	"github.com/barisbll/influshop-backend-sub000/internal/repository"
	apperrors "github.com/barisbll/influshop-backend-sub000/pkg/errors"
)

// maxItemImages bounds the number of images per item.
const maxItemImages = 6

// CatalogService implements item group and item management for influencers,
// plus the public catalog reads.
type CatalogService struct {
	itemRepo      repository.ItemRepository
	itemGroupRepo repository.ItemGroupRepository
	producer      *event.Producer
	uploader      ImageUploader
	logger        *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	itemRepo repository.ItemRepository,
	itemGroupRepo repository.ItemGroupRepository,
	producer *event.Producer,
	uploader ImageUploader,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		itemRepo:      itemRepo,
		itemGroupRepo: itemGroupRepo,
		producer:      producer,
		uploader:      uploader,
		logger:        logger,
	}
}

// CreateItemGroupInput holds the parameters for creating an item group.
type CreateItemGroupInput struct {
	Name          string
	ExtraFeatures map[string][]string
}

// CreateItemInput holds the parameters for creating an item. A non-nil
// ItemGroupName makes the item a variant of the influencer's group with that
// name.
type CreateItemInput struct {
	Name          string
	Description   string
	Price         int64
	Quantity      int
	ItemGroupName *string
	ExtraFeatures map[string]string
	ImagesBase64  []string
}

// UpdateItemInput holds the parameters for updating an item.
type UpdateItemInput struct {
	Name        *string
	Description *string
	Price       *int64
	Quantity    *int
}

// CreateItemGroup declares a new variant family with its feature axes.
func (s *CatalogService) CreateItemGroup(ctx context.Context, influencerID string, input CreateItemGroupInput) (*domain.ItemGroup, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("item group name is required")
	}
	if len(input.ExtraFeatures) == 0 {
		return nil, apperrors.InvalidInput("item group must declare at least one feature axis")
	}
	for axis, values := range input.ExtraFeatures {
		if strings.TrimSpace(axis) == "" {
			return nil, apperrors.InvalidInput("feature axis names must not be empty")
		}
		for _, v := range values {
			if strings.TrimSpace(v) == "" {
				return nil, apperrors.InvalidInput(fmt.Sprintf("feature axis %q contains an empty value", axis))
			}
		}
	}

	now := time.Now().UTC()
	group := &domain.ItemGroup{
		ID:            uuid.New().String(),
		InfluencerID:  influencerID,
		Name:          input.Name,
		ExtraFeatures: input.ExtraFeatures,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.itemGroupRepo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("create item group: %w", err)
	}

	s.logger.InfoContext(ctx, "item group created",
		slog.String("influencer_id", influencerID),
		slog.String("item_group_id", group.ID),
		slog.String("name", group.Name),
	)

	return group, nil
}

// GetItemGroup returns an item group together with its items.
func (s *CatalogService) GetItemGroup(ctx context.Context, groupID string) (*domain.ItemGroup, []domain.Item, error) {
	group, err := s.itemGroupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, nil, fmt.Errorf("get item group: %w", err)
	}

	items, err := s.itemRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, nil, fmt.Errorf("list group items: %w", err)
	}

	return group, items, nil
}

// ListItemGroups returns the influencer's item groups.
func (s *CatalogService) ListItemGroups(ctx context.Context, influencerID string) ([]domain.ItemGroup, error) {
	groups, err := s.itemGroupRepo.ListByInfluencer(ctx, influencerID)
	if err != nil {
		return nil, fmt.Errorf("list item groups: %w", err)
	}
	return groups, nil
}

// DeleteItemGroup removes a group owned by the influencer together with its items.
func (s *CatalogService) DeleteItemGroup(ctx context.Context, influencerID, groupID string) error {
	group, err := s.itemGroupRepo.GetByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("get item group for delete: %w", err)
	}

	if group.InfluencerID != influencerID {
		return apperrors.NotFound("item group", groupID)
	}

	if err := s.itemGroupRepo.SoftDeleteCascade(ctx, groupID); err != nil {
		return fmt.Errorf("delete item group: %w", err)
	}

	s.logger.InfoContext(ctx, "item group deleted",
		slog.String("influencer_id", influencerID),
		slog.String("item_group_id", groupID),
	)

	return nil
}

// CreateItem creates a standalone item or, when ItemGroupName is set, a
// variant whose feature selections are reconciled against the group's axes.
// Groups are resolved by name within the influencer's own catalog.
func (s *CatalogService) CreateItem(ctx context.Context, influencerID string, input CreateItemInput) (*domain.Item, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("item name is required")
	}
	if input.Price <= 0 {
		return nil, apperrors.InvalidInput("price must be greater than zero")
	}
	if input.Quantity < 0 {
		return nil, apperrors.InvalidInput("quantity must not be negative")
	}
	if len(input.ImagesBase64) > maxItemImages {
		return nil, apperrors.InvalidInput(fmt.Sprintf("an item can have at most %d images", maxItemImages))
	}
	if input.ItemGroupName == nil && len(input.ExtraFeatures) > 0 {
		return nil, apperrors.InvalidInput("feature selections require an item group")
	}
	if input.ItemGroupName != nil && len(input.ExtraFeatures) == 0 {
		return nil, apperrors.InvalidInput("a variant must select a value for each group feature")
	}

	imageURLs := make([]string, 0, len(input.ImagesBase64))
	for _, img := range input.ImagesBase64 {
		url, err := s.uploader.Upload(ctx, "item", influencerID, img)
		if err != nil {
			return nil, fmt.Errorf("upload item image: %w", err)
		}
		imageURLs = append(imageURLs, url)
	}

	now := time.Now().UTC()
	item := &domain.Item{
		ID:            uuid.New().String(),
		InfluencerID:  influencerID,
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		Quantity:      input.Quantity,
		ImageURLs:     imageURLs,
		ExtraFeatures: input.ExtraFeatures,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if input.ItemGroupName != nil {
		// Scoped to the influencer, so a group owned by someone else is
		// indistinguishable from a missing one.
		group, err := s.itemGroupRepo.GetByName(ctx, influencerID, *input.ItemGroupName)
		if err != nil {
			return nil, fmt.Errorf("get item group by name: %w", err)
		}

		if err := s.itemRepo.CreateVariant(ctx, group.ID, item); err != nil {
			return nil, fmt.Errorf("create variant: %w", err)
		}
	} else {
		if err := s.itemRepo.Create(ctx, item); err != nil {
			return nil, fmt.Errorf("create item: %w", err)
		}
	}

	// Publish creation event (non-blocking on failure).
	if err := s.producer.PublishItemCreated(ctx, item); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish item.created event",
			slog.String("item_id", item.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "item created",
		slog.String("influencer_id", influencerID),
		slog.String("item_id", item.ID),
		slog.String("name", item.Name),
	)

	return item, nil
}

// GetItem retrieves an item by ID.
func (s *CatalogService) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// ListItems returns paginated items for an influencer.
func (s *CatalogService) ListItems(ctx context.Context, influencerID string, page, perPage int) ([]domain.Item, int, error) {
	items, total, err := s.itemRepo.ListByInfluencer(ctx, influencerID, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	return items, total, nil
}

// SearchItems returns paginated items matching the keyword and the optional
// price, influencer, and group constraints.
func (s *CatalogService) SearchItems(ctx context.Context, filter repository.ItemSearchFilter, page, perPage int) ([]domain.Item, int, error) {
	filter.Keyword = strings.TrimSpace(filter.Keyword)
	if filter.Keyword == "" {
		return nil, 0, apperrors.InvalidInput("search keyword is required")
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, 0, apperrors.InvalidInput("min_price must not exceed max_price")
	}

	items, total, err := s.itemRepo.Search(ctx, filter, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("search items: %w", err)
	}
	return items, total, nil
}

// UpdateItem updates an item owned by the influencer.
func (s *CatalogService) UpdateItem(ctx context.Context, influencerID, itemID string, input UpdateItemInput) (*domain.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get item for update: %w", err)
	}

	if item.InfluencerID != influencerID {
		return nil, apperrors.NotFound("item", itemID)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("item name must not be empty")
		}
		item.Name = *input.Name
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, apperrors.InvalidInput("price must be greater than zero")
		}
		item.Price = *input.Price
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, apperrors.InvalidInput("quantity must not be negative")
		}
		item.Quantity = *input.Quantity
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	s.logger.InfoContext(ctx, "item updated",
		slog.String("influencer_id", influencerID),
		slog.String("item_id", itemID),
	)

	return item, nil
}

// DeleteItem removes an item owned by the influencer together with its
// comments and ratings.
func (s *CatalogService) DeleteItem(ctx context.Context, influencerID, itemID string) error {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("get item for delete: %w", err)
	}

	if item.InfluencerID != influencerID {
		return apperrors.NotFound("item", itemID)
	}

	if err := s.itemRepo.SoftDeleteCascade(ctx, itemID); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	s.logger.InfoContext(ctx, "item deleted",
		slog.String("influencer_id", influencerID),
		slog.String("item_id", itemID),
	)

	return nil
}
