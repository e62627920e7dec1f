package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/barisbll/influshop-backend-sub000/internal/domain"
	"github.com/barisbll/influshop-backend-sub000/internal/repository"
	apperrors "github.com/barisbll/influshop-backend-sub000/pkg/errors"
)

func newTestCatalogService(
	itemRepo *mockItemRepository,
	itemGroupRepo *mockItemGroupRepository,
	uploader *mockUploader,
) *CatalogService {
	return NewCatalogService(itemRepo, itemGroupRepo, newTestEventProducer(), uploader, newTestLogger())
}

func TestCreateItemGroup_Success(t *testing.T) {
	itemGroupRepo := &mockItemGroupRepository{}
	svc := newTestCatalogService(&mockItemRepository{}, itemGroupRepo, &mockUploader{})

	itemGroupRepo.On("Create", mock.Anything, mock.MatchedBy(func(g *domain.ItemGroup) bool {
		return g.InfluencerID == "inf-1" && g.Name == "hoodie" && len(g.ExtraFeatures["size"]) == 3
	})).Return(nil)

	group, err := svc.CreateItemGroup(context.Background(), "inf-1", CreateItemGroupInput{
		Name:          "hoodie",
		ExtraFeatures: map[string][]string{"size": {"S", "M", "L"}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, group.ID)
	itemGroupRepo.AssertExpectations(t)
}

func TestCreateItemGroup_RequiresFeatureAxis(t *testing.T) {
	svc := newTestCatalogService(&mockItemRepository{}, &mockItemGroupRepository{}, &mockUploader{})

	_, err := svc.CreateItemGroup(context.Background(), "inf-1", CreateItemGroupInput{Name: "hoodie"})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestCreateItem_Standalone(t *testing.T) {
	itemRepo := &mockItemRepository{}
	svc := newTestCatalogService(itemRepo, &mockItemGroupRepository{}, &mockUploader{})

	itemRepo.On("Create", mock.Anything, mock.MatchedBy(func(it *domain.Item) bool {
		return it.InfluencerID == "inf-1" && it.Name == "poster" && it.ItemGroupID == nil
	})).Return(nil)

	item, err := svc.CreateItem(context.Background(), "inf-1", CreateItemInput{
		Name:     "poster",
		Price:    1500,
		Quantity: 5,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	itemRepo.AssertExpectations(t)
}

func TestCreateItem_VariantResolvesGroupByName(t *testing.T) {
	itemRepo := &mockItemRepository{}
	itemGroupRepo := &mockItemGroupRepository{}
	svc := newTestCatalogService(itemRepo, itemGroupRepo, &mockUploader{})

	groupName := "hoodie"
	itemGroupRepo.On("GetByName", mock.Anything, "inf-1", groupName).Return(&domain.ItemGroup{
		ID:            "group-1",
		InfluencerID:  "inf-1",
		Name:          groupName,
		ExtraFeatures: map[string][]string{"size": {"S", "M"}},
	}, nil)
	itemRepo.On("CreateVariant", mock.Anything, "group-1", mock.MatchedBy(func(it *domain.Item) bool {
		return it.ExtraFeatures["size"] == "M"
	})).Return(nil)

	_, err := svc.CreateItem(context.Background(), "inf-1", CreateItemInput{
		Name:          "hoodie M",
		Price:         2999,
		Quantity:      10,
		ItemGroupName: &groupName,
		ExtraFeatures: map[string]string{"size": "M"},
	})
	require.NoError(t, err)
	itemRepo.AssertExpectations(t)
	itemRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// Group lookup is scoped to the influencer, so another influencer's group
// name behaves the same as a name that was never declared.
func TestCreateItem_VariantUnknownGroupName(t *testing.T) {
	itemRepo := &mockItemRepository{}
	itemGroupRepo := &mockItemGroupRepository{}
	svc := newTestCatalogService(itemRepo, itemGroupRepo, &mockUploader{})

	groupName := "hoodie"
	itemGroupRepo.On("GetByName", mock.Anything, "inf-1", groupName).
		Return(nil, apperrors.NotFound("item group", groupName))

	_, err := svc.CreateItem(context.Background(), "inf-1", CreateItemInput{
		Name:          "hoodie M",
		Price:         2999,
		Quantity:      10,
		ItemGroupName: &groupName,
		ExtraFeatures: map[string]string{"size": "M"},
	})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	itemRepo.AssertNotCalled(t, "CreateVariant", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateItem_SelectionsWithoutGroupRejected(t *testing.T) {
	svc := newTestCatalogService(&mockItemRepository{}, &mockItemGroupRepository{}, &mockUploader{})

	_, err := svc.CreateItem(context.Background(), "inf-1", CreateItemInput{
		Name:          "hoodie M",
		Price:         2999,
		ExtraFeatures: map[string]string{"size": "M"},
	})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestCreateItem_UploadsImages(t *testing.T) {
	itemRepo := &mockItemRepository{}
	uploader := &mockUploader{}
	svc := newTestCatalogService(itemRepo, &mockItemGroupRepository{}, uploader)

	uploader.On("Upload", mock.Anything, "item", "inf-1", "aW1hZ2U=").
		Return("https://cdn.example.com/item/inf-1/x.jpg", nil)
	itemRepo.On("Create", mock.Anything, mock.MatchedBy(func(it *domain.Item) bool {
		return len(it.ImageURLs) == 1 && it.ImageURLs[0] == "https://cdn.example.com/item/inf-1/x.jpg"
	})).Return(nil)

	_, err := svc.CreateItem(context.Background(), "inf-1", CreateItemInput{
		Name:         "poster",
		Price:        1500,
		ImagesBase64: []string{"aW1hZ2U="},
	})
	require.NoError(t, err)
	uploader.AssertExpectations(t)
}

func TestUpdateItem_OwnershipEnforced(t *testing.T) {
	itemRepo := &mockItemRepository{}
	svc := newTestCatalogService(itemRepo, &mockItemGroupRepository{}, &mockUploader{})

	itemRepo.On("GetByID", mock.Anything, "item-1").Return(&domain.Item{
		ID:           "item-1",
		InfluencerID: "inf-2",
	}, nil)

	name := "renamed"
	_, err := svc.UpdateItem(context.Background(), "inf-1", "item-1", UpdateItemInput{Name: &name})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	itemRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteItemGroup_OwnershipEnforced(t *testing.T) {
	itemGroupRepo := &mockItemGroupRepository{}
	svc := newTestCatalogService(&mockItemRepository{}, itemGroupRepo, &mockUploader{})

	itemGroupRepo.On("GetByID", mock.Anything, "group-1").Return(&domain.ItemGroup{
		ID:           "group-1",
		InfluencerID: "inf-2",
	}, nil)

	err := svc.DeleteItemGroup(context.Background(), "inf-1", "group-1")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	itemGroupRepo.AssertNotCalled(t, "SoftDeleteCascade", mock.Anything, mock.Anything)
}

func TestSearchItems_EmptyKeywordRejected(t *testing.T) {
	svc := newTestCatalogService(&mockItemRepository{}, &mockItemGroupRepository{}, &mockUploader{})

	_, _, err := svc.SearchItems(context.Background(), repository.ItemSearchFilter{Keyword: "   "}, 1, 20)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestSearchItems_TrimsKeyword(t *testing.T) {
	itemRepo := &mockItemRepository{}
	svc := newTestCatalogService(itemRepo, &mockItemGroupRepository{}, &mockUploader{})

	itemRepo.On("Search", mock.Anything, repository.ItemSearchFilter{Keyword: "hoodie"}, 1, 20).
		Return([]domain.Item{{ID: "item-1"}}, 1, nil)

	items, total, err := svc.SearchItems(context.Background(), repository.ItemSearchFilter{Keyword: "  hoodie  "}, 1, 20)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, total)
}

func TestSearchItems_InvertedPriceRangeRejected(t *testing.T) {
	itemRepo := &mockItemRepository{}
	svc := newTestCatalogService(itemRepo, &mockItemGroupRepository{}, &mockUploader{})

	minPrice, maxPrice := int64(5000), int64(1000)
	_, _, err := svc.SearchItems(context.Background(), repository.ItemSearchFilter{
		Keyword:  "hoodie",
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
	}, 1, 20)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	itemRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
