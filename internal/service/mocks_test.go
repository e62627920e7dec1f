package service

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/barisbll/influshop-backend-sub000/internal/auth"
	"github.com/barisbll/influshop-backend-sub000/internal/domain"
	"github.com/barisbll/influshop-backend-sub000/internal/event"
	"github.com/barisbll/influshop-backend-sub000/internal/repository"
	pkgkafka "github.com/barisbll/influshop-backend-sub000/pkg/kafka"
)

// --- Mock User Repository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) SoftDeleteCascade(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock Influencer Repository ---

type mockInfluencerRepository struct {
	mock.Mock
}

func (m *mockInfluencerRepository) Create(ctx context.Context, inf *domain.Influencer) error {
	args := m.Called(ctx, inf)
	return args.Error(0)
}

func (m *mockInfluencerRepository) GetByID(ctx context.Context, id string) (*domain.Influencer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Influencer), args.Error(1)
}

func (m *mockInfluencerRepository) GetByEmail(ctx context.Context, email string) (*domain.Influencer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Influencer), args.Error(1)
}

func (m *mockInfluencerRepository) GetByUsername(ctx context.Context, username string) (*domain.Influencer, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Influencer), args.Error(1)
}

func (m *mockInfluencerRepository) Update(ctx context.Context, inf *domain.Influencer) error {
	args := m.Called(ctx, inf)
	return args.Error(0)
}

func (m *mockInfluencerRepository) SoftDeleteCascade(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock Refresh Token Repository ---

type mockRefreshTokenRepository struct {
	mock.Mock
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, accountID, role, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, accountID, role, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *mockRefreshTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshToken), args.Error(1)
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *mockRefreshTokenRepository) RevokeByAccountID(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// --- Mock Item Group Repository ---

type mockItemGroupRepository struct {
	mock.Mock
}

func (m *mockItemGroupRepository) Create(ctx context.Context, group *domain.ItemGroup) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *mockItemGroupRepository) GetByID(ctx context.Context, id string) (*domain.ItemGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ItemGroup), args.Error(1)
}

func (m *mockItemGroupRepository) GetByName(ctx context.Context, influencerID, name string) (*domain.ItemGroup, error) {
	args := m.Called(ctx, influencerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ItemGroup), args.Error(1)
}

func (m *mockItemGroupRepository) ListByInfluencer(ctx context.Context, influencerID string) ([]domain.ItemGroup, error) {
	args := m.Called(ctx, influencerID)
	return args.Get(0).([]domain.ItemGroup), args.Error(1)
}

func (m *mockItemGroupRepository) SoftDeleteCascade(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock Item Repository ---

type mockItemRepository struct {
	mock.Mock
}

func (m *mockItemRepository) Create(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockItemRepository) CreateVariant(ctx context.Context, groupID string, item *domain.Item) error {
	args := m.Called(ctx, groupID, item)
	return args.Error(0)
}

func (m *mockItemRepository) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *mockItemRepository) ListByInfluencer(ctx context.Context, influencerID string, page, perPage int) ([]domain.Item, int, error) {
	args := m.Called(ctx, influencerID, page, perPage)
	return args.Get(0).([]domain.Item), args.Int(1), args.Error(2)
}

func (m *mockItemRepository) ListByGroup(ctx context.Context, groupID string) ([]domain.Item, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *mockItemRepository) Search(ctx context.Context, filter repository.ItemSearchFilter, page, perPage int) ([]domain.Item, int, error) {
	args := m.Called(ctx, filter, page, perPage)
	return args.Get(0).([]domain.Item), args.Int(1), args.Error(2)
}

func (m *mockItemRepository) Update(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockItemRepository) SoftDeleteCascade(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock Star Repository ---

type mockStarRepository struct {
	mock.Mock
}

func (m *mockStarRepository) RecordRating(ctx context.Context, userID, itemID string, stars int) error {
	args := m.Called(ctx, userID, itemID, stars)
	return args.Error(0)
}

func (m *mockStarRepository) GetUserRating(ctx context.Context, userID, itemID string) (*domain.ItemStar, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ItemStar), args.Error(1)
}

// --- Mock Comment Repository ---

type mockCommentRepository struct {
	mock.Mock
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *mockCommentRepository) ListByItem(ctx context.Context, itemID string, page, perPage int) ([]domain.Comment, int, error) {
	args := m.Called(ctx, itemID, page, perPage)
	return args.Get(0).([]domain.Comment), args.Int(1), args.Error(2)
}

func (m *mockCommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *mockCommentRepository) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCommentRepository) Vote(ctx context.Context, commentID, userID string, isLike bool) error {
	args := m.Called(ctx, commentID, userID, isLike)
	return args.Error(0)
}

// --- Mock Report Repository ---

type mockReportRepository struct {
	mock.Mock
}

func (m *mockReportRepository) Get(ctx context.Context, targetKind domain.TargetKind, targetID string, reporterKind domain.ReporterKind, reporterID string) (*domain.Report, error) {
	args := m.Called(ctx, targetKind, targetID, reporterKind, reporterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *mockReportRepository) Create(ctx context.Context, report *domain.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *mockReportRepository) UpdateReason(ctx context.Context, id, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *mockReportRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockReportRepository) ListUncontrolled(ctx context.Context, page, perPage int) ([]domain.Report, int, error) {
	args := m.Called(ctx, page, perPage)
	return args.Get(0).([]domain.Report), args.Int(1), args.Error(2)
}

func (m *mockReportRepository) MarkControlled(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock Favorite Repository ---

type mockFavoriteRepository struct {
	mock.Mock
}

func (m *mockFavoriteRepository) Add(ctx context.Context, userID, itemID string) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}

func (m *mockFavoriteRepository) Remove(ctx context.Context, userID, itemID string) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}

func (m *mockFavoriteRepository) ListByUser(ctx context.Context, userID string, page, perPage int) ([]domain.Item, int, error) {
	args := m.Called(ctx, userID, page, perPage)
	return args.Get(0).([]domain.Item), args.Int(1), args.Error(2)
}

// --- Mock Address Repository ---

type mockAddressRepository struct {
	mock.Mock
}

func (m *mockAddressRepository) Create(ctx context.Context, address *domain.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *mockAddressRepository) GetByID(ctx context.Context, id string) (*domain.Address, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Address), args.Error(1)
}

func (m *mockAddressRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Address, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Address), args.Error(1)
}

func (m *mockAddressRepository) Update(ctx context.Context, address *domain.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *mockAddressRepository) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAddressRepository) SetDefault(ctx context.Context, userID, addressID string) error {
	args := m.Called(ctx, userID, addressID)
	return args.Error(0)
}

// --- Mock Payment Method Repository ---

type mockPaymentMethodRepository struct {
	mock.Mock
}

func (m *mockPaymentMethodRepository) Create(ctx context.Context, method *domain.PaymentMethod) error {
	args := m.Called(ctx, method)
	return args.Error(0)
}

func (m *mockPaymentMethodRepository) GetByID(ctx context.Context, id string) (*domain.PaymentMethod, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentMethod), args.Error(1)
}

func (m *mockPaymentMethodRepository) ListByUserID(ctx context.Context, userID string) ([]domain.PaymentMethod, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.PaymentMethod), args.Error(1)
}

func (m *mockPaymentMethodRepository) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPaymentMethodRepository) SetDefault(ctx context.Context, userID, methodID string) error {
	args := m.Called(ctx, userID, methodID)
	return args.Error(0)
}

// --- Mock Cart Repository ---

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *mockCartRepository) SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) (bool, error) {
	args := m.Called(ctx, cart, expectedVersion)
	return args.Bool(0), args.Error(1)
}

func (m *mockCartRepository) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- Mock Image Uploader ---

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, ownerKind, ownerID, imageBase64 string) (string, error) {
	args := m.Called(ctx, ownerKind, ownerID, imageBase64)
	return args.String(0), args.Error(1)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret-key-for-testing", 15*time.Minute, 7*24*time.Hour)
}

func newTestEventProducer() *event.Producer {
	logger := newTestLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	return event.NewProducer(kafkaProducer, logger)
}
