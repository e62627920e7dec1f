package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/barisbll/influshop-backend-sub000/internal/domain"
	"github.com/barisbll/influshop-backend-sub000/internal/repository"
	apperrors "github.com/barisbll/influshop-backend-sub000/pkg/errors"
)

// ProfileService implements profile management, account deletion, and the
// user's saved addresses and payment methods.
type ProfileService struct {
	userRepo         repository.UserRepository
	influencerRepo   repository.InfluencerRepository
	refreshTokenRepo repository.RefreshTokenRepository
	addressRepo      repository.AddressRepository
	paymentRepo      repository.PaymentMethodRepository
	cartRepo         repository.CartRepository
	uploader         ImageUploader
	logger           *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(
	userRepo repository.UserRepository,
	influencerRepo repository.InfluencerRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	addressRepo repository.AddressRepository,
	paymentRepo repository.PaymentMethodRepository,
	cartRepo repository.CartRepository,
	uploader ImageUploader,
	logger *slog.Logger,
) *ProfileService {
	return &ProfileService{
		userRepo:         userRepo,
		influencerRepo:   influencerRepo,
		refreshTokenRepo: refreshTokenRepo,
		addressRepo:      addressRepo,
		paymentRepo:      paymentRepo,
		cartRepo:         cartRepo,
		uploader:         uploader,
		logger:           logger,
	}
}

// UpdateInfluencerInput holds the parameters for updating an influencer profile.
type UpdateInfluencerInput struct {
	DisplayName *string
	Bio         *string
	ImageBase64 *string
}

// AddressInput holds the parameters for creating an address.
type AddressInput struct {
	Label     string
	Line1     string
	Line2     string
	City      string
	State     string
	Country   string
	ZipCode   string
	IsDefault bool
}

// PaymentMethodInput holds the parameters for saving a card. Only display
// fields are accepted.
type PaymentMethodInput struct {
	CardHolder  string
	Brand       string
	Last4       string
	ExpiryMonth int
	ExpiryYear  int
	IsDefault   bool
}

// GetUser retrieves a user by ID.
func (s *ProfileService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetInfluencer retrieves an influencer by ID.
func (s *ProfileService) GetInfluencer(ctx context.Context, influencerID string) (*domain.Influencer, error) {
	inf, err := s.influencerRepo.GetByID(ctx, influencerID)
	if err != nil {
		return nil, fmt.Errorf("get influencer: %w", err)
	}
	return inf, nil
}

// UpdateInfluencer updates an influencer's public profile. A provided image is
// uploaded to the CDN before the profile row is touched.
func (s *ProfileService) UpdateInfluencer(ctx context.Context, influencerID string, input UpdateInfluencerInput) (*domain.Influencer, error) {
	inf, err := s.influencerRepo.GetByID(ctx, influencerID)
	if err != nil {
		return nil, fmt.Errorf("get influencer for update: %w", err)
	}

	if input.DisplayName != nil {
		if *input.DisplayName == "" {
			return nil, apperrors.InvalidInput("display name must not be empty")
		}
		inf.DisplayName = *input.DisplayName
	}
	if input.Bio != nil {
		inf.Bio = *input.Bio
	}
	if input.ImageBase64 != nil {
		url, err := s.uploader.Upload(ctx, "influencer", influencerID, *input.ImageBase64)
		if err != nil {
			return nil, fmt.Errorf("upload profile image: %w", err)
		}
		inf.ImageURL = url
	}

	inf.UpdatedAt = time.Now().UTC()
	if err := s.influencerRepo.Update(ctx, inf); err != nil {
		return nil, fmt.Errorf("update influencer: %w", err)
	}

	s.logger.InfoContext(ctx, "influencer profile updated",
		slog.String("influencer_id", influencerID),
	)

	return inf, nil
}

// DeleteUser tombstones the user account and its dependents, drops the cart,
// and revokes all sessions.
func (s *ProfileService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.userRepo.SoftDeleteCascade(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if err := s.cartRepo.Delete(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to drop cart on account deletion",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.refreshTokenRepo.RevokeByAccountID(ctx, userID); err != nil {
		s.logger.ErrorContext(ctx, "failed to revoke sessions on account deletion",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user account deleted",
		slog.String("user_id", userID),
	)

	return nil
}

// DeleteInfluencer tombstones the influencer account together with its
// catalog, and revokes all sessions.
func (s *ProfileService) DeleteInfluencer(ctx context.Context, influencerID string) error {
	if err := s.influencerRepo.SoftDeleteCascade(ctx, influencerID); err != nil {
		return fmt.Errorf("delete influencer: %w", err)
	}

	if err := s.refreshTokenRepo.RevokeByAccountID(ctx, influencerID); err != nil {
		s.logger.ErrorContext(ctx, "failed to revoke sessions on account deletion",
			slog.String("influencer_id", influencerID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "influencer account deleted",
		slog.String("influencer_id", influencerID),
	)

	return nil
}

// --- Address Operations ---

// CreateAddress creates a new address for the user.
func (s *ProfileService) CreateAddress(ctx context.Context, userID string, input AddressInput) (*domain.Address, error) {
	if input.Line1 == "" {
		return nil, apperrors.InvalidInput("address line 1 is required")
	}
	if input.City == "" {
		return nil, apperrors.InvalidInput("city is required")
	}
	if input.Country == "" {
		return nil, apperrors.InvalidInput("country is required")
	}
	if input.ZipCode == "" {
		return nil, apperrors.InvalidInput("zip code is required")
	}

	now := time.Now().UTC()
	address := &domain.Address{
		ID:        uuid.New().String(),
		UserID:    userID,
		Label:     input.Label,
		Line1:     input.Line1,
		Line2:     input.Line2,
		City:      input.City,
		State:     input.State,
		Country:   input.Country,
		ZipCode:   input.ZipCode,
		IsDefault: input.IsDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}

	if input.IsDefault {
		if err := s.addressRepo.SetDefault(ctx, userID, address.ID); err != nil {
			s.logger.ErrorContext(ctx, "failed to set default address",
				slog.String("address_id", address.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "address created",
		slog.String("user_id", userID),
		slog.String("address_id", address.ID),
	)

	return address, nil
}

// ListAddresses returns all addresses for the given user.
func (s *ProfileService) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	addresses, err := s.addressRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return addresses, nil
}

// DeleteAddress removes an address owned by the user.
func (s *ProfileService) DeleteAddress(ctx context.Context, userID, addressID string) error {
	address, err := s.addressRepo.GetByID(ctx, addressID)
	if err != nil {
		return fmt.Errorf("get address for delete: %w", err)
	}

	if address.UserID != userID {
		return apperrors.NotFound("address", addressID)
	}

	if err := s.addressRepo.SoftDelete(ctx, addressID); err != nil {
		return fmt.Errorf("delete address: %w", err)
	}

	s.logger.InfoContext(ctx, "address deleted",
		slog.String("user_id", userID),
		slog.String("address_id", addressID),
	)

	return nil
}

// SetDefaultAddress marks the specified address as the user's default.
func (s *ProfileService) SetDefaultAddress(ctx context.Context, userID, addressID string) error {
	address, err := s.addressRepo.GetByID(ctx, addressID)
	if err != nil {
		return fmt.Errorf("get address for set default: %w", err)
	}

	if address.UserID != userID {
		return apperrors.NotFound("address", addressID)
	}

	if err := s.addressRepo.SetDefault(ctx, userID, addressID); err != nil {
		return fmt.Errorf("set default address: %w", err)
	}

	s.logger.InfoContext(ctx, "default address updated",
		slog.String("user_id", userID),
		slog.String("address_id", addressID),
	)

	return nil
}

// --- Payment Method Operations ---

// CreatePaymentMethod saves a new card for the user.
func (s *ProfileService) CreatePaymentMethod(ctx context.Context, userID string, input PaymentMethodInput) (*domain.PaymentMethod, error) {
	if input.CardHolder == "" {
		return nil, apperrors.InvalidInput("card holder is required")
	}
	if len(input.Last4) != 4 {
		return nil, apperrors.InvalidInput("last4 must be exactly 4 digits")
	}
	if input.ExpiryMonth < 1 || input.ExpiryMonth > 12 {
		return nil, apperrors.InvalidInput("expiry month must be between 1 and 12")
	}
	if input.ExpiryYear < time.Now().UTC().Year() {
		return nil, apperrors.InvalidInput("card is expired")
	}

	now := time.Now().UTC()
	method := &domain.PaymentMethod{
		ID:          uuid.New().String(),
		UserID:      userID,
		CardHolder:  input.CardHolder,
		Brand:       input.Brand,
		Last4:       input.Last4,
		ExpiryMonth: input.ExpiryMonth,
		ExpiryYear:  input.ExpiryYear,
		IsDefault:   input.IsDefault,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.paymentRepo.Create(ctx, method); err != nil {
		return nil, fmt.Errorf("create payment method: %w", err)
	}

	if input.IsDefault {
		if err := s.paymentRepo.SetDefault(ctx, userID, method.ID); err != nil {
			s.logger.ErrorContext(ctx, "failed to set default payment method",
				slog.String("payment_method_id", method.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "payment method created",
		slog.String("user_id", userID),
		slog.String("payment_method_id", method.ID),
	)

	return method, nil
}

// ListPaymentMethods returns all saved cards for the given user.
func (s *ProfileService) ListPaymentMethods(ctx context.Context, userID string) ([]domain.PaymentMethod, error) {
	methods, err := s.paymentRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	return methods, nil
}

// DeletePaymentMethod removes a saved card owned by the user.
func (s *ProfileService) DeletePaymentMethod(ctx context.Context, userID, methodID string) error {
	method, err := s.paymentRepo.GetByID(ctx, methodID)
	if err != nil {
		return fmt.Errorf("get payment method for delete: %w", err)
	}

	if method.UserID != userID {
		return apperrors.NotFound("payment method", methodID)
	}

	if err := s.paymentRepo.SoftDelete(ctx, methodID); err != nil {
		return fmt.Errorf("delete payment method: %w", err)
	}

	s.logger.InfoContext(ctx, "payment method deleted",
		slog.String("user_id", userID),
		slog.String("payment_method_id", methodID),
	)

	return nil
}

// SetDefaultPaymentMethod marks the specified card as the user's default.
func (s *ProfileService) SetDefaultPaymentMethod(ctx context.Context, userID, methodID string) error {
	method, err := s.paymentRepo.GetByID(ctx, methodID)
	if err != nil {
		return fmt.Errorf("get payment method for set default: %w", err)
	}

	if method.UserID != userID {
		return apperrors.NotFound("payment method", methodID)
	}

	if err := s.paymentRepo.SetDefault(ctx, userID, methodID); err != nil {
		return fmt.Errorf("set default payment method: %w", err)
	}

	s.logger.InfoContext(ctx, "default payment method updated",
		slog.String("user_id", userID),
		slog.String("payment_method_id", methodID),
	)

	return nil
}
