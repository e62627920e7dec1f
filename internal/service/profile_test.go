package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/barisbll/influshop-backend-sub000/internal/domain"
	apperrors "github.com/barisbll/influshop-backend-sub000/pkg/errors"
)

type profileMocks struct {
	userRepo         *mockUserRepository
	influencerRepo   *mockInfluencerRepository
	refreshTokenRepo *mockRefreshTokenRepository
	addressRepo      *mockAddressRepository
	paymentRepo      *mockPaymentMethodRepository
	cartRepo         *mockCartRepository
	uploader         *mockUploader
}

func newTestProfileService() (*ProfileService, *profileMocks) {
	m := &profileMocks{
		userRepo:         &mockUserRepository{},
		influencerRepo:   &mockInfluencerRepository{},
		refreshTokenRepo: &mockRefreshTokenRepository{},
		addressRepo:      &mockAddressRepository{},
		paymentRepo:      &mockPaymentMethodRepository{},
		cartRepo:         &mockCartRepository{},
		uploader:         &mockUploader{},
	}
	svc := NewProfileService(
		m.userRepo,
		m.influencerRepo,
		m.refreshTokenRepo,
		m.addressRepo,
		m.paymentRepo,
		m.cartRepo,
		m.uploader,
		newTestLogger(),
	)
	return svc, m
}

func TestDeleteUser_CascadesAndRevokesSessions(t *testing.T) {
	svc, m := newTestProfileService()

	m.userRepo.On("SoftDeleteCascade", mock.Anything, "user-1").Return(nil)
	m.cartRepo.On("Delete", mock.Anything, "user-1").Return(nil)
	m.refreshTokenRepo.On("RevokeByAccountID", mock.Anything, "user-1").Return(nil)

	require.NoError(t, svc.DeleteUser(context.Background(), "user-1"))
	m.userRepo.AssertExpectations(t)
	m.cartRepo.AssertExpectations(t)
	m.refreshTokenRepo.AssertExpectations(t)
}

func TestUpdateInfluencer_UploadsNewImage(t *testing.T) {
	svc, m := newTestProfileService()

	m.influencerRepo.On("GetByID", mock.Anything, "inf-1").Return(&domain.Influencer{
		ID:          "inf-1",
		DisplayName: "cansu",
	}, nil)
	m.uploader.On("Upload", mock.Anything, "influencer", "inf-1", "aW1hZ2U=").
		Return("https://cdn.example.com/influencer/inf-1/p.jpg", nil)
	m.influencerRepo.On("Update", mock.Anything, mock.MatchedBy(func(inf *domain.Influencer) bool {
		return inf.ImageURL == "https://cdn.example.com/influencer/inf-1/p.jpg"
	})).Return(nil)

	img := "aW1hZ2U="
	inf, err := svc.UpdateInfluencer(context.Background(), "inf-1", UpdateInfluencerInput{ImageBase64: &img})
	require.NoError(t, err)
	assert.NotEmpty(t, inf.ImageURL)
	m.uploader.AssertExpectations(t)
}

func TestDeleteAddress_OwnershipEnforced(t *testing.T) {
	svc, m := newTestProfileService()

	m.addressRepo.On("GetByID", mock.Anything, "addr-1").Return(&domain.Address{
		ID:     "addr-1",
		UserID: "user-2",
	}, nil)

	err := svc.DeleteAddress(context.Background(), "user-1", "addr-1")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	m.addressRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
}

func TestCreateAddress_DefaultPromotes(t *testing.T) {
	svc, m := newTestProfileService()

	m.addressRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.addressRepo.On("SetDefault", mock.Anything, "user-1", mock.Anything).Return(nil)

	address, err := svc.CreateAddress(context.Background(), "user-1", AddressInput{
		Label:     "home",
		Line1:     "Moda Cad. 12",
		City:      "Istanbul",
		Country:   "TR",
		ZipCode:   "34710",
		IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, address.IsDefault)
	m.addressRepo.AssertExpectations(t)
}

func TestCreatePaymentMethod_Validation(t *testing.T) {
	svc, _ := newTestProfileService()

	cases := []PaymentMethodInput{
		{CardHolder: "", Last4: "4242", ExpiryMonth: 12, ExpiryYear: 2030},
		{CardHolder: "Selin", Last4: "42", ExpiryMonth: 12, ExpiryYear: 2030},
		{CardHolder: "Selin", Last4: "4242", ExpiryMonth: 13, ExpiryYear: 2030},
		{CardHolder: "Selin", Last4: "4242", ExpiryMonth: 12, ExpiryYear: 2001},
	}
	for i, input := range cases {
		_, err := svc.CreatePaymentMethod(context.Background(), "user-1", input)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput), "case %d should be rejected", i)
	}
}

func TestSetDefaultPaymentMethod_OwnershipEnforced(t *testing.T) {
	svc, m := newTestProfileService()

	m.paymentRepo.On("GetByID", mock.Anything, "pm-1").Return(&domain.PaymentMethod{
		ID:     "pm-1",
		UserID: "user-2",
	}, nil)

	err := svc.SetDefaultPaymentMethod(context.Background(), "user-1", "pm-1")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	m.paymentRepo.AssertNotCalled(t, "SetDefault", mock.Anything, mock.Anything, mock.Anything)
}
