package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/barisbll/influshop-backend-sub000/pkg/errors"
)

func TestRateItem_Success(t *testing.T) {
	starRepo := &mockStarRepository{}
	svc := NewRatingService(starRepo, newTestEventProducer(), newTestLogger())

	starRepo.On("RecordRating", mock.Anything, "user-1", "item-1", 4).Return(nil)

	require.NoError(t, svc.RateItem(context.Background(), "user-1", "item-1", 4))
	starRepo.AssertExpectations(t)
}

func TestRateItem_StarsOutOfRange(t *testing.T) {
	starRepo := &mockStarRepository{}
	svc := NewRatingService(starRepo, newTestEventProducer(), newTestLogger())

	for _, stars := range []int{0, 6, -1} {
		err := svc.RateItem(context.Background(), "user-1", "item-1", stars)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput), "stars %d should be rejected", stars)
	}
	starRepo.AssertNotCalled(t, "RecordRating", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRateItem_DuplicateValuePropagates(t *testing.T) {
	starRepo := &mockStarRepository{}
	svc := NewRatingService(starRepo, newTestEventProducer(), newTestLogger())

	starRepo.On("RecordRating", mock.Anything, "user-1", "item-1", 4).
		Return(apperrors.Conflict("DUPLICATE_RATING", "item already rated with this value"))

	err := svc.RateItem(context.Background(), "user-1", "item-1", 4)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "DUPLICATE_RATING", appErr.Code)
}
