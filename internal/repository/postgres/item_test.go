package postgres

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barisbll/influshop-backend-sub000/internal/domain"
	apperrors "github.com/barisbll/influshop-backend-sub000/pkg/errors"
)

func groupRows(features map[string][]string) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "influencer_id", "name", "extra_features"}).
		AddRow("group-1", "inf-1", "hoodie", features)
}

func variantItem(selections map[string]string) *domain.Item {
	now := time.Now()
	return &domain.Item{
		ID:            "item-1",
		InfluencerID:  "inf-1",
		Name:          "hoodie S black",
		Price:         2999,
		Quantity:      10,
		ExtraFeatures: selections,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestCreateVariant_FeatureMismatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewItemRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM item_groups`)).
		WithArgs("group-1").
		WillReturnRows(groupRows(map[string][]string{"size": {"S"}, "color": {"black"}}))
	mock.ExpectRollback()

	err = repo.CreateVariant(context.Background(), "group-1", variantItem(map[string]string{"size": "S"}))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "GROUP_FEATURE_MISMATCH", appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateVariant_DuplicateTuple(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewItemRepository(mock)
	selections := map[string]string{"size": "S"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM item_groups`)).
		WithArgs("group-1").
		WillReturnRows(groupRows(map[string][]string{"size": {"S", "M", "L"}}))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs("group-1", selections).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err = repo.CreateVariant(context.Background(), "group-1", variantItem(selections))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "DUPLICATE_VARIANT", appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateVariant_NewValueRegistered(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewItemRepository(mock)
	selections := map[string]string{"size": "XL"}
	item := variantItem(selections)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM item_groups`)).
		WithArgs("group-1").
		WillReturnRows(groupRows(map[string][]string{"size": {"S", "M", "L"}}))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs("group-1", selections).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE item_groups SET extra_features`)).
		WithArgs("group-1", map[string][]string{"size": {"S", "M", "L", "XL"}}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO items`)).
		WithArgs(item.ID, item.InfluencerID, pgxmock.AnyArg(), item.Name, item.Description,
			item.Price, item.Quantity, item.ImageURLs, item.ExtraFeatures, item.CreatedAt, item.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err = repo.CreateVariant(context.Background(), "group-1", item)
	require.NoError(t, err)
	require.NotNil(t, item.ItemGroupID)
	assert.Equal(t, "group-1", *item.ItemGroupID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateVariant_ExistingValuesNoRegistration(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewItemRepository(mock)
	selections := map[string]string{"size": "M"}
	item := variantItem(selections)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM item_groups`)).
		WithArgs("group-1").
		WillReturnRows(groupRows(map[string][]string{"size": {"S", "M", "L"}}))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs("group-1", selections).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO items`)).
		WithArgs(item.ID, item.InfluencerID, pgxmock.AnyArg(), item.Name, item.Description,
			item.Price, item.Quantity, item.ImageURLs, item.ExtraFeatures, item.CreatedAt, item.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err = repo.CreateVariant(context.Background(), "group-1", item)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateVariant_GroupNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewItemRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM item_groups`)).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	err = repo.CreateVariant(context.Background(), "missing", variantItem(map[string]string{"size": "S"}))
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
