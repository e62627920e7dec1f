package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rateRequest struct {
	ItemID string `validate:"required,uuid"`
	Stars  int    `validate:"required,gte=1,lte=5"`
}

func TestValidate_Valid(t *testing.T) {
	req := rateRequest{
		ItemID: "2b0ddedb-3bfa-4a06-ae5c-45c3b4da4b87",
		Stars:  4,
	}
	assert.NoError(t, Validate(req))
}

func TestValidate_MissingRequired(t *testing.T) {
	err := Validate(rateRequest{Stars: 3})
	require.Error(t, err)

	valErr, ok := err.(*ValidationError)
	require.True(t, ok)
	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["ItemID"])
}

func TestValidate_RangeBounds(t *testing.T) {
	err := Validate(rateRequest{ItemID: "2b0ddedb-3bfa-4a06-ae5c-45c3b4da4b87", Stars: 6})
	require.Error(t, err)

	valErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, valErr.Fields()["Stars"], "less than or equal to 5")
}

func TestValidationError_Message(t *testing.T) {
	err := Validate(rateRequest{ItemID: "not-a-uuid", Stars: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ItemID")
	assert.Contains(t, err.Error(), "valid UUID")
}
