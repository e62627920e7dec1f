package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := NotFound("item", "abc-123")
	assert.Contains(t, e.Error(), "NOT_FOUND")
	assert.Contains(t, e.Error(), "abc-123")

	wrapped := &AppError{Code: "X", Message: "m", Status: 500, Err: errors.New("boom")}
	assert.Contains(t, wrapped.Error(), "boom")
}

func TestAppError_Unwrap(t *testing.T) {
	e := AlreadyExists("user", "email", "a@b.com")
	assert.ErrorIs(t, e, ErrAlreadyExists)

	c := Conflict("REDUNDANT_REPORT", "report already filed with this reason")
	assert.ErrorIs(t, c, ErrConflict)
}

func TestHTTPStatus_AppError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{NotFound("item", "1"), http.StatusNotFound},
		{AlreadyExists("user", "username", "john"), http.StatusConflict},
		{Conflict("DUPLICATE_RATING", "already rated with this value"), http.StatusConflict},
		{InvalidInput("stars out of range"), http.StatusBadRequest},
		{Unauthorized("bad token"), http.StatusUnauthorized},
		{Forbidden("admin only"), http.StatusForbidden},
		{Internal(errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(tt.err))
	}
}

func TestHTTPStatus_Sentinels(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrConflict))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(fmt.Errorf("context: %w", ErrInvalidInput)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("unknown")))
}

func TestWrap(t *testing.T) {
	base := ErrNotFound
	wrapped := Wrap(base, "load item")
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.Contains(t, wrapped.Error(), "load item")
}
