package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okValidator(claims *Claims) TokenValidator {
	return func(token string) (*Claims, error) {
		return claims, nil
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	handler := Auth(okValidator(&Claims{}))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "UNAUTHORIZED")
}

func TestAuth_MalformedHeader(t *testing.T) {
	handler := Auth(okValidator(&Claims{}))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	validator := func(token string) (*Claims, error) {
		return nil, errors.New("bad signature")
	}
	handler := Auth(validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_ValidTokenInjectsClaims(t *testing.T) {
	claims := &Claims{AccountID: "acc-1", Email: "a@b.com", Role: "influencer"}

	var gotAccountID, gotRole string
	var gotIDOK, gotRoleOK bool
	handler := Auth(okValidator(claims))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccountID, gotIDOK = AccountIDFromContext(r.Context())
		gotRole, gotRoleOK = RoleFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, gotIDOK)
	assert.True(t, gotRoleOK)
	assert.Equal(t, "acc-1", gotAccountID)
	assert.Equal(t, "influencer", gotRole)
}

func TestRequireRole_Allowed(t *testing.T) {
	claims := &Claims{AccountID: "acc-1", Role: "influencer"}
	handler := Auth(okValidator(claims))(
		RequireRole("influencer", "admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireRole_Forbidden(t *testing.T) {
	claims := &Claims{AccountID: "acc-1", Role: "user"}
	handler := Auth(okValidator(claims))(
		RequireRole("influencer")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "FORBIDDEN")
}

func TestAccountIDFromContext_Unauthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	accountID, ok := AccountIDFromContext(req.Context())
	assert.False(t, ok)
	assert.Equal(t, "", accountID)

	role, ok := RoleFromContext(req.Context())
	assert.False(t, ok)
	assert.Equal(t, "", role)
}
