package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/barisbll/influshop-backend-sub000/internal/service"
	"github.com/barisbll/influshop-backend-sub000/pkg/httputil"
	"github.com/barisbll/influshop-backend-sub000/pkg/middleware"
	"github.com/barisbll/influshop-backend-sub000/pkg/validator"
)

// ProfileHandler handles HTTP requests for account profiles, addresses, and
// payment methods.
type ProfileHandler struct {
	service *service.ProfileService
	logger  *slog.Logger
}

// NewProfileHandler creates a new profile HTTP handler.
func NewProfileHandler(svc *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{service: svc, logger: logger}
}

// UpdateInfluencerRequest is the JSON request body for influencer profile updates.
type UpdateInfluencerRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,min=1,max=100"`
	Bio         *string `json:"bio" validate:"omitempty,max=1000"`
	ImageBase64 *string `json:"image_base64"`
}

// AddressRequest is the JSON request body for creating an address.
type AddressRequest struct {
	Label     string `json:"label" validate:"omitempty,max=50"`
	Line1     string `json:"line1" validate:"required,min=1,max=200"`
	Line2     string `json:"line2" validate:"omitempty,max=200"`
	City      string `json:"city" validate:"required,min=1,max=100"`
	State     string `json:"state" validate:"omitempty,max=100"`
	Country   string `json:"country" validate:"required,min=2,max=100"`
	ZipCode   string `json:"zip_code" validate:"required,min=1,max=20"`
	IsDefault bool   `json:"is_default"`
}

// PaymentMethodRequest is the JSON request body for saving a card.
type PaymentMethodRequest struct {
	CardHolder  string `json:"card_holder" validate:"required,min=1,max=100"`
	Brand       string `json:"brand" validate:"omitempty,max=30"`
	Last4       string `json:"last4" validate:"required,len=4,numeric"`
	ExpiryMonth int    `json:"expiry_month" validate:"required,min=1,max=12"`
	ExpiryYear  int    `json:"expiry_year" validate:"required,min=2000"`
	IsDefault   bool   `json:"is_default"`
}

// GetMe handles GET /api/v1/users/me
func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	user, err := h.service.GetUser(r.Context(), accountID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: user})
}

// DeleteMe handles DELETE /api/v1/users/me
func (h *ProfileHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	if err := h.service.DeleteUser(r.Context(), accountID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "account deleted"},
	})
}

// GetInfluencer handles GET /api/v1/influencers/{id}
func (h *ProfileHandler) GetInfluencer(w http.ResponseWriter, r *http.Request) {
	inf, err := h.service.GetInfluencer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: inf})
}

// UpdateInfluencerProfile handles PUT /api/v1/influencer/profile
func (h *ProfileHandler) UpdateInfluencerProfile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBodySize)

	accountID, _ := middleware.AccountIDFromContext(r.Context())

	var req UpdateInfluencerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	inf, err := h.service.UpdateInfluencer(r.Context(), accountID, service.UpdateInfluencerInput{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		ImageBase64: req.ImageBase64,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: inf})
}

// DeleteInfluencerAccount handles DELETE /api/v1/influencer/account
func (h *ProfileHandler) DeleteInfluencerAccount(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	if err := h.service.DeleteInfluencer(r.Context(), accountID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "account deleted"},
	})
}

// --- Addresses ---

// ListAddresses handles GET /api/v1/users/me/addresses
func (h *ProfileHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	addresses, err := h.service.ListAddresses(r.Context(), accountID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: addresses})
}

// CreateAddress handles POST /api/v1/users/me/addresses
func (h *ProfileHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	accountID, _ := middleware.AccountIDFromContext(r.Context())

	var req AddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	address, err := h.service.CreateAddress(r.Context(), accountID, service.AddressInput{
		Label:     req.Label,
		Line1:     req.Line1,
		Line2:     req.Line2,
		City:      req.City,
		State:     req.State,
		Country:   req.Country,
		ZipCode:   req.ZipCode,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: address})
}

// DeleteAddress handles DELETE /api/v1/users/me/addresses/{id}
func (h *ProfileHandler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	if err := h.service.DeleteAddress(r.Context(), accountID, chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "address deleted"},
	})
}

// SetDefaultAddress handles PUT /api/v1/users/me/addresses/{id}/default
func (h *ProfileHandler) SetDefaultAddress(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	if err := h.service.SetDefaultAddress(r.Context(), accountID, chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "default address updated"},
	})
}

// --- Payment Methods ---

// ListPaymentMethods handles GET /api/v1/users/me/payment-methods
func (h *ProfileHandler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	methods, err := h.service.ListPaymentMethods(r.Context(), accountID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: methods})
}

// CreatePaymentMethod handles POST /api/v1/users/me/payment-methods
func (h *ProfileHandler) CreatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	accountID, _ := middleware.AccountIDFromContext(r.Context())

	var req PaymentMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	method, err := h.service.CreatePaymentMethod(r.Context(), accountID, service.PaymentMethodInput{
		CardHolder:  req.CardHolder,
		Brand:       req.Brand,
		Last4:       req.Last4,
		ExpiryMonth: req.ExpiryMonth,
		ExpiryYear:  req.ExpiryYear,
		IsDefault:   req.IsDefault,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: method})
}

// DeletePaymentMethod handles DELETE /api/v1/users/me/payment-methods/{id}
func (h *ProfileHandler) DeletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	if err := h.service.DeletePaymentMethod(r.Context(), accountID, chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "payment method deleted"},
	})
}

// SetDefaultPaymentMethod handles PUT /api/v1/users/me/payment-methods/{id}/default
func (h *ProfileHandler) SetDefaultPaymentMethod(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	if err := h.service.SetDefaultPaymentMethod(r.Context(), accountID, chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "default payment method updated"},
	})
}
