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

// CartHandler handles HTTP requests for the shopping cart and favorites.
type CartHandler struct {
	carts     *service.CartService
	favorites *service.FavoriteService
	logger    *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(carts *service.CartService, favorites *service.FavoriteService, logger *slog.Logger) *CartHandler {
	return &CartHandler{carts: carts, favorites: favorites, logger: logger}
}

// AddCartItemRequest is the JSON request body for adding an item to the cart.
type AddCartItemRequest struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// UpdateCartItemRequest is the JSON request body for changing a cart line.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	cart, err := h.carts.GetCart(r.Context(), accountID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// AddCartItem handles POST /api/v1/cart/items
func (h *CartHandler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	accountID, _ := middleware.AccountIDFromContext(r.Context())

	var req AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.carts.AddItem(r.Context(), accountID, req.ItemID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// UpdateCartItem handles PUT /api/v1/cart/items/{itemID}
func (h *CartHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	accountID, _ := middleware.AccountIDFromContext(r.Context())

	var req UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.carts.UpdateItemQuantity(r.Context(), accountID, chi.URLParam(r, "itemID"), *req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// RemoveCartItem handles DELETE /api/v1/cart/items/{itemID}
func (h *CartHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	cart, err := h.carts.RemoveItem(r.Context(), accountID, chi.URLParam(r, "itemID"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	if err := h.carts.ClearCart(r.Context(), accountID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "cart cleared"},
	})
}

// --- Favorites ---

// ListFavorites handles GET /api/v1/favorites
func (h *CartHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())
	page, perPage := parsePagination(r)

	items, total, err := h.favorites.ListFavorites(r.Context(), accountID, page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: httputil.NewPaginatedResponse(items, total, page, perPage),
	})
}

// AddFavorite handles POST /api/v1/favorites/{itemID}
func (h *CartHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	if err := h.favorites.AddFavorite(r.Context(), accountID, chi.URLParam(r, "itemID")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data: map[string]string{"message": "favorite added"},
	})
}

// RemoveFavorite handles DELETE /api/v1/favorites/{itemID}
func (h *CartHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	if err := h.favorites.RemoveFavorite(r.Context(), accountID, chi.URLParam(r, "itemID")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "favorite removed"},
	})
}
