package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/barisbll/influshop-backend-sub000/internal/domain"
	"github.com/barisbll/influshop-backend-sub000/internal/repository"
	"github.com/barisbll/influshop-backend-sub000/internal/service"
	"github.com/barisbll/influshop-backend-sub000/pkg/httputil"
	"github.com/barisbll/influshop-backend-sub000/pkg/middleware"
	"github.com/barisbll/influshop-backend-sub000/pkg/validator"
)

// CatalogHandler handles HTTP requests for item groups, items, and search.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{service: svc, logger: logger}
}

// CreateItemGroupRequest is the JSON request body for declaring a variant family.
type CreateItemGroupRequest struct {
	Name          string              `json:"name" validate:"required,min=1,max=100"`
	ExtraFeatures map[string][]string `json:"extra_features" validate:"required,min=1"`
}

// CreateItemRequest is the JSON request body for creating an item.
type CreateItemRequest struct {
	Name          string            `json:"name" validate:"required,min=1,max=200"`
	Description   string            `json:"description" validate:"omitempty,max=5000"`
	Price         int64             `json:"price" validate:"required,gt=0"`
	Quantity      int               `json:"quantity" validate:"gte=0"`
	ItemGroupName *string           `json:"item_group_name" validate:"omitempty,min=1,max=100"`
	ExtraFeatures map[string]string `json:"extra_features"`
	ImagesBase64  []string          `json:"images_base64" validate:"omitempty,max=6"`
}

// UpdateItemRequest is the JSON request body for updating an item.
type UpdateItemRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Price       *int64  `json:"price" validate:"omitempty,gt=0"`
	Quantity    *int    `json:"quantity" validate:"omitempty,gte=0"`
}

// ItemGroupResponse pairs a group with its variants.
type ItemGroupResponse struct {
	Group *domain.ItemGroup `json:"group"`
	Items []domain.Item     `json:"items"`
}

// CreateItemGroup handles POST /api/v1/influencer/item-groups
func (h *CatalogHandler) CreateItemGroup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	accountID, _ := middleware.AccountIDFromContext(r.Context())

	var req CreateItemGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	group, err := h.service.CreateItemGroup(r.Context(), accountID, service.CreateItemGroupInput{
		Name:          req.Name,
		ExtraFeatures: req.ExtraFeatures,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: group})
}

// ListOwnItemGroups handles GET /api/v1/influencer/item-groups
func (h *CatalogHandler) ListOwnItemGroups(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	groups, err := h.service.ListItemGroups(r.Context(), accountID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: groups})
}

// GetItemGroup handles GET /api/v1/item-groups/{id}
func (h *CatalogHandler) GetItemGroup(w http.ResponseWriter, r *http.Request) {
	group, items, err := h.service.GetItemGroup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: ItemGroupResponse{Group: group, Items: items},
	})
}

// DeleteItemGroup handles DELETE /api/v1/influencer/item-groups/{id}
func (h *CatalogHandler) DeleteItemGroup(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	if err := h.service.DeleteItemGroup(r.Context(), accountID, chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "item group deleted"},
	})
}

// CreateItem handles POST /api/v1/influencer/items
func (h *CatalogHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBodySize)

	accountID, _ := middleware.AccountIDFromContext(r.Context())

	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	item, err := h.service.CreateItem(r.Context(), accountID, service.CreateItemInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Quantity:      req.Quantity,
		ItemGroupName: req.ItemGroupName,
		ExtraFeatures: req.ExtraFeatures,
		ImagesBase64:  req.ImagesBase64,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: item})
}

// GetItem handles GET /api/v1/items/{id}
func (h *CatalogHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: item})
}

// ListInfluencerItems handles GET /api/v1/influencers/{id}/items
func (h *CatalogHandler) ListInfluencerItems(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)

	items, total, err := h.service.ListItems(r.Context(), chi.URLParam(r, "id"), page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: httputil.NewPaginatedResponse(items, total, page, perPage),
	})
}

// SearchItems handles GET /api/v1/items/search?keyword=
// Optional filters: min_price, max_price, influencer_id, group_id.
func (h *CatalogHandler) SearchItems(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)
	q := r.URL.Query()

	filter := repository.ItemSearchFilter{Keyword: q.Get("keyword")}
	if v := q.Get("min_price"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeDecodeError(w, fmt.Errorf("invalid min_price %q", v))
			return
		}
		filter.MinPrice = &n
	}
	if v := q.Get("max_price"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeDecodeError(w, fmt.Errorf("invalid max_price %q", v))
			return
		}
		filter.MaxPrice = &n
	}
	if v := q.Get("influencer_id"); v != "" {
		filter.InfluencerID = &v
	}
	if v := q.Get("group_id"); v != "" {
		filter.ItemGroupID = &v
	}

	items, total, err := h.service.SearchItems(r.Context(), filter, page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: httputil.NewPaginatedResponse(items, total, page, perPage),
	})
}

// UpdateItem handles PUT /api/v1/influencer/items/{id}
func (h *CatalogHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	accountID, _ := middleware.AccountIDFromContext(r.Context())

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	item, err := h.service.UpdateItem(r.Context(), accountID, chi.URLParam(r, "id"), service.UpdateItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: item})
}

// DeleteItem handles DELETE /api/v1/influencer/items/{id}
func (h *CatalogHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	if err := h.service.DeleteItem(r.Context(), accountID, chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "item deleted"},
	})
}

// parsePagination reads page and per_page query parameters with defaults.
func parsePagination(r *http.Request) (int, int) {
	page := 1
	perPage := 20

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			perPage = n
		}
	}

	return page, perPage
}
