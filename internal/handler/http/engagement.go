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

// EngagementHandler handles HTTP requests for ratings, comments, and votes.
type EngagementHandler struct {
	ratings  *service.RatingService
	comments *service.CommentService
	logger   *slog.Logger
}

// NewEngagementHandler creates a new engagement HTTP handler.
func NewEngagementHandler(ratings *service.RatingService, comments *service.CommentService, logger *slog.Logger) *EngagementHandler {
	return &EngagementHandler{ratings: ratings, comments: comments, logger: logger}
}

// RateItemRequest is the JSON request body for rating an item.
type RateItemRequest struct {
	Stars int `json:"stars" validate:"required,min=1,max=5"`
}

// CommentRequest is the JSON request body for posting or editing a comment.
type CommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// VoteRequest is the JSON request body for voting on a comment.
type VoteRequest struct {
	IsLike *bool `json:"is_like" validate:"required"`
}

// RateItem handles POST /api/v1/items/{id}/stars
func (h *EngagementHandler) RateItem(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	accountID, _ := middleware.AccountIDFromContext(r.Context())

	var req RateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.ratings.RateItem(r.Context(), accountID, chi.URLParam(r, "id"), req.Stars); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "rating recorded"},
	})
}

// GetOwnRating handles GET /api/v1/items/{id}/stars/me
func (h *EngagementHandler) GetOwnRating(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	star, err := h.ratings.GetUserRating(r.Context(), accountID, chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: star})
}

// CreateComment handles POST /api/v1/items/{id}/comments
func (h *EngagementHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	accountID, _ := middleware.AccountIDFromContext(r.Context())

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	comment, err := h.comments.CreateComment(r.Context(), accountID, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: comment})
}

// ListComments handles GET /api/v1/items/{id}/comments
func (h *EngagementHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)

	comments, total, err := h.comments.ListComments(r.Context(), chi.URLParam(r, "id"), page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: httputil.NewPaginatedResponse(comments, total, page, perPage),
	})
}

// UpdateComment handles PUT /api/v1/comments/{id}
func (h *EngagementHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	accountID, _ := middleware.AccountIDFromContext(r.Context())

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	comment, err := h.comments.UpdateComment(r.Context(), accountID, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: comment})
}

// DeleteComment handles DELETE /api/v1/comments/{id}
func (h *EngagementHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	if err := h.comments.DeleteComment(r.Context(), accountID, chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "comment deleted"},
	})
}

// VoteComment handles POST /api/v1/comments/{id}/votes
func (h *EngagementHandler) VoteComment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	accountID, _ := middleware.AccountIDFromContext(r.Context())

	var req VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.comments.VoteComment(r.Context(), accountID, chi.URLParam(r, "id"), *req.IsLike); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "vote recorded"},
	})
}
