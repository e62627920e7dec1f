package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/barisbll/influshop-backend-sub000/internal/domain"
	"github.com/barisbll/influshop-backend-sub000/internal/service"
	"github.com/barisbll/influshop-backend-sub000/pkg/httputil"
	"github.com/barisbll/influshop-backend-sub000/pkg/middleware"
	"github.com/barisbll/influshop-backend-sub000/pkg/validator"
)

// ReportHandler handles HTTP requests for moderation reports.
type ReportHandler struct {
	service *service.ReportService
	logger  *slog.Logger
}

// NewReportHandler creates a new report HTTP handler.
func NewReportHandler(svc *service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{service: svc, logger: logger}
}

// SubmitReportRequest is the JSON request body for the report toggle.
// is_report true files or updates a report; false retracts it.
type SubmitReportRequest struct {
	TargetKind string `json:"target_kind" validate:"required,oneof=item comment user influencer"`
	TargetID   string `json:"target_id" validate:"required,uuid"`
	Reason     string `json:"reason" validate:"omitempty,max=50"`
	IsReport   *bool  `json:"is_report" validate:"required"`
}

// Submit handles POST /api/v1/reports
func (h *ReportHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	accountID, _ := middleware.AccountIDFromContext(r.Context())
	role, _ := middleware.RoleFromContext(r.Context())

	reporterKind := domain.ReporterUser
	if role == domain.RoleInfluencer {
		reporterKind = domain.ReporterInfluencer
	}

	var req SubmitReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	report, err := h.service.Submit(r.Context(), reporterKind, accountID, service.SubmitInput{
		TargetKind: domain.TargetKind(req.TargetKind),
		TargetID:   req.TargetID,
		Reason:     req.Reason,
		IsReport:   *req.IsReport,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if !*req.IsReport {
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{
			Data: map[string]string{"id": report.ID, "message": "report retracted"},
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: report})
}

// ListUncontrolled handles GET /api/v1/admin/reports
func (h *ReportHandler) ListUncontrolled(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)

	reports, total, err := h.service.ListUncontrolled(r.Context(), page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: httputil.NewPaginatedResponse(reports, total, page, perPage),
	})
}

// MarkControlled handles POST /api/v1/admin/reports/{id}/control
func (h *ReportHandler) MarkControlled(w http.ResponseWriter, r *http.Request) {
	if err := h.service.MarkControlled(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "report marked controlled"},
	})
}
