package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/barisbll/influshop-backend-sub000/internal/domain"
	"github.com/barisbll/influshop-backend-sub000/internal/event"
	"github.com/barisbll/influshop-backend-sub000/internal/repository"
	apperrors "github.com/barisbll/influshop-backend-sub000/pkg/errors"
)

// ReportService implements the moderation report ledger. One ledger serves
// every (target kind, reporter kind) combination.
type ReportService struct {
	reportRepo     repository.ReportRepository
	itemRepo       repository.ItemRepository
	commentRepo    repository.CommentRepository
	userRepo       repository.UserRepository
	influencerRepo repository.InfluencerRepository
	producer       *event.Producer
	logger         *slog.Logger
}

// NewReportService creates a new report service.
func NewReportService(
	reportRepo repository.ReportRepository,
	itemRepo repository.ItemRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	influencerRepo repository.InfluencerRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *ReportService {
	return &ReportService{
		reportRepo:     reportRepo,
		itemRepo:       itemRepo,
		commentRepo:    commentRepo,
		userRepo:       userRepo,
		influencerRepo: influencerRepo,
		producer:       producer,
		logger:         logger,
	}
}

// SubmitInput holds the parameters for submitting or retracting a report.
// IsReport true files or updates a report; false retracts an existing one.
type SubmitInput struct {
	TargetKind domain.TargetKind
	TargetID   string
	Reason     string
	IsReport   bool
}

// Submit applies a report toggle for the reporter against the target.
//
// Filing against a fresh target creates a report. Filing again with a new
// reason updates the report in place; with the unchanged reason it fails.
// Retracting deletes the report and returns it so callers can echo its ID;
// retracting when none exists fails with a not-found error.
func (s *ReportService) Submit(ctx context.Context, reporterKind domain.ReporterKind, reporterID string, input SubmitInput) (*domain.Report, error) {
	if !domain.ValidTargetKind(input.TargetKind) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown report target kind %q", input.TargetKind))
	}
	if input.TargetID == "" {
		return nil, apperrors.InvalidInput("target id is required")
	}
	if input.IsReport && !domain.ValidReportReason(input.TargetKind, input.Reason) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid reason %q for target kind %q", input.Reason, input.TargetKind))
	}

	if err := s.targetExists(ctx, input.TargetKind, input.TargetID); err != nil {
		return nil, err
	}

	existing, err := s.reportRepo.Get(ctx, input.TargetKind, input.TargetID, reporterKind, reporterID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("get existing report: %w", err)
	}

	if !input.IsReport {
		return s.retract(ctx, existing)
	}

	if existing == nil {
		return s.create(ctx, reporterKind, reporterID, input)
	}

	if existing.Reason == input.Reason {
		return nil, apperrors.Conflict("REDUNDANT_REPORT", "target already reported with this reason")
	}

	if err := s.reportRepo.UpdateReason(ctx, existing.ID, input.Reason); err != nil {
		return nil, fmt.Errorf("update report reason: %w", err)
	}
	existing.Reason = input.Reason
	existing.UpdatedAt = time.Now().UTC()

	s.logger.InfoContext(ctx, "report reason updated",
		slog.String("report_id", existing.ID),
		slog.String("reason", input.Reason),
	)

	return existing, nil
}

func (s *ReportService) create(ctx context.Context, reporterKind domain.ReporterKind, reporterID string, input SubmitInput) (*domain.Report, error) {
	now := time.Now().UTC()
	report := &domain.Report{
		ID:           uuid.New().String(),
		TargetKind:   input.TargetKind,
		TargetID:     input.TargetID,
		ReporterKind: reporterKind,
		ReporterID:   reporterID,
		Reason:       input.Reason,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	// Publish report event (non-blocking on failure).
	if err := s.producer.PublishReportSubmitted(ctx, report); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish report.submitted event",
			slog.String("report_id", report.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "report submitted",
		slog.String("report_id", report.ID),
		slog.String("target_kind", string(input.TargetKind)),
		slog.String("target_id", input.TargetID),
		slog.String("reason", input.Reason),
	)

	return report, nil
}

func (s *ReportService) retract(ctx context.Context, existing *domain.Report) (*domain.Report, error) {
	if existing == nil {
		return nil, &apperrors.AppError{
			Code:    "NOTHING_TO_RETRACT",
			Message: "no report exists for this target",
			Status:  http.StatusNotFound,
			Err:     apperrors.ErrNotFound,
		}
	}

	if err := s.reportRepo.Delete(ctx, existing.ID); err != nil {
		return nil, fmt.Errorf("delete report: %w", err)
	}

	if err := s.producer.PublishReportRetracted(ctx, existing); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish report.retracted event",
			slog.String("report_id", existing.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "report retracted",
		slog.String("report_id", existing.ID),
		slog.String("target_kind", string(existing.TargetKind)),
		slog.String("target_id", existing.TargetID),
	)

	return existing, nil
}

// ListUncontrolled returns paginated reports awaiting moderation review.
func (s *ReportService) ListUncontrolled(ctx context.Context, page, perPage int) ([]domain.Report, int, error) {
	reports, total, err := s.reportRepo.ListUncontrolled(ctx, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list uncontrolled reports: %w", err)
	}
	return reports, total, nil
}

// MarkControlled flags a report as reviewed by moderation.
func (s *ReportService) MarkControlled(ctx context.Context, reportID string) error {
	if err := s.reportRepo.MarkControlled(ctx, reportID); err != nil {
		return fmt.Errorf("mark report controlled: %w", err)
	}

	s.logger.InfoContext(ctx, "report marked controlled",
		slog.String("report_id", reportID),
	)

	return nil
}

// targetExists verifies that the reported target is a live row of its kind.
func (s *ReportService) targetExists(ctx context.Context, kind domain.TargetKind, id string) error {
	var err error
	switch kind {
	case domain.TargetItem:
		_, err = s.itemRepo.GetByID(ctx, id)
	case domain.TargetComment:
		_, err = s.commentRepo.GetByID(ctx, id)
	case domain.TargetUser:
		_, err = s.userRepo.GetByID(ctx, id)
	case domain.TargetInfluencer:
		_, err = s.influencerRepo.GetByID(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("get report target: %w", err)
	}
	return nil
}
