package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/barisbll/influshop-backend-sub000/internal/domain"
	apperrors "github.com/barisbll/influshop-backend-sub000/pkg/errors"
)

func newTestReportService(
	reportRepo *mockReportRepository,
	itemRepo *mockItemRepository,
	commentRepo *mockCommentRepository,
) *ReportService {
	return NewReportService(
		reportRepo,
		itemRepo,
		commentRepo,
		&mockUserRepository{},
		&mockInfluencerRepository{},
		newTestEventProducer(),
		newTestLogger(),
	)
}

func TestSubmitReport_CreatesFreshReport(t *testing.T) {
	reportRepo := &mockReportRepository{}
	itemRepo := &mockItemRepository{}
	svc := newTestReportService(reportRepo, itemRepo, &mockCommentRepository{})

	itemRepo.On("GetByID", mock.Anything, "item-1").Return(&domain.Item{ID: "item-1"}, nil)
	reportRepo.On("Get", mock.Anything, domain.TargetItem, "item-1", domain.ReporterUser, "user-1").
		Return(nil, apperrors.ErrNotFound)
	reportRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.Report) bool {
		return r.TargetKind == domain.TargetItem && r.TargetID == "item-1" &&
			r.ReporterKind == domain.ReporterUser && r.ReporterID == "user-1" &&
			r.Reason == "counterfeit" && !r.IsControlled
	})).Return(nil)

	report, err := svc.Submit(context.Background(), domain.ReporterUser, "user-1", SubmitInput{
		TargetKind: domain.TargetItem,
		TargetID:   "item-1",
		Reason:     "counterfeit",
		IsReport:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "counterfeit", report.Reason)
	reportRepo.AssertExpectations(t)
}

func TestSubmitReport_SameReasonIsRedundant(t *testing.T) {
	reportRepo := &mockReportRepository{}
	commentRepo := &mockCommentRepository{}
	svc := newTestReportService(reportRepo, &mockItemRepository{}, commentRepo)

	commentRepo.On("GetByID", mock.Anything, "comment-1").Return(&domain.Comment{ID: "comment-1"}, nil)
	reportRepo.On("Get", mock.Anything, domain.TargetComment, "comment-1", domain.ReporterUser, "user-1").
		Return(&domain.Report{ID: "report-1", Reason: "spam"}, nil)

	_, err := svc.Submit(context.Background(), domain.ReporterUser, "user-1", SubmitInput{
		TargetKind: domain.TargetComment,
		TargetID:   "comment-1",
		Reason:     "spam",
		IsReport:   true,
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "REDUNDANT_REPORT", appErr.Code)
	reportRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	reportRepo.AssertNotCalled(t, "UpdateReason", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitReport_NewReasonUpdatesInPlace(t *testing.T) {
	reportRepo := &mockReportRepository{}
	commentRepo := &mockCommentRepository{}
	svc := newTestReportService(reportRepo, &mockItemRepository{}, commentRepo)

	commentRepo.On("GetByID", mock.Anything, "comment-1").Return(&domain.Comment{ID: "comment-1"}, nil)
	reportRepo.On("Get", mock.Anything, domain.TargetComment, "comment-1", domain.ReporterUser, "user-1").
		Return(&domain.Report{ID: "report-1", Reason: "spam"}, nil)
	reportRepo.On("UpdateReason", mock.Anything, "report-1", "harassment").Return(nil)

	report, err := svc.Submit(context.Background(), domain.ReporterUser, "user-1", SubmitInput{
		TargetKind: domain.TargetComment,
		TargetID:   "comment-1",
		Reason:     "harassment",
		IsReport:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "harassment", report.Reason)
	reportRepo.AssertExpectations(t)
	reportRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitReport_RetractDeletes(t *testing.T) {
	reportRepo := &mockReportRepository{}
	itemRepo := &mockItemRepository{}
	svc := newTestReportService(reportRepo, itemRepo, &mockCommentRepository{})

	itemRepo.On("GetByID", mock.Anything, "item-1").Return(&domain.Item{ID: "item-1"}, nil)
	reportRepo.On("Get", mock.Anything, domain.TargetItem, "item-1", domain.ReporterInfluencer, "inf-1").
		Return(&domain.Report{ID: "report-1", TargetKind: domain.TargetItem, TargetID: "item-1"}, nil)
	reportRepo.On("Delete", mock.Anything, "report-1").Return(nil)

	retracted, err := svc.Submit(context.Background(), domain.ReporterInfluencer, "inf-1", SubmitInput{
		TargetKind: domain.TargetItem,
		TargetID:   "item-1",
		IsReport:   false,
	})
	require.NoError(t, err)
	require.NotNil(t, retracted)
	assert.Equal(t, "report-1", retracted.ID)
	reportRepo.AssertExpectations(t)
}

func TestSubmitReport_RetractWithoutReportFails(t *testing.T) {
	reportRepo := &mockReportRepository{}
	itemRepo := &mockItemRepository{}
	svc := newTestReportService(reportRepo, itemRepo, &mockCommentRepository{})

	itemRepo.On("GetByID", mock.Anything, "item-1").Return(&domain.Item{ID: "item-1"}, nil)
	reportRepo.On("Get", mock.Anything, domain.TargetItem, "item-1", domain.ReporterUser, "user-1").
		Return(nil, apperrors.ErrNotFound)

	_, err := svc.Submit(context.Background(), domain.ReporterUser, "user-1", SubmitInput{
		TargetKind: domain.TargetItem,
		TargetID:   "item-1",
		IsReport:   false,
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOTHING_TO_RETRACT", appErr.Code)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	reportRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// A full toggle cycle ends with exactly one report carrying the final reason.
func TestSubmitReport_ReportRetractReportCycle(t *testing.T) {
	reportRepo := &mockReportRepository{}
	itemRepo := &mockItemRepository{}
	svc := newTestReportService(reportRepo, itemRepo, &mockCommentRepository{})
	ctx := context.Background()

	itemRepo.On("GetByID", mock.Anything, "item-1").Return(&domain.Item{ID: "item-1"}, nil)

	// Ledger state across the three calls: empty, one report, empty again.
	reportRepo.On("Get", mock.Anything, domain.TargetItem, "item-1", domain.ReporterUser, "user-1").
		Return(nil, apperrors.ErrNotFound).Once()
	reportRepo.On("Get", mock.Anything, domain.TargetItem, "item-1", domain.ReporterUser, "user-1").
		Return(&domain.Report{ID: "report-1", TargetKind: domain.TargetItem, TargetID: "item-1", Reason: "counterfeit"}, nil).Once()
	reportRepo.On("Get", mock.Anything, domain.TargetItem, "item-1", domain.ReporterUser, "user-1").
		Return(nil, apperrors.ErrNotFound).Once()

	var createdReasons []string
	reportRepo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			createdReasons = append(createdReasons, args.Get(1).(*domain.Report).Reason)
		}).Return(nil).Twice()
	reportRepo.On("Delete", mock.Anything, "report-1").Return(nil).Once()

	_, err := svc.Submit(ctx, domain.ReporterUser, "user-1", SubmitInput{
		TargetKind: domain.TargetItem, TargetID: "item-1", Reason: "counterfeit", IsReport: true,
	})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, domain.ReporterUser, "user-1", SubmitInput{
		TargetKind: domain.TargetItem, TargetID: "item-1", IsReport: false,
	})
	require.NoError(t, err)

	report, err := svc.Submit(ctx, domain.ReporterUser, "user-1", SubmitInput{
		TargetKind: domain.TargetItem, TargetID: "item-1", Reason: "misleading_description", IsReport: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "misleading_description", report.Reason)
	assert.Equal(t, []string{"counterfeit", "misleading_description"}, createdReasons)
	reportRepo.AssertExpectations(t)
}

func TestSubmitReport_InvalidReasonRejected(t *testing.T) {
	svc := newTestReportService(&mockReportRepository{}, &mockItemRepository{}, &mockCommentRepository{})

	_, err := svc.Submit(context.Background(), domain.ReporterUser, "user-1", SubmitInput{
		TargetKind: domain.TargetItem,
		TargetID:   "item-1",
		Reason:     "hate_speech", // a comment reason, not an item reason
		IsReport:   true,
	})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestSubmitReport_UnknownTargetKindRejected(t *testing.T) {
	svc := newTestReportService(&mockReportRepository{}, &mockItemRepository{}, &mockCommentRepository{})

	_, err := svc.Submit(context.Background(), domain.ReporterUser, "user-1", SubmitInput{
		TargetKind: domain.TargetKind("playlist"),
		TargetID:   "x",
		Reason:     "spam",
		IsReport:   true,
	})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestSubmitReport_MissingTargetFails(t *testing.T) {
	reportRepo := &mockReportRepository{}
	itemRepo := &mockItemRepository{}
	svc := newTestReportService(reportRepo, itemRepo, &mockCommentRepository{})

	itemRepo.On("GetByID", mock.Anything, "gone").Return(nil, apperrors.ErrNotFound)

	_, err := svc.Submit(context.Background(), domain.ReporterUser, "user-1", SubmitInput{
		TargetKind: domain.TargetItem,
		TargetID:   "gone",
		Reason:     "counterfeit",
		IsReport:   true,
	})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	reportRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMarkControlled(t *testing.T) {
	reportRepo := &mockReportRepository{}
	svc := newTestReportService(reportRepo, &mockItemRepository{}, &mockCommentRepository{})

	reportRepo.On("MarkControlled", mock.Anything, "report-1").Return(nil)

	require.NoError(t, svc.MarkControlled(context.Background(), "report-1"))
	reportRepo.AssertExpectations(t)
}
