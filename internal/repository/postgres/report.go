package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/barisbll/influshop-backend-sub000/internal/domain"
	"github.com/barisbll/influshop-backend-sub000/pkg/database"
	apperrors "github.com/barisbll/influshop-backend-sub000/pkg/errors"
)

// ReportRepository implements the moderation report ledger using PostgreSQL.
// One table serves all four target kinds; rows are keyed by the
// (target_kind, target_id, reporter_kind, reporter_id) tuple.
type ReportRepository struct {
	pool database.DBTX
}

// NewReportRepository creates a new PostgreSQL-backed report repository.
func NewReportRepository(pool database.DBTX) *ReportRepository {
	return &ReportRepository{pool: pool}
}

const reportColumns = `id, target_kind, target_id, reporter_kind, reporter_id, reason, is_controlled, created_at, updated_at`

// Get returns the active report for the (reporter, target) pair.
func (r *ReportRepository) Get(ctx context.Context, targetKind domain.TargetKind, targetID string, reporterKind domain.ReporterKind, reporterID string) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + `
		FROM reports
		WHERE target_kind = $1 AND target_id = $2 AND reporter_kind = $3 AND reporter_id = $4`

	var rep domain.Report
	err := r.pool.QueryRow(ctx, query, targetKind, targetID, reporterKind, reporterID).Scan(
		&rep.ID,
		&rep.TargetKind,
		&rep.TargetID,
		&rep.ReporterKind,
		&rep.ReporterID,
		&rep.Reason,
		&rep.IsControlled,
		&rep.CreatedAt,
		&rep.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get report: %w", err)
	}

	return &rep, nil
}

// Create inserts a new report.
func (r *ReportRepository) Create(ctx context.Context, rep *domain.Report) error {
	query := `
		INSERT INTO reports (id, target_kind, target_id, reporter_kind, reporter_id, reason, is_controlled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		rep.ID,
		rep.TargetKind,
		rep.TargetID,
		rep.ReporterKind,
		rep.ReporterID,
		rep.Reason,
		rep.IsControlled,
		rep.CreatedAt,
		rep.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("REDUNDANT_REPORT", "target already reported by this reporter")
		}
		return fmt.Errorf("insert report: %w", err)
	}

	return nil
}

// UpdateReason changes the reason of an existing report in place.
func (r *ReportRepository) UpdateReason(ctx context.Context, id, reason string) error {
	query := `UPDATE reports SET reason = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, reason)
	if err != nil {
		return fmt.Errorf("update report reason: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("report", id)
	}

	return nil
}

// Delete removes a report from the ledger. Retraction is a hard delete.
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("report", id)
	}

	return nil
}

// ListUncontrolled returns paginated reports awaiting moderation review plus
// the total count.
func (r *ReportRepository) ListUncontrolled(ctx context.Context, page, perPage int) ([]domain.Report, int, error) {
	limit, offset := pageBounds(page, perPage)

	query := `SELECT ` + reportColumns + `, count(*) OVER() AS total_count
		FROM reports
		WHERE is_controlled = FALSE
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list uncontrolled reports: %w", err)
	}
	defer rows.Close()

	reports := []domain.Report{}
	totalCount := 0

	for rows.Next() {
		var rep domain.Report
		if err := rows.Scan(
			&rep.ID,
			&rep.TargetKind,
			&rep.TargetID,
			&rep.ReporterKind,
			&rep.ReporterID,
			&rep.Reason,
			&rep.IsControlled,
			&rep.CreatedAt,
			&rep.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan report row: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate report rows: %w", err)
	}

	return reports, totalCount, nil
}

// MarkControlled flags a report as reviewed by moderation.
func (r *ReportRepository) MarkControlled(ctx context.Context, id string) error {
	query := `UPDATE reports SET is_controlled = TRUE, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark report controlled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("report", id)
	}

	return nil
}
