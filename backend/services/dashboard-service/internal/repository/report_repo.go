package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"citydash/backend/services/dashboard-service/internal/models"
)

// ErrReportNotFound indicates an unknown report id.
var ErrReportNotFound = errors.New("report not found")

const reportColumns = `id, reporter_name, issue_type, description, image, location, status, created_at, updated_at`

var reportOrderings = map[string]string{
	"created_at":  "created_at ASC, id ASC",
	"-created_at": "created_at DESC, id ASC",
	"updated_at":  "updated_at ASC, id ASC",
	"-updated_at": "updated_at DESC, id ASC",
}

// DefaultReportOrdering lists newest reports first.
const DefaultReportOrdering = "-created_at"

// ReportRepository persists citizen reports.
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository returns repository.
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*models.CitizenReport, error) {
	var (
		report    models.CitizenReport
		issueType string
		status    string
		image     sql.NullString
	)
	if err := row.Scan(
		&report.ID,
		&report.ReporterName,
		&issueType,
		&report.Description,
		&image,
		&report.Location,
		&status,
		&report.CreatedAt,
		&report.UpdatedAt,
	); err != nil {
		return nil, err
	}
	report.IssueType = models.IssueType(issueType)
	report.Status = models.ReportStatus(status)
	if image.Valid {
		report.Image = &image.String
	}
	return &report, nil
}

// Create inserts a report and fills server-assigned fields.
func (r *ReportRepository) Create(ctx context.Context, report *models.CitizenReport) error {
	const query = `
		INSERT INTO citizen_reports (reporter_name, issue_type, description, image, location, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	var image sql.NullString
	if report.Image != nil {
		image = sql.NullString{String: *report.Image, Valid: true}
	}
	return r.db.QueryRowContext(ctx, query,
		report.ReporterName,
		string(report.IssueType),
		report.Description,
		image,
		report.Location,
		string(report.Status),
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
}

// GetByID loads one report.
func (r *ReportRepository) GetByID(ctx context.Context, id int64) (*models.CitizenReport, error) {
	query := `SELECT ` + reportColumns + ` FROM citizen_reports WHERE id = $1`
	report, err := scanReport(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	return report, err
}

// List returns reports matching filter; unknown orderings fall back to newest first.
func (r *ReportRepository) List(ctx context.Context, filter models.ReportFilter) ([]models.CitizenReport, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.IssueType != "" {
		args = append(args, string(filter.IssueType))
		where = append(where, fmt.Sprintf("issue_type = $%d", len(args)))
	}

	order, ok := reportOrderings[filter.Ordering]
	if !ok {
		order = reportOrderings[DefaultReportOrdering]
	}

	query := `SELECT ` + reportColumns + ` FROM citizen_reports`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY ` + order

	return r.queryReports(ctx, query, args...)
}

// Recent returns the newest limit reports, ties broken by insertion order.
func (r *ReportRepository) Recent(ctx context.Context, limit int) ([]models.CitizenReport, error) {
	if limit <= 0 {
		limit = 5
	}
	query := `SELECT ` + reportColumns + ` FROM citizen_reports ORDER BY created_at DESC, id ASC LIMIT $1`
	return r.queryReports(ctx, query, limit)
}

func (r *ReportRepository) queryReports(ctx context.Context, query string, args ...any) ([]models.CitizenReport, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]models.CitizenReport, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

// Update applies patch and refreshes updated_at.
func (r *ReportRepository) Update(ctx context.Context, id int64, patch models.ReportPatch) (*models.CitizenReport, error) {
	query := `
		UPDATE citizen_reports
		SET reporter_name = COALESCE($2, reporter_name),
		    issue_type    = COALESCE($3, issue_type),
		    description   = COALESCE($4, description),
		    location      = COALESCE($5, location),
		    status        = COALESCE($6, status),
		    updated_at    = NOW()
		WHERE id = $1
		RETURNING ` + reportColumns

	var issueType, status *string
	if patch.IssueType != nil {
		v := string(*patch.IssueType)
		issueType = &v
	}
	if patch.Status != nil {
		v := string(*patch.Status)
		status = &v
	}

	report, err := scanReport(r.db.QueryRowContext(ctx, query,
		id,
		nullable(patch.ReporterName),
		nullable(issueType),
		nullable(patch.Description),
		nullable(patch.Location),
		nullable(status),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	return report, err
}

// CountByStatus counts reports in the given status.
func (r *ReportRepository) CountByStatus(ctx context.Context, status models.ReportStatus) (int64, error) {
	const query = `SELECT COUNT(*) FROM citizen_reports WHERE status = $1`
	var count int64
	if err := r.db.QueryRowContext(ctx, query, string(status)).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Count returns the total number of reports.
func (r *ReportRepository) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM citizen_reports`
	var count int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func nullable(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
