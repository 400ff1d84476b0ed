package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"citydash/backend/services/dashboard-service/internal/apperr"
	"citydash/backend/services/dashboard-service/internal/models"
	"citydash/backend/services/dashboard-service/internal/repository"
)

// ReportStore persists citizen reports.
type ReportStore interface {
	Create(ctx context.Context, report *models.CitizenReport) error
	GetByID(ctx context.Context, id int64) (*models.CitizenReport, error)
	List(ctx context.Context, filter models.ReportFilter) ([]models.CitizenReport, error)
	Update(ctx context.Context, id int64, patch models.ReportPatch) (*models.CitizenReport, error)
}

// ReportDispatcher hands a committed report to the notification pipeline. It must not block.
type ReportDispatcher interface {
	Dispatch(report models.CitizenReport)
}

// ReportService runs the citizen report lifecycle.
type ReportService struct {
	store      ReportStore
	dispatcher ReportDispatcher
	logger     *zap.Logger
}

// NewReportService builds ReportService. dispatcher may be nil.
func NewReportService(store ReportStore, dispatcher ReportDispatcher, logger *zap.Logger) *ReportService {
	return &ReportService{store: store, dispatcher: dispatcher, logger: logger}
}

// Create stores a validated report as pending and schedules its notification.
func (s *ReportService) Create(ctx context.Context, report *models.CitizenReport) (*models.CitizenReport, error) {
	report.Status = models.ReportPending
	if err := s.store.Create(ctx, report); err != nil {
		s.logger.Error("create citizen report", zap.Error(err))
		return nil, apperr.Storage("Failed to save report", err)
	}
	s.logger.Info("citizen report created",
		zap.Int64("report_id", report.ID),
		zap.String("issue_type", string(report.IssueType)),
	)

	if s.dispatcher != nil {
		s.dispatcher.Dispatch(*report)
	}
	return report, nil
}

// Get loads one report.
func (s *ReportService) Get(ctx context.Context, id int64) (*models.CitizenReport, error) {
	report, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id, "get citizen report")
	}
	return report, nil
}

// List returns reports matching filter.
func (s *ReportService) List(ctx context.Context, filter models.ReportFilter) ([]models.CitizenReport, error) {
	reports, err := s.store.List(ctx, filter)
	if err != nil {
		s.logger.Error("list citizen reports", zap.Error(err))
		return nil, apperr.Storage("Failed to load reports", err)
	}
	return reports, nil
}

// Update applies patch. Any status may follow any other, and no notification is sent.
func (s *ReportService) Update(ctx context.Context, id int64, patch models.ReportPatch) (*models.CitizenReport, error) {
	report, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, s.mapLookupError(err, id, "update citizen report")
	}
	s.logger.Info("citizen report updated", zap.Int64("report_id", id), zap.String("status", string(report.Status)))
	return report, nil
}

func (s *ReportService) mapLookupError(err error, id int64, op string) error {
	if errors.Is(err, repository.ErrReportNotFound) {
		return apperr.NotFound("Report", id)
	}
	s.logger.Error(op, zap.Int64("report_id", id), zap.Error(err))
	return apperr.Storage("Failed to load report", err)
}
