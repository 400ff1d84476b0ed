package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"citydash/backend/services/dashboard-service/internal/apperr"
	"citydash/backend/services/dashboard-service/internal/models"
)

// RecentReportsLimit is the size of the dashboard's recent report list.
const RecentReportsLimit = 5

// LatestTrafficReader reads the newest traffic log.
type LatestTrafficReader interface {
	Latest(ctx context.Context) (*models.TrafficLog, error)
}

// LatestStatsReader reads the newest energy and waste logs.
type LatestStatsReader interface {
	LatestEnergy(ctx context.Context) (*models.EnergyLog, error)
	LatestWaste(ctx context.Context) (*models.WasteLog, error)
}

// ReportStatsReader provides the report queue figures.
type ReportStatsReader interface {
	CountByStatus(ctx context.Context, status models.ReportStatus) (int64, error)
	Recent(ctx context.Context, limit int) ([]models.CitizenReport, error)
	Count(ctx context.Context) (int64, error)
}

// DashboardService assembles the latest state of every stream.
type DashboardService struct {
	traffic LatestTrafficReader
	stats   LatestStatsReader
	reports ReportStatsReader
	logger  *zap.Logger
}

// NewDashboardService builds DashboardService.
func NewDashboardService(traffic LatestTrafficReader, stats LatestStatsReader, reports ReportStatsReader, logger *zap.Logger) *DashboardService {
	return &DashboardService{traffic: traffic, stats: stats, reports: reports, logger: logger}
}

// Snapshot reads each stream independently and concurrently. An empty stream yields nil for
// that member only. Reads are not taken at a single instant, so concurrent writes may land
// between them. Any read failure fails the whole snapshot.
func (s *DashboardService) Snapshot(ctx context.Context) (*models.DashboardSnapshot, error) {
	var snap models.DashboardSnapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		snap.Traffic, err = s.traffic.Latest(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Energy, err = s.stats.LatestEnergy(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Waste, err = s.stats.LatestWaste(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Reports.PendingCount, err = s.reports.CountByStatus(gctx, models.ReportPending)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Reports.Recent, err = s.reports.Recent(gctx, RecentReportsLimit)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Reports.TotalCount, err = s.reports.Count(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("dashboard snapshot failed", zap.Error(err))
		return nil, apperr.Storage("Failed to load dashboard", err)
	}
	if snap.Reports.Recent == nil {
		snap.Reports.Recent = []models.CitizenReport{}
	}
	return &snap, nil
}
