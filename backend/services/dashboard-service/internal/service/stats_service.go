package service

import (
	"context"

	"go.uber.org/zap"

	"citydash/backend/services/dashboard-service/internal/apperr"
	"citydash/backend/services/dashboard-service/internal/metrics"
	"citydash/backend/services/dashboard-service/internal/models"
	"citydash/backend/services/dashboard-service/internal/validation"
)

// Keys of the saved_records map returned by Ingest.
const (
	EnergyLogIDKey = "energy_log_id"
	WasteLogIDKey  = "waste_log_id"
)

// StatsStore persists stats batches atomically.
type StatsStore interface {
	SaveBatch(ctx context.Context, batch models.StatsBatch) error
}

// StatsService ingests energy and waste summaries from the automation webhook.
type StatsService struct {
	store   StatsStore
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewStatsService builds StatsService.
func NewStatsService(store StatsStore, m *metrics.Metrics, logger *zap.Logger) *StatsService {
	return &StatsService{store: store, metrics: m, logger: logger}
}

// Ingest validates the whole payload, then commits every present section in one transaction.
// The returned map holds only the ids of rows that were created.
func (s *StatsService) Ingest(ctx context.Context, payload []byte) (map[string]int64, error) {
	batch, err := validation.ParseStats(payload)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveBatch(ctx, batch); err != nil {
		s.logger.Error("save stats batch", zap.Error(err))
		return nil, apperr.Storage("Failed to save statistics", err)
	}

	saved := make(map[string]int64, 2)
	if batch.Energy != nil {
		saved[EnergyLogIDKey] = batch.Energy.ID
		s.metrics.StatsIngested("energy")
	}
	if batch.Waste != nil {
		saved[WasteLogIDKey] = batch.Waste.ID
		s.metrics.StatsIngested("waste")
	}

	fields := make([]zap.Field, 0, len(saved))
	for k, v := range saved {
		fields = append(fields, zap.Int64(k, v))
	}
	s.logger.Info("statistics saved", fields...)
	return saved, nil
}
