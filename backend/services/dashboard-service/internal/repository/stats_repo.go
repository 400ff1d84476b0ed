package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	libdb "citydash/backend/libs/db"
	"citydash/backend/services/dashboard-service/internal/models"
)

// StatsRepository stores energy and waste summaries.
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository returns repository.
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// SaveBatch inserts every present section inside one transaction. Either all rows commit or none.
func (r *StatsRepository) SaveBatch(ctx context.Context, batch models.StatsBatch) error {
	return libdb.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if batch.Energy != nil {
			if err := insertEnergy(ctx, tx, batch.Energy); err != nil {
				return fmt.Errorf("insert energy log: %w", err)
			}
		}
		if batch.Waste != nil {
			if err := insertWaste(ctx, tx, batch.Waste); err != nil {
				return fmt.Errorf("insert waste log: %w", err)
			}
		}
		return nil
	})
}

func insertEnergy(ctx context.Context, tx *sql.Tx, log *models.EnergyLog) error {
	const query = `
		INSERT INTO energy_logs (total_consumption, avg_power, voltage_stats, anomalies_detected)
		VALUES ($1, $2, $3::jsonb, $4)
		RETURNING id, created_at
	`
	voltage, err := json.Marshal(log.VoltageStats)
	if err != nil {
		return err
	}
	return tx.QueryRowContext(ctx, query,
		log.TotalConsumption,
		log.AvgPower,
		string(voltage),
		log.AnomaliesDetected,
	).Scan(&log.ID, &log.CreatedAt)
}

func insertWaste(ctx context.Context, tx *sql.Tx, log *models.WasteLog) error {
	const query = `
		INSERT INTO waste_logs (avg_fill_level, critical_count, warning_count, warning_locations)
		VALUES ($1, $2, $3, $4::jsonb)
		RETURNING id, created_at
	`
	locations := log.WarningLocations
	if locations == nil {
		locations = []string{}
	}
	encoded, err := json.Marshal(locations)
	if err != nil {
		return err
	}
	return tx.QueryRowContext(ctx, query,
		log.AvgFillLevel,
		log.CriticalCount,
		log.WarningCount,
		string(encoded),
	).Scan(&log.ID, &log.CreatedAt)
}

// LatestEnergy returns the newest energy log, or nil when none exist.
func (r *StatsRepository) LatestEnergy(ctx context.Context) (*models.EnergyLog, error) {
	const query = `
		SELECT id, total_consumption, avg_power, voltage_stats, anomalies_detected, created_at
		FROM energy_logs
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var (
		log     models.EnergyLog
		voltage []byte
	)
	err := r.db.QueryRowContext(ctx, query).Scan(
		&log.ID,
		&log.TotalConsumption,
		&log.AvgPower,
		&voltage,
		&log.AnomaliesDetected,
		&log.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(voltage, &log.VoltageStats); err != nil {
		return nil, fmt.Errorf("decode voltage_stats: %w", err)
	}
	return &log, nil
}

// LatestWaste returns the newest waste log, or nil when none exist.
func (r *StatsRepository) LatestWaste(ctx context.Context) (*models.WasteLog, error) {
	const query = `
		SELECT id, avg_fill_level, critical_count, warning_count, warning_locations, created_at
		FROM waste_logs
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var (
		log       models.WasteLog
		locations []byte
	)
	err := r.db.QueryRowContext(ctx, query).Scan(
		&log.ID,
		&log.AvgFillLevel,
		&log.CriticalCount,
		&log.WarningCount,
		&locations,
		&log.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	log.WarningLocations = []string{}
	if err := json.Unmarshal(locations, &log.WarningLocations); err != nil {
		return nil, fmt.Errorf("decode warning_locations: %w", err)
	}
	return &log, nil
}
