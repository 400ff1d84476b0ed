package repository

import (
	"context"
	"database/sql"
	"errors"

	"citydash/backend/services/dashboard-service/internal/models"
)

// TrafficRepository persists traffic analyses.
type TrafficRepository struct {
	db *sql.DB
}

// NewTrafficRepository returns repository.
func NewTrafficRepository(db *sql.DB) *TrafficRepository {
	return &TrafficRepository{db: db}
}

// Insert stores a new traffic log and fills ID/CreatedAt.
func (r *TrafficRepository) Insert(ctx context.Context, log *models.TrafficLog) error {
	const query = `
		INSERT INTO traffic_logs (
			address, congestion_rate, flow_speed, delay_time, has_incident, incident_count,
			status_code, status_color, analysis, recommendation, alternative_routes, alert_content
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, $12)
		RETURNING id, created_at
	`
	routes := string(log.AlternativeRoutes)
	if routes == "" || routes == "null" {
		routes = "[]"
	}
	return r.db.QueryRowContext(ctx, query,
		log.Address,
		log.CongestionRate,
		log.FlowSpeed,
		log.DelayTime,
		log.HasIncident,
		log.IncidentCount,
		string(log.StatusCode),
		log.StatusColor,
		log.Analysis,
		log.Recommendation,
		routes,
		log.AlertContent,
	).Scan(&log.ID, &log.CreatedAt)
}

// Latest returns the most recently created traffic log, or nil when the table is empty.
func (r *TrafficRepository) Latest(ctx context.Context) (*models.TrafficLog, error) {
	const query = `
		SELECT id, address, congestion_rate, flow_speed, delay_time, has_incident, incident_count,
		       status_code, status_color, analysis, recommendation, alternative_routes, alert_content, created_at
		FROM traffic_logs
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	var (
		log    models.TrafficLog
		status string
		routes []byte
	)
	err := r.db.QueryRowContext(ctx, query).Scan(
		&log.ID,
		&log.Address,
		&log.CongestionRate,
		&log.FlowSpeed,
		&log.DelayTime,
		&log.HasIncident,
		&log.IncidentCount,
		&status,
		&log.StatusColor,
		&log.Analysis,
		&log.Recommendation,
		&routes,
		&log.AlertContent,
		&log.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	log.StatusCode = models.TrafficStatus(status)
	log.AlternativeRoutes = append([]byte(nil), routes...)
	return &log, nil
}
