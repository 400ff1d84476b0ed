package models

import (
	"encoding/json"
	"time"
)

// TrafficStatus is the congestion band reported by the traffic workflow.
type TrafficStatus string

const (
	TrafficClear    TrafficStatus = "CLEAR"
	TrafficLight    TrafficStatus = "LIGHT"
	TrafficModerate TrafficStatus = "MODERATE"
	TrafficHeavy    TrafficStatus = "HEAVY"
	TrafficSevere   TrafficStatus = "SEVERE"
)

// DefaultStatusColor is used when the workflow omits statusColor.
const DefaultStatusColor = "#2ecc71"

// Valid reports whether s is one of the known bands.
func (s TrafficStatus) Valid() bool {
	switch s {
	case TrafficClear, TrafficLight, TrafficModerate, TrafficHeavy, TrafficSevere:
		return true
	}
	return false
}

// TrafficLog is one persisted traffic analysis.
type TrafficLog struct {
	ID                int64           `db:"id" json:"id"`
	Address           string          `db:"address" json:"address"`
	CongestionRate    float64         `db:"congestion_rate" json:"congestion_rate"`
	FlowSpeed         int             `db:"flow_speed" json:"flow_speed"`
	DelayTime         int             `db:"delay_time" json:"delay_time"`
	HasIncident       bool            `db:"has_incident" json:"has_incident"`
	IncidentCount     int             `db:"incident_count" json:"incident_count"`
	StatusCode        TrafficStatus   `db:"status_code" json:"status_code"`
	StatusColor       string          `db:"status_color" json:"status_color"`
	Analysis          string          `db:"analysis" json:"analysis"`
	Recommendation    string          `db:"recommendation" json:"recommendation"`
	AlternativeRoutes json.RawMessage `db:"alternative_routes" json:"alternative_routes"`
	AlertContent      string          `db:"alert_content" json:"alert_content"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
}
