package models

import "time"

// VoltageStats summarises grid voltage over the reporting window.
type VoltageStats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

// EnergyLog is one energy optimisation summary.
type EnergyLog struct {
	ID                int64        `db:"id" json:"id"`
	TotalConsumption  float64      `db:"total_consumption" json:"total_consumption"`
	AvgPower          float64      `db:"avg_power" json:"avg_power"`
	VoltageStats      VoltageStats `db:"voltage_stats" json:"voltage_stats"`
	AnomaliesDetected bool         `db:"anomalies_detected" json:"anomalies_detected"`
	CreatedAt         time.Time    `db:"created_at" json:"created_at"`
}

// WasteLog is one waste bin tracking summary.
type WasteLog struct {
	ID               int64     `db:"id" json:"id"`
	AvgFillLevel     float64   `db:"avg_fill_level" json:"avg_fill_level"`
	CriticalCount    int       `db:"critical_count" json:"critical_count"`
	WarningCount     int       `db:"warning_count" json:"warning_count"`
	WarningLocations []string  `db:"warning_locations" json:"warning_locations"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// StatsBatch is one validated webhook delivery. Nil members were absent from the payload.
type StatsBatch struct {
	Energy *EnergyLog
	Waste  *WasteLog
}

// Empty reports whether the batch carries no section.
func (b StatsBatch) Empty() bool {
	return b.Energy == nil && b.Waste == nil
}
