package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"citydash/backend/services/dashboard-service/internal/apperr"
	"citydash/backend/services/dashboard-service/internal/metrics"
)

const statsPayload = `{
	"energyOptimizationData": {
		"summary": {"total_consumption": 150.5, "anomalies": true, "average_power": 450.2},
		"statistics": {"voltage": {"min": 210, "max": 230, "average": 220}}
	},
	"wasteTrackingData": {
		"avgFill": 75.5, "criticalCount": 3, "warningCount": 5,
		"warningLocations": ["Point A", "Point B"]
	}
}`

func TestIngestBothSections(t *testing.T) {
	store := &fakeStatsStore{}
	svc := NewStatsService(store, metrics.New(), zap.NewNop())

	saved, err := svc.Ingest(context.Background(), []byte(statsPayload))
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{EnergyLogIDKey: 1, WasteLogIDKey: 2}, saved)
	require.Len(t, store.batches, 1)
	assert.Equal(t, []string{"Point A", "Point B"}, store.batches[0].Waste.WarningLocations)
}

func TestIngestEnergyOnly(t *testing.T) {
	store := &fakeStatsStore{}
	svc := NewStatsService(store, nil, zap.NewNop())

	payload := `{"energyOptimizationData":{"summary":{"total_consumption":1,"average_power":2},"statistics":{"voltage":{"min":1,"max":2,"average":1.5}}}}`
	saved, err := svc.Ingest(context.Background(), []byte(payload))
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{EnergyLogIDKey: 1}, saved)
	require.Len(t, store.batches, 1)
	assert.Nil(t, store.batches[0].Waste)
	assert.False(t, store.batches[0].Energy.AnomaliesDetected)
}

func TestIngestMalformedWasteStoresNothing(t *testing.T) {
	store := &fakeStatsStore{}
	svc := NewStatsService(store, nil, zap.NewNop())

	payload := `{"energyOptimizationData":{"summary":{"total_consumption":1,"average_power":2},"statistics":{"voltage":{"min":1,"max":2,"average":1.5}}},"wasteTrackingData":{"avgFill":"full"}}`
	_, err := svc.Ingest(context.Background(), []byte(payload))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Empty(t, store.batches)
}

func TestIngestStorageFailure(t *testing.T) {
	store := &fakeStatsStore{err: errors.New("connection reset")}
	svc := NewStatsService(store, nil, zap.NewNop())

	saved, err := svc.Ingest(context.Background(), []byte(statsPayload))
	require.Error(t, err)
	assert.Nil(t, saved)
	assert.True(t, apperr.Is(err, apperr.KindStorage))
}

func TestIngestEmptyPayloadCreatesNothing(t *testing.T) {
	store := &fakeStatsStore{}
	svc := NewStatsService(store, nil, zap.NewNop())

	saved, err := svc.Ingest(context.Background(), []byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, saved)
}
