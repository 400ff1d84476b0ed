package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citydash/backend/services/dashboard-service/internal/apperr"
	"citydash/backend/services/dashboard-service/internal/models"
)

const fullPayload = `{
	"energyOptimizationData": {
		"summary": {"total_consumption": 150.5, "anomalies": true, "average_power": 450.2},
		"statistics": {"voltage": {"min": 210, "max": 230, "average": 220}}
	},
	"wasteTrackingData": {
		"avgFill": 75.5,
		"criticalCount": 3,
		"warningCount": 5,
		"warningLocations": ["Point A", "Point B"]
	}
}`

func fieldErrors(t *testing.T, err error) apperr.FieldErrors {
	t.Helper()
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperr.KindValidation, appErr.Kind)
	return appErr.Fields
}

func TestParseStatsFullPayload(t *testing.T) {
	batch, err := ParseStats([]byte(fullPayload))
	require.NoError(t, err)

	require.NotNil(t, batch.Energy)
	assert.Equal(t, 150.5, batch.Energy.TotalConsumption)
	assert.Equal(t, 450.2, batch.Energy.AvgPower)
	assert.True(t, batch.Energy.AnomaliesDetected)
	assert.Equal(t, models.VoltageStats{Min: 210, Max: 230, Average: 220}, batch.Energy.VoltageStats)

	require.NotNil(t, batch.Waste)
	assert.Equal(t, 75.5, batch.Waste.AvgFillLevel)
	assert.Equal(t, 3, batch.Waste.CriticalCount)
	assert.Equal(t, 5, batch.Waste.WarningCount)
	assert.Equal(t, []string{"Point A", "Point B"}, batch.Waste.WarningLocations)
}

func TestParseStatsEnergyOnlyDefaultsAnomalies(t *testing.T) {
	batch, err := ParseStats([]byte(`{"energyOptimizationData": {
		"summary": {"total_consumption": "200.8", "average_power": 380},
		"statistics": {"voltage": {"min": 215, "max": 225, "average": 220}}
	}}`))
	require.NoError(t, err)

	require.NotNil(t, batch.Energy)
	assert.Nil(t, batch.Waste)
	assert.False(t, batch.Energy.AnomaliesDetected)
	assert.Equal(t, 200.8, batch.Energy.TotalConsumption)
}

func TestParseStatsEmptyObjectIsValid(t *testing.T) {
	batch, err := ParseStats([]byte(`{"unrelated": 1}`))
	require.NoError(t, err)
	assert.True(t, batch.Empty())
}

func TestParseStatsMalformedWasteRejectsWholePayload(t *testing.T) {
	batch, err := ParseStats([]byte(`{
		"energyOptimizationData": {
			"summary": {"total_consumption": 1, "average_power": 2},
			"statistics": {"voltage": {"min": 1, "max": 2, "average": 1.5}}
		},
		"wasteTrackingData": {"avgFill": "full", "criticalCount": 1.5, "warningLocations": ["A", 7]}
	}`))
	require.Error(t, err)
	assert.True(t, batch.Empty())

	fields := fieldErrors(t, err)
	assert.Equal(t, []string{
		"wasteTrackingData.avgFill",
		"wasteTrackingData.criticalCount",
		"wasteTrackingData.warningCount",
		"wasteTrackingData.warningLocations.1",
	}, fields.Fields())
	assert.Equal(t, []string{"This field is required."}, fields["wasteTrackingData.warningCount"])
}

func TestParseStatsNestedEnergyErrors(t *testing.T) {
	_, err := ParseStats([]byte(`{"energyOptimizationData": {
		"summary": {"total_consumption": 1, "anomalies": "maybe"},
		"statistics": {"voltage": null}
	}}`))
	fields := fieldErrors(t, err)

	assert.Contains(t, fields, "energyOptimizationData.summary.average_power")
	assert.Contains(t, fields, "energyOptimizationData.summary.anomalies")
	assert.Equal(t, []string{"This field may not be null."}, fields["energyOptimizationData.statistics.voltage"])
}

func TestParseStatsRejectsNullSectionAndNonObjects(t *testing.T) {
	_, err := ParseStats([]byte(`{"wasteTrackingData": null}`))
	assert.Contains(t, fieldErrors(t, err), "wasteTrackingData")

	_, err = ParseStats([]byte(`[1,2]`))
	assert.Contains(t, fieldErrors(t, err), "non_field_errors")

	_, err = ParseStats([]byte(`{"energyOptimizationData": `))
	assert.Contains(t, fieldErrors(t, err), "non_field_errors")
}

func TestParseStatsRejectsCountOutsideColumnRange(t *testing.T) {
	for _, count := range []string{`3000000000`, `3e9`} {
		_, err := ParseStats([]byte(`{"wasteTrackingData": {"avgFill": 10, "criticalCount": ` + count + `, "warningLocations": []}}`))
		require.Error(t, err, count)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), count)
		assert.Equal(t, []string{"A valid integer is required."}, fieldErrors(t, err)["wasteTrackingData.criticalCount"], count)
	}
}

func TestIntegerCoercion(t *testing.T) {
	for _, tc := range []struct {
		raw  string
		want int
		ok   bool
	}{
		{`3`, 3, true},
		{`3.0`, 3, true},
		{`"4"`, 4, true},
		{`3.5`, 0, false},
		{`true`, 0, false},
		{`2147483647`, 2147483647, true},
		{`-2147483648`, -2147483648, true},
		{`3000000000`, 0, false},
		{`"3000000000"`, 0, false},
		{`3e9`, 0, false},
		{`-2147483649`, 0, false},
	} {
		obj, err := DecodeObject([]byte(`{"v": ` + tc.raw + `}`))
		require.NoError(t, err)
		got, ok := toInt(obj["v"])
		assert.Equal(t, tc.ok, ok, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}
