package validation

import (
	"citydash/backend/services/dashboard-service/internal/apperr"
	"citydash/backend/services/dashboard-service/internal/models"
)

const (
	// EnergySection is the webhook key carrying the energy summary.
	EnergySection = "energyOptimizationData"
	// WasteSection is the webhook key carrying the waste summary.
	WasteSection = "wasteTrackingData"
)

// ParseStats validates a save-stats webhook body. Both sections are optional, but a present
// section must match its full shape; any problem in either section rejects the whole payload.
func ParseStats(raw []byte) (models.StatsBatch, error) {
	obj, err := DecodeObject(raw)
	if err != nil {
		return models.StatsBatch{}, err
	}
	return StatsFromObject(obj)
}

// StatsFromObject is ParseStats for an already decoded body.
func StatsFromObject(obj map[string]any) (models.StatsBatch, error) {
	var (
		batch models.StatsBatch
		errs  = apperr.FieldErrors{}
	)

	if _, present := obj[EnergySection]; present {
		section, ok := object(obj, EnergySection, errs)
		if ok {
			sectionErrs := apperr.FieldErrors{}
			energy := energyFromSection(section, sectionErrs)
			if len(sectionErrs) > 0 {
				errs.Merge(EnergySection, sectionErrs)
			} else {
				batch.Energy = energy
			}
		}
	}

	if _, present := obj[WasteSection]; present {
		section, ok := object(obj, WasteSection, errs)
		if ok {
			sectionErrs := apperr.FieldErrors{}
			waste := wasteFromSection(section, sectionErrs)
			if len(sectionErrs) > 0 {
				errs.Merge(WasteSection, sectionErrs)
			} else {
				batch.Waste = waste
			}
		}
	}

	if len(errs) > 0 {
		return models.StatsBatch{}, apperr.Validation("Invalid data format", errs)
	}
	return batch, nil
}

func energyFromSection(section map[string]any, errs apperr.FieldErrors) *models.EnergyLog {
	log := &models.EnergyLog{}

	if summary, ok := object(section, "summary", errs); ok {
		summaryErrs := apperr.FieldErrors{}
		log.TotalConsumption = floatField(summary, "total_consumption", summaryErrs)
		log.AnomaliesDetected = optionalBoolField(summary, "anomalies", false, summaryErrs)
		log.AvgPower = floatField(summary, "average_power", summaryErrs)
		errs.Merge("summary", summaryErrs)
	}

	if statistics, ok := object(section, "statistics", errs); ok {
		statErrs := apperr.FieldErrors{}
		if voltage, ok := object(statistics, "voltage", statErrs); ok {
			voltageErrs := apperr.FieldErrors{}
			log.VoltageStats = models.VoltageStats{
				Min:     floatField(voltage, "min", voltageErrs),
				Max:     floatField(voltage, "max", voltageErrs),
				Average: floatField(voltage, "average", voltageErrs),
			}
			statErrs.Merge("voltage", voltageErrs)
		}
		errs.Merge("statistics", statErrs)
	}

	return log
}

func wasteFromSection(section map[string]any, errs apperr.FieldErrors) *models.WasteLog {
	return &models.WasteLog{
		AvgFillLevel:     floatField(section, "avgFill", errs),
		CriticalCount:    intField(section, "criticalCount", errs),
		WarningCount:     intField(section, "warningCount", errs),
		WarningLocations: stringListField(section, "warningLocations", errs),
	}
}
