package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"citydash/backend/services/dashboard-service/internal/apperr"
	"citydash/backend/services/dashboard-service/internal/models"
)

// TrafficLogFromResult maps an analysis result onto a TrafficLog. Omitted keys take their
// defaults and address falls back to location. Values of the wrong type are reported as field
// errors; numeric ranges are not checked.
func TrafficLogFromResult(location string, obj map[string]any) (*models.TrafficLog, error) {
	errs := apperr.FieldErrors{}

	log := &models.TrafficLog{
		Address:        optionalString(obj, "address", location, errs),
		CongestionRate: optionalFloat(obj, "congestionRate", errs),
		FlowSpeed:      optionalInt(obj, "flowSpeed", errs),
		DelayTime:      optionalInt(obj, "delayTime", errs),
		HasIncident:    optionalBoolField(obj, "hasIncident", false, errs),
		IncidentCount:  optionalInt(obj, "incidentCount", errs),
		StatusColor:    optionalString(obj, "statusColor", models.DefaultStatusColor, errs),
		Analysis:       optionalString(obj, "analysis", "", errs),
		Recommendation: optionalString(obj, "recommendation", "", errs),
		AlertContent:   optionalString(obj, "alert_content", "", errs),
	}

	code := models.TrafficStatus(strings.ToUpper(optionalString(obj, "statusCode", string(models.TrafficClear), errs)))
	if !code.Valid() {
		errs.Add("statusCode", fmt.Sprintf("%q is not a valid choice.", code))
	}
	log.StatusCode = code

	log.AlternativeRoutes = json.RawMessage("[]")
	if raw, ok := obj["alternativeRoutes"]; ok && raw != nil {
		routes, isList := raw.([]any)
		if !isList {
			errs.Add("alternativeRoutes", fmt.Sprintf("Expected a list of items but got type %q.", typeName(raw)))
		} else if encoded, err := json.Marshal(routes); err != nil {
			errs.Add("alternativeRoutes", err.Error())
		} else {
			log.AlternativeRoutes = encoded
		}
	}

	if len(errs) > 0 {
		return nil, apperr.Validation("Invalid traffic analysis result", errs)
	}
	return log, nil
}

func optionalString(src map[string]any, key, def string, errs apperr.FieldErrors) string {
	raw, present := src[key]
	if !present || raw == nil {
		return def
	}
	s, ok := raw.(string)
	if !ok {
		errs.Add(key, msgString)
		return def
	}
	return s
}

func optionalFloat(src map[string]any, key string, errs apperr.FieldErrors) float64 {
	if raw, present := src[key]; !present || raw == nil {
		return 0
	}
	return floatField(src, key, errs)
}

func optionalInt(src map[string]any, key string, errs apperr.FieldErrors) int {
	if raw, present := src[key]; !present || raw == nil {
		return 0
	}
	return intField(src, key, errs)
}
