package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"citydash/backend/services/dashboard-service/internal/validation"
)

// TrafficQuerier runs a traffic analysis.
type TrafficQuerier interface {
	Query(ctx context.Context, location string) (json.RawMessage, error)
}

// TrafficHandlers serves the traffic check endpoint.
type TrafficHandlers struct {
	traffic TrafficQuerier
}

// NewTrafficHandlers builds handlers.
func NewTrafficHandlers(traffic TrafficQuerier) *TrafficHandlers {
	return &TrafficHandlers{traffic: traffic}
}

// CheckTraffic handles POST /check-traffic and relays the analysis unchanged.
func (h *TrafficHandlers) CheckTraffic(w http.ResponseWriter, r *http.Request) {
	obj, err := decodeObject(w, r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	location, err := validation.Location(obj)
	if err != nil {
		writeAppError(w, err)
		return
	}

	result, err := h.traffic.Query(r.Context(), location)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, result)
}
