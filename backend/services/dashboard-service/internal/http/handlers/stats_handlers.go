package handlers

import (
	"context"
	"net/http"
)

// StatsIngester stores a stats webhook payload.
type StatsIngester interface {
	Ingest(ctx context.Context, payload []byte) (map[string]int64, error)
}

// StatsHandlers serves the stats webhook.
type StatsHandlers struct {
	stats StatsIngester
}

// NewStatsHandlers builds handlers.
func NewStatsHandlers(stats StatsIngester) *StatsHandlers {
	return &StatsHandlers{stats: stats}
}

// SaveStats handles POST /webhook/save-stats.
func (h *StatsHandlers) SaveStats(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Success      bool             `json:"success"`
		Message      string           `json:"message"`
		SavedRecords map[string]int64 `json:"saved_records"`
	}

	body, err := readBody(w, r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	saved, err := h.stats.Ingest(r.Context(), body)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, response{
		Success:      true,
		Message:      "Statistics saved successfully",
		SavedRecords: saved,
	})
}
