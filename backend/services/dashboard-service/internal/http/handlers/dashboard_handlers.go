package handlers

import (
	"context"
	"net/http"

	"citydash/backend/services/dashboard-service/internal/models"
)

// SnapshotProvider builds the dashboard view.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*models.DashboardSnapshot, error)
}

// DashboardHandlers serves the consolidated dashboard.
type DashboardHandlers struct {
	dashboard SnapshotProvider
}

// NewDashboardHandlers builds handlers.
func NewDashboardHandlers(dashboard SnapshotProvider) *DashboardHandlers {
	return &DashboardHandlers{dashboard: dashboard}
}

// Get handles GET /dashboard.
func (h *DashboardHandlers) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.dashboard.Snapshot(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
