package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"citydash/backend/services/dashboard-service/internal/http/handlers"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Traffic       *handlers.TrafficHandlers
	Stats         *handlers.StatsHandlers
	Dashboard     *handlers.DashboardHandlers
	Reports       *handlers.ReportHandlers
	Subscriptions *handlers.SubscriptionHandlers
	Live          http.HandlerFunc
	Health        http.HandlerFunc
	Metrics       http.Handler
}

// NewRouter wires HTTP routes. API routes are mounted at the root and under /api, each with
// and without a trailing slash. authMiddleware guards the write-side automation and admin routes;
// logging wraps every matched and unmatched request.
func NewRouter(deps RouterDeps, authMiddleware, logging func(http.Handler) http.Handler) http.Handler {
	router := mux.NewRouter()
	router.Use(mux.MiddlewareFunc(logging))
	router.NotFoundHandler = logging(jsonStatus(http.StatusNotFound, "not_found", "Not found"))
	router.MethodNotAllowedHandler = logging(jsonStatus(http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed"))

	if deps.Health != nil {
		router.Handle("/health", deps.Health).Methods(http.MethodGet)
	}
	if deps.Metrics != nil {
		router.Handle("/metrics", deps.Metrics).Methods(http.MethodGet)
	}

	guarded := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}

	for _, prefix := range []string{"", "/api"} {
		route := func(path string, h http.Handler, methods ...string) {
			router.Handle(prefix+path, h).Methods(methods...)
			router.Handle(prefix+path+"/", h).Methods(methods...)
		}

		route("/check-traffic", http.HandlerFunc(deps.Traffic.CheckTraffic), http.MethodPost)
		route("/webhook/save-stats", guarded(deps.Stats.SaveStats), http.MethodPost)
		route("/dashboard", http.HandlerFunc(deps.Dashboard.Get), http.MethodGet)
		if deps.Live != nil {
			route("/dashboard/live", deps.Live, http.MethodGet)
		}
		route("/reports", http.HandlerFunc(deps.Reports.List), http.MethodGet)
		route("/reports", http.HandlerFunc(deps.Reports.Create), http.MethodPost)
		route("/reports/{id:[0-9]+}", http.HandlerFunc(deps.Reports.Get), http.MethodGet)
		route("/reports/{id:[0-9]+}", guarded(deps.Reports.Update), http.MethodPatch)
		route("/subscribe", http.HandlerFunc(deps.Subscriptions.Subscribe), http.MethodPost)
		route("/subscribers", guarded(deps.Subscriptions.List), http.MethodGet)
	}

	return router
}

func jsonStatus(status int, code, message string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"code": code, "error": message})
	})
}
