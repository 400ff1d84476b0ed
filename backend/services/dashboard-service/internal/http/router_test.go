package httpserver

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"citydash/backend/services/dashboard-service/internal/http/handlers"
	"citydash/backend/services/dashboard-service/internal/http/middleware"
	"citydash/backend/services/dashboard-service/internal/metrics"
	"citydash/backend/services/dashboard-service/internal/models"
)

const testSecret = "router-secret"

type echoTraffic struct{}

func (echoTraffic) Query(_ context.Context, location string) (json.RawMessage, error) {
	return json.Marshal(map[string]string{"location": location})
}

type okStats struct{}

func (okStats) Ingest(context.Context, []byte) (map[string]int64, error) {
	return map[string]int64{}, nil
}

type emptyDashboard struct{}

func (emptyDashboard) Snapshot(context.Context) (*models.DashboardSnapshot, error) {
	return &models.DashboardSnapshot{Reports: models.ReportStats{Recent: []models.CitizenReport{}}}, nil
}

type memReports struct{}

func (memReports) Create(_ context.Context, r *models.CitizenReport) (*models.CitizenReport, error) {
	cp := *r
	cp.ID = 1
	cp.Status = models.ReportPending
	return &cp, nil
}

func (memReports) Get(_ context.Context, id int64) (*models.CitizenReport, error) {
	return &models.CitizenReport{ID: id, IssueType: models.IssueOther, Status: models.ReportPending}, nil
}

func (memReports) List(context.Context, models.ReportFilter) ([]models.CitizenReport, error) {
	return []models.CitizenReport{}, nil
}

func (memReports) Update(_ context.Context, id int64, patch models.ReportPatch) (*models.CitizenReport, error) {
	return &models.CitizenReport{ID: id, IssueType: models.IssueOther, Status: *patch.Status}, nil
}

type memSubscriptions struct{}

func (memSubscriptions) Subscribe(_ context.Context, email string) (*models.Subscriber, error) {
	return &models.Subscriber{ID: 1, Email: email}, nil
}

func (memSubscriptions) List(context.Context) ([]models.Subscriber, error) {
	return []models.Subscriber{}, nil
}

func newTestRouter(m *metrics.Metrics) http.Handler {
	logger := zap.NewNop()
	return NewRouter(RouterDeps{
		Traffic:       handlers.NewTrafficHandlers(echoTraffic{}),
		Stats:         handlers.NewStatsHandlers(okStats{}),
		Dashboard:     handlers.NewDashboardHandlers(emptyDashboard{}),
		Reports:       handlers.NewReportHandlers(memReports{}, nil, logger),
		Subscriptions: handlers.NewSubscriptionHandlers(memSubscriptions{}),
		Health: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
		Metrics: m.Handler(),
	}, middleware.AuthMiddleware(testSecret), middleware.LoggingMiddleware(logger, m))
}

func bearer(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "automation"}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func serve(router http.Handler, method, target, body, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRoutesServedAtRootAndAPIPrefix(t *testing.T) {
	router := newTestRouter(metrics.New())

	for _, target := range []string{"/check-traffic", "/check-traffic/", "/api/check-traffic", "/api/check-traffic/"} {
		rec := serve(router, http.MethodPost, target, `{"location":"Main"}`, "")
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.JSONEq(t, `{"location":"Main"}`, rec.Body.String(), target)
	}
	for _, target := range []string{"/dashboard", "/api/dashboard/", "/reports", "/api/reports/", "/reports/12", "/api/reports/12/"} {
		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, target, "", "").Code, target)
	}
	assert.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "/api/subscribe", `{"email":"a@b.co"}`, "").Code)
}

func TestGuardedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(metrics.New())

	cases := []struct {
		method string
		target string
		body   string
		ok     int
	}{
		{http.MethodPost, "/webhook/save-stats", `{}`, http.StatusCreated},
		{http.MethodPost, "/api/webhook/save-stats/", `{}`, http.StatusCreated},
		{http.MethodPatch, "/reports/4", `{"status":"resolved"}`, http.StatusOK},
		{http.MethodGet, "/api/subscribers", "", http.StatusOK},
	}
	for _, tc := range cases {
		assert.Equal(t, http.StatusUnauthorized, serve(router, tc.method, tc.target, tc.body, "").Code, tc.target)
		assert.Equal(t, tc.ok, serve(router, tc.method, tc.target, tc.body, bearer(t)).Code, tc.target)
	}
}

func TestUnknownRoutesAndMethods(t *testing.T) {
	m := metrics.New()
	router := newTestRouter(m)

	rec := serve(router, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/reports/abc", "", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(router, http.MethodGet, "/check-traffic", "", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(router, http.MethodDelete, "/reports/1", "", "").Code)

	serve(router, http.MethodGet, "/api/reports/5", "", "")
	scrape := serve(router, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, scrape.Code)
	assert.Contains(t, scrape.Body.String(), `dashboard_http_requests_total{route="/api/reports/{id:[0-9]+}",status="200"} 1`)
	assert.Contains(t, scrape.Body.String(), `dashboard_http_requests_total{route="unmatched",status="404"}`)
}

func TestServerShutsDownWithContext(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer(ln.Addr().String(), newTestRouter(nil), zap.NewNop(), middleware.RecoveryMiddleware(zap.NewNop()))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
