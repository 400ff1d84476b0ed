package service

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"

	"citydash/backend/services/dashboard-service/internal/apperr"
	"citydash/backend/services/dashboard-service/internal/metrics"
	"citydash/backend/services/dashboard-service/internal/models"
	"citydash/backend/services/dashboard-service/internal/validation"
)

const (
	defaultTrafficTimeout = 30 * time.Second
	trafficLogWriteBudget = 5 * time.Second
)

// TrafficAnalyzer calls the external traffic analysis workflow and returns its raw JSON reply.
type TrafficAnalyzer interface {
	Analyze(ctx context.Context, location string) ([]byte, error)
}

// TrafficLogStore records analysis results.
type TrafficLogStore interface {
	Insert(ctx context.Context, log *models.TrafficLog) error
}

// TrafficService answers location queries through the analysis workflow.
type TrafficService struct {
	analyzer TrafficAnalyzer
	store    TrafficLogStore
	timeout  time.Duration
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewTrafficService builds TrafficService. A nil analyzer means the workflow is not configured.
func NewTrafficService(analyzer TrafficAnalyzer, store TrafficLogStore, timeout time.Duration, m *metrics.Metrics, logger *zap.Logger) *TrafficService {
	if timeout <= 0 {
		timeout = defaultTrafficTimeout
	}
	return &TrafficService{
		analyzer: analyzer,
		store:    store,
		timeout:  timeout,
		metrics:  m,
		logger:   logger,
	}
}

// Query returns the analysis for location exactly as the workflow produced it, whatever the JSON
// shape. Object results are also written as a TrafficLog; failures of that write are logged and
// never returned.
func (s *TrafficService) Query(ctx context.Context, location string) (json.RawMessage, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, apperr.Validation("Invalid request", apperr.FieldErrors{"location": {"This field may not be blank."}})
	}
	if s.analyzer == nil {
		s.logger.Error("traffic webhook not configured")
		s.metrics.TrafficQuery("unconfigured")
		return nil, apperr.Configuration("Traffic analysis service not configured")
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Info("calling traffic analysis", zap.String("location", location))
	body, err := s.analyzer.Analyze(callCtx, location)
	if err != nil {
		if isTimeout(err) {
			s.logger.Error("traffic analysis timeout", zap.String("location", location), zap.Error(err))
			s.metrics.TrafficQuery("timeout")
			return nil, apperr.UpstreamTimeout("Traffic analysis service timeout", err)
		}
		s.logger.Error("traffic analysis failed", zap.String("location", location), zap.Error(err))
		s.metrics.TrafficQuery("unavailable")
		return nil, apperr.UpstreamUnavailable("Failed to connect to traffic analysis service", err)
	}

	if !json.Valid(body) {
		err := errors.New("reply is not valid JSON")
		s.logger.Error("traffic analysis returned malformed body", zap.Error(err))
		s.metrics.TrafficQuery("unavailable")
		return nil, apperr.UpstreamUnavailable("Failed to connect to traffic analysis service", err)
	}
	s.metrics.TrafficQuery("ok")

	s.recordResult(ctx, location, body)
	return json.RawMessage(body), nil
}

// recordResult writes the best-effort TrafficLog. It runs on a context detached from the
// caller so a client disconnect does not abort the write.
func (s *TrafficService) recordResult(ctx context.Context, location string, body []byte) {
	result, err := validation.DecodeObject(body)
	if err != nil {
		s.logger.Warn("skip traffic log for non-object result", zap.String("location", location), zap.Error(err))
		s.metrics.TrafficLogWrite(false)
		return
	}
	log, err := validation.TrafficLogFromResult(location, result)
	if err != nil {
		s.logger.Warn("skip traffic log for unusable result", zap.String("location", location), zap.Error(err))
		s.metrics.TrafficLogWrite(false)
		return
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), trafficLogWriteBudget)
	defer cancel()

	if err := s.store.Insert(writeCtx, log); err != nil {
		s.logger.Error("failed to save traffic log", zap.String("location", location), zap.Error(err))
		s.metrics.TrafficLogWrite(false)
		return
	}
	s.metrics.TrafficLogWrite(true)
	s.logger.Info("saved traffic log", zap.Int64("traffic_log_id", log.ID))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
