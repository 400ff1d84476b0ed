// Package ws streams dashboard snapshots over WebSockets.
package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"citydash/backend/services/dashboard-service/internal/metrics"
)

const defaultInterval = 15 * time.Second

// Server upgrades HTTP connections to live dashboard feeds.
type Server struct {
	manager      *Manager
	source       SnapshotSource
	interval     time.Duration
	writeTimeout time.Duration
	metrics      *metrics.Metrics
	logger       *zap.Logger
	upgrader     websocket.Upgrader
}

// NewServer builds ws server. checkOrigin may be nil to accept any origin.
func NewServer(manager *Manager, source SnapshotSource, interval time.Duration, checkOrigin func(*http.Request) bool, m *metrics.Metrics, logger *zap.Logger) *Server {
	if interval <= 0 {
		interval = defaultInterval
	}
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Server{
		manager:      manager,
		source:       source,
		interval:     interval,
		writeTimeout: 10 * time.Second,
		metrics:      m,
		logger:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
	}
}

// HandleLive is HTTP handler for the /dashboard/live endpoint.
func (s *Server) HandleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	connection := NewConnection(id, conn, s.source, s.interval, s.writeTimeout, s.logger, cancel, func(id string) {
		s.manager.Remove(id)
		s.metrics.LiveClientConnected(-1)
		s.logger.Info("live client disconnected", zap.String("client_id", id))
	})
	s.manager.Add(connection)
	s.metrics.LiveClientConnected(1)

	go connection.Run(ctx)
	s.logger.Info("live client connected", zap.String("client_id", id))
}
