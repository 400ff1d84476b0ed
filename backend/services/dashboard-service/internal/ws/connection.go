package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"citydash/backend/services/dashboard-service/internal/models"
)

const (
	pongWait       = 60 * time.Second
	pingInterval   = 30 * time.Second
	snapshotBudget = 10 * time.Second
	readLimit      = 4096
)

// SnapshotSource produces the dashboard snapshot pushed to clients.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*models.DashboardSnapshot, error)
}

type errorFrame struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// Connection is one live dashboard subscriber. Only the write pump writes to the socket.
type Connection struct {
	id           string
	ws           *websocket.Conn
	source       SnapshotSource
	interval     time.Duration
	writeTimeout time.Duration
	logger       *zap.Logger
	cancel       context.CancelFunc
	onClose      func(id string)
}

// NewConnection builds connection wrapper. cancel must stop the context later passed to Run.
func NewConnection(id string, ws *websocket.Conn, source SnapshotSource, interval, writeTimeout time.Duration, logger *zap.Logger, cancel context.CancelFunc, onClose func(string)) *Connection {
	return &Connection{
		id:           id,
		ws:           ws,
		source:       source,
		interval:     interval,
		writeTimeout: writeTimeout,
		logger:       logger.With(zap.String("client_id", id)),
		cancel:       cancel,
		onClose:      onClose,
	}
}

// ID returns identifier.
func (c *Connection) ID() string {
	return c.id
}

// Run pushes a snapshot immediately and then every interval until ctx ends or the peer leaves.
func (c *Connection) Run(ctx context.Context) {
	defer c.cleanup()
	go c.readPump()
	c.writePump(ctx)
}

// Close asks the connection to stop.
func (c *Connection) Close() {
	c.cancel()
}

// readPump only watches for control frames and disconnects; client messages are discarded.
func (c *Connection) readPump() {
	defer c.cancel()
	c.ws.SetReadLimit(readLimit)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			c.logger.Debug("live connection read closed", zap.Error(err))
			return
		}
	}
}

func (c *Connection) writePump(ctx context.Context) {
	refresh := time.NewTicker(c.interval)
	defer refresh.Stop()
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	if err := c.pushSnapshot(ctx); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-refresh.C:
			if err := c.pushSnapshot(ctx); err != nil {
				return
			}
		case <-ping.C:
			if err := c.write(websocket.PingMessage, []byte("ping")); err != nil {
				return
			}
		}
	}
}

func (c *Connection) pushSnapshot(ctx context.Context) error {
	snapCtx, cancel := context.WithTimeout(ctx, snapshotBudget)
	defer cancel()

	var (
		payload []byte
		err     error
	)
	snap, snapErr := c.source.Snapshot(snapCtx)
	if snapErr != nil {
		c.logger.Warn("live snapshot failed", zap.Error(snapErr))
		payload, err = json.Marshal(errorFrame{Code: "storage_error", Error: "Failed to load dashboard"})
	} else {
		payload, err = json.Marshal(snap)
	}
	if err != nil {
		c.logger.Error("encode live frame", zap.Error(err))
		return nil
	}
	if err := c.write(websocket.TextMessage, payload); err != nil {
		c.logger.Debug("live connection write failed", zap.Error(err))
		return err
	}
	return nil
}

func (c *Connection) write(messageType int, data []byte) error {
	c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.ws.WriteMessage(messageType, data)
}

func (c *Connection) cleanup() {
	c.cancel()
	_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = c.ws.Close()
	if c.onClose != nil {
		c.onClose(c.id)
	}
}
