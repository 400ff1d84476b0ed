// Package notify delivers citizen report notifications off the request path.
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"citydash/backend/services/dashboard-service/internal/metrics"
	"citydash/backend/services/dashboard-service/internal/models"
)

const (
	defaultTimeout = 5 * time.Second
	guardTimeout   = 2 * time.Second
)

// Notifier delivers one report to the external workflow.
type Notifier interface {
	Notify(ctx context.Context, report models.CitizenReport) error
}

// Guard ensures a report is delivered at most once.
type Guard interface {
	Acquire(ctx context.Context, reportID int64) (bool, error)
	Release(ctx context.Context, reportID int64) error
}

// Dispatcher sends notifications on background goroutines. A nil notifier disables delivery;
// a nil guard disables duplicate suppression.
type Dispatcher struct {
	notifier Notifier
	guard    Guard
	timeout  time.Duration
	metrics  *metrics.Metrics
	logger   *zap.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher builds Dispatcher.
func NewDispatcher(notifier Notifier, guard Guard, timeout time.Duration, m *metrics.Metrics, logger *zap.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Dispatcher{
		notifier: notifier,
		guard:    guard,
		timeout:  timeout,
		metrics:  m,
		logger:   logger,
	}
}

// Dispatch schedules delivery of report and returns immediately.
func (d *Dispatcher) Dispatch(report models.CitizenReport) {
	if d.notifier == nil {
		d.metrics.Notification("disabled")
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Warn("dispatcher closed, dropping report notification", zap.Int64("report_id", report.ID))
		d.metrics.Notification("dropped")
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		d.deliver(report)
	}()
}

func (d *Dispatcher) deliver(report models.CitizenReport) {
	log := d.logger.With(zap.Int64("report_id", report.ID))

	if d.guard != nil {
		ctx, cancel := context.WithTimeout(context.Background(), guardTimeout)
		acquired, err := d.guard.Acquire(ctx, report.ID)
		cancel()
		switch {
		case err != nil:
			log.Warn("notification guard unavailable, delivering anyway", zap.Error(err))
		case !acquired:
			log.Info("report already notified")
			d.metrics.Notification("duplicate")
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	err := d.notifier.Notify(ctx, report)
	cancel()
	if err != nil {
		log.Warn("failed to notify report workflow", zap.Error(err))
		d.metrics.Notification("failed")
		d.release(report.ID, log)
		return
	}
	log.Info("report workflow notified")
	d.metrics.Notification("sent")
}

func (d *Dispatcher) release(reportID int64, log *zap.Logger) {
	if d.guard == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), guardTimeout)
	defer cancel()
	if err := d.guard.Release(ctx, reportID); err != nil {
		log.Warn("release notification guard", zap.Error(err))
	}
}

// Close stops accepting reports and waits for in-flight deliveries.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.wg.Wait()
}
