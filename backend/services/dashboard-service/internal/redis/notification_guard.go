package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultGuardTTL keeps a notified marker for a week.
const DefaultGuardTTL = 7 * 24 * time.Hour

// NotificationGuard records which reports have already been notified.
type NotificationGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewNotificationGuard returns redis-backed guard.
func NewNotificationGuard(client *redis.Client, ttl time.Duration) *NotificationGuard {
	if ttl <= 0 {
		ttl = DefaultGuardTTL
	}
	return &NotificationGuard{client: client, ttl: ttl}
}

func (g *NotificationGuard) key(reportID int64) string {
	return fmt.Sprintf("reports:notified:%d", reportID)
}

// Acquire marks reportID as notified. It returns false when another delivery already holds it.
func (g *NotificationGuard) Acquire(ctx context.Context, reportID int64) (bool, error) {
	return g.client.SetNX(ctx, g.key(reportID), time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
}

// Release removes the marker so a later delivery may retry.
func (g *NotificationGuard) Release(ctx context.Context, reportID int64) error {
	return g.client.Del(ctx, g.key(reportID)).Err()
}
