package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libredis "citydash/backend/libs/redis"
)

func TestNotificationGuardAcquireRelease(t *testing.T) {
	addr := os.Getenv("DASHBOARD_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("DASHBOARD_TEST_REDIS_ADDR not set")
	}
	client, err := libredis.NewRedisClient(libredis.Options{Addr: addr})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	guard := NewNotificationGuard(client, time.Minute)
	id := time.Now().UnixNano()
	defer guard.Release(ctx, id)

	ok, err := guard.Acquire(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = guard.Acquire(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, guard.Release(ctx, id))
	ok, err = guard.Acquire(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
}
