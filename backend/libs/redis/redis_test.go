package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClientDisabledWithoutAddr(t *testing.T) {
	client, err := NewRedisClient(Options{Addr: "   "})
	assert.Nil(t, client)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestNewRedisClientRejectsNegativeDB(t *testing.T) {
	_, err := NewRedisClient(Options{Addr: "localhost:6379", DB: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid db index")
}

func TestNewRedisClientUnreachable(t *testing.T) {
	_, err := NewRedisClient(Options{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDisabled)
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{ReadTimeout: time.Second}.withDefaults()
	assert.Equal(t, 5*time.Second, opts.DialTimeout)
	assert.Equal(t, time.Second, opts.ReadTimeout)
	assert.Equal(t, 3*time.Second, opts.WriteTimeout)
}
