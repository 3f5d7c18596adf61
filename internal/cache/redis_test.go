package cache

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"doclib/internal/config"
	"doclib/internal/logging"
)

func TestRedis_Unreachable(t *testing.T) {
	c := NewRedis(config.RedisConfig{Addr: "127.0.0.1:1"}, logging.Discard())
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.Error(t, c.Ping(ctx))

	ok, err := c.Exists(ctx, "k")
	assert.Error(t, err)
	assert.False(t, ok)

	ok, err = c.SetNX(ctx, "k", []byte("1"), time.Minute)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedis_LogsWithComponent(t *testing.T) {
	var buf bytes.Buffer
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := newRedisWithClient(rdb, logging.New(&buf, time.UTC, "debug"))

	assert.Error(t, c.Ping(context.Background()))
	c.Close()

	out := buf.String()
	assert.Contains(t, out, `"component":"redis"`)
	assert.Contains(t, out, "redis ping failed")
	assert.Contains(t, out, "redis closed")
}

func TestRedis_CloseWithoutClient(t *testing.T) {
	c := newRedisWithClient(nil, logging.Discard())
	assert.NotPanics(t, c.Close)
}
