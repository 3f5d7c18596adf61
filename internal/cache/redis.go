package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"doclib/internal/config"
)

// Redis is a thin logging wrapper over a go-redis client.
type Redis struct {
	rdb    redis.UniversalClient
	logger logrus.FieldLogger
}

func NewRedis(cfg config.RedisConfig, logger logrus.FieldLogger) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	})
	return newRedisWithClient(rdb, logger)
}

func newRedisWithClient(rdb redis.UniversalClient, logger logrus.FieldLogger) *Redis {
	return &Redis{rdb: rdb, logger: logger.WithField("component", "redis")}
}

func (c *Redis) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		c.logger.WithError(err).Warn("redis ping failed")
		return err
	}
	c.logger.Debug("redis ping ok")
	return nil
}

func (c *Redis) Close() {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Close(); err != nil {
		c.logger.WithError(err).Warn("redis close failed")
		return
	}
	c.logger.Info("redis closed")
}

// SetNX sets key only if it does not exist yet. A non-positive ttl means no expiry.
func (c *Redis) SetNX(ctx context.Context, key string, val []byte, ttl time.Duration) (bool, error) {
	if ttl < 0 {
		ttl = 0
	}
	ok, err := c.rdb.SetNX(ctx, key, val, ttl).Result()
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Error("redis SETNX failed")
		return false, err
	}
	c.logger.WithFields(logrus.Fields{"key": key, "ttl": ttl.String(), "set": ok}).Debug("redis SETNX")
	return ok, nil
}

func (c *Redis) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Error("redis EXISTS failed")
		return false, err
	}
	return n == 1, nil
}
