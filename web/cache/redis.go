// Package cache connects the rate limiter to Redis. It supports an external
// server and an embedded one (miniredis) for single-host setups.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/Sreehari-M-dev/LOGI-tests/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// Embedded is the address value that starts an in-process Redis.
const Embedded = "embedded"

var (
	client    *redis.Client
	miniRedis *miniredis.Miniredis
)

// InitRedis connects to redisAddr, or starts an embedded server when it is
// Embedded.
func InitRedis(ctx context.Context, redisAddr string) error {
	if redisAddr == Embedded {
		mr, err := miniredis.Run()
		if err != nil {
			return fmt.Errorf("failed to start embedded Redis: %w", err)
		}
		miniRedis = mr
		client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		logger.Info("Embedded Redis started on", mr.Addr())
		return nil
	}

	client = redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		client = nil
		return fmt.Errorf("failed to connect to Redis at %s: %w", redisAddr, err)
	}
	logger.Info("Connected to external Redis at", redisAddr)
	return nil
}

// GetClient returns the Redis client, or nil before InitRedis.
func GetClient() *redis.Client {
	return client
}

// Close closes the connection and stops the embedded server if running.
func Close() error {
	if client != nil {
		if err := client.Close(); err != nil {
			return err
		}
		client = nil
	}
	if miniRedis != nil {
		miniRedis.Close()
		miniRedis = nil
	}
	return nil
}

// RateStore keeps fixed-window counters in Redis so several processes
// share one limit.
type RateStore struct {
	client *redis.Client
	prefix string
}

func NewRateStore(c *redis.Client) *RateStore {
	return &RateStore{client: c, prefix: "logi:ratelimit:"}
}

// Incr counts one hit on key and returns the count and the end of the
// window. A counter without an expiry gets one, so the first hit of a
// window opens it.
func (s *RateStore) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	k := s.prefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		ttl = pipe.PTTL(ctx, k)
		return nil
	})
	if err != nil {
		return 0, time.Time{}, err
	}

	remaining := ttl.Val()
	if remaining < 0 {
		if err := s.client.PExpire(ctx, k, window).Err(); err != nil {
			return 0, time.Time{}, err
		}
		remaining = window
	}
	return incr.Val(), time.Now().Add(remaining), nil
}
