// Package caching holds the in-process fixed-window counters used for rate
// limiting when no Redis server is configured.
package caching

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

var errClosed = errors.New("rate store is closed")

type Cache struct {
	memoryCache *cache.Cache
	mu          sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
}

func NewCache() *Cache {
	ctx, cancel := context.WithCancel(context.Background())
	return &Cache{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Init creates the backing store. Expired counters are swept every
// cleanup interval.
func (s *Cache) Init(cleanup time.Duration) error {
	s.memoryCache = cache.New(cache.NoExpiration, cleanup)
	return nil
}

// Incr counts one hit on key in the current window and returns the count
// and the moment the window ends. The first hit opens a new window.
func (s *Cache) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return 0, time.Time{}, err
	}
	if err := s.ctx.Err(); err != nil {
		return 0, time.Time{}, errClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, expiresAt, found := s.memoryCache.GetWithExpiration(key); found {
		// Fails only when the window ended since the lookup.
		if n, err := s.memoryCache.IncrementInt64(key, 1); err == nil {
			return n, expiresAt, nil
		}
	}

	s.memoryCache.Set(key, int64(1), window)
	return 1, time.Now().Add(window), nil
}

// Flush drops every counter and closes the store. Later calls to Incr fail.
func (s *Cache) Flush() error {
	if s.memoryCache != nil {
		s.memoryCache.Flush()
	}
	s.cancel()

	return nil
}
