package notification

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CountCache memoizes per-recipient unread counts. It is advisory: a miss
// or a cache failure falls back to the repository count.
type CountCache interface {
	Get(ctx context.Context, recipientID string) (int64, bool)
	Set(ctx context.Context, recipientID string, count int64)
	Invalidate(ctx context.Context, recipientID string)
}

type redisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client) CountCache {
	return &redisCache{rdb: rdb, ttl: 5 * time.Minute}
}

func cacheKey(recipientID string) string { return "notif:unread:" + recipientID }

func (c *redisCache) Get(ctx context.Context, recipientID string) (int64, bool) {
	v, err := c.rdb.Get(ctx, cacheKey(recipientID)).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (c *redisCache) Set(ctx context.Context, recipientID string, count int64) {
	_ = c.rdb.Set(ctx, cacheKey(recipientID), count, c.ttl).Err()
}

func (c *redisCache) Invalidate(ctx context.Context, recipientID string) {
	_ = c.rdb.Del(ctx, cacheKey(recipientID)).Err()
}

// MemoryCache backs tests and single-process runs.
type MemoryCache struct {
	mu     sync.Mutex
	counts map[string]int64
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{counts: make(map[string]int64)}
}

func (c *MemoryCache) Get(ctx context.Context, recipientID string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.counts[recipientID]
	return n, ok
}

func (c *MemoryCache) Set(ctx context.Context, recipientID string, count int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[recipientID] = count
}

func (c *MemoryCache) Invalidate(ctx context.Context, recipientID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.counts, recipientID)
}
