// Package urlcache caches presigned download URLs in Redis so repeated
// downloads of the same file version do not re-sign on every request.
package urlcache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "files:url:"

// margin keeps a cached URL from being served moments before it expires.
const margin = time.Minute

type Cache struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// Get returns the cached URL for a file, or "" on a miss. Redis errors are
// reported as misses; the caller re-signs.
func (c *Cache) Get(ctx context.Context, fileID uuid.UUID) string {
	val, err := c.rdb.Get(ctx, keyPrefix+fileID.String()).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// Cache outage degrades to re-signing, not failure.
			return ""
		}
		return ""
	}
	return val
}

// Set stores a URL for slightly less than its signed lifetime.
func (c *Cache) Set(ctx context.Context, fileID uuid.UUID, url string, signedTTL time.Duration) {
	ttl := signedTTL - margin
	if ttl <= 0 {
		return
	}
	c.rdb.Set(ctx, keyPrefix+fileID.String(), url, ttl)
}

// Invalidate drops the cached URL for a file, used on version delete.
func (c *Cache) Invalidate(ctx context.Context, fileID uuid.UUID) {
	c.rdb.Del(ctx, keyPrefix+fileID.String())
}
