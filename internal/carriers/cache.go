package carriers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"freight-voice-backend/internal/payload"
)

// DefaultCacheTTL bounds how long a verified FMCSA snapshot is reused.
const DefaultCacheTTL = time.Hour

const cacheKeyPrefix = "fmcsa:carrier:"

// Cache memoizes FMCSA carrier snapshots in redis so repeat verifications of
// the same MC within the TTL skip the upstream call. A nil *Cache is valid
// and disables caching; cache errors read as misses, so a redis outage only
// costs the live lookup.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func (c *Cache) lookup(ctx context.Context, mcNumber string) (payload.Fields, bool) {
	if c == nil {
		return nil, false
	}
	s, err := c.rdb.Get(ctx, cacheKeyPrefix+mcNumber).Result()
	if err != nil {
		return nil, false
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, false
	}
	return payload.Fields(raw), true
}

func (c *Cache) store(ctx context.Context, mcNumber string, raw payload.Fields) {
	if c == nil {
		return
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, cacheKeyPrefix+mcNumber, b, c.ttl)
}
