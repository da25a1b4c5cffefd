package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DailyCounter is a fixed-window counter keyed by caller address and
// operation, backed by Redis so it survives process restarts. The increment
// is atomic at the storage layer. The usual fixed-window boundary burst is
// tolerated: this is an abuse deterrent, not a hard quota.
type DailyCounter struct {
	rdb    *redis.Client
	max    int64
	window time.Duration
}

func NewDailyCounter(rdb *redis.Client, max int64, window time.Duration) *DailyCounter {
	return &DailyCounter{rdb: rdb, max: max, window: window}
}

// Allow atomically counts one use of op by ip and reports whether it is
// within the cap. The first use of a key starts its window; the key expires
// when the window elapses, resetting the count. Increment and TTL run in one
// transaction so a key can never be left without an expiry.
func (c *DailyCounter) Allow(ctx context.Context, ip, op string) (bool, error) {
	key := fmt.Sprintf("limit:%s:%s", op, ip)
	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	// NX: attach the TTL on first use only, never refresh it.
	pipe.ExpireNX(ctx, key, c.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	return incr.Val() <= c.max, nil
}
