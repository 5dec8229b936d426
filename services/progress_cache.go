package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"carbculator/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// ProgressCache holds serialized range aggregates keyed by
// (user, window). Invalidation is explicit: entry writes call
// InvalidateUser. A nil client or an unavailable Redis degrades to
// recompute, never to a request failure.
type ProgressCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger
}

func NewProgressCache(rdb *redis.Client, ttl time.Duration, log *logger.Logger) *ProgressCache {
	return &ProgressCache{rdb: rdb, ttl: ttl, log: log}
}

func (c *ProgressCache) key(userID uint, w Window) string {
	return fmt.Sprintf("progress:%d:%d:%d", userID, w.Start.Unix(), w.End.Unix())
}

func (c *ProgressCache) Get(ctx context.Context, userID uint, w Window) (*RangeAggregate, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, c.key(userID, w)).Bytes()
	if err != nil {
		return nil, false
	}
	var agg RangeAggregate
	if err := json.Unmarshal(raw, &agg); err != nil {
		return nil, false
	}
	return &agg, true
}

func (c *ProgressCache) Set(ctx context.Context, userID uint, w Window, agg *RangeAggregate) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(agg)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key(userID, w), raw, c.ttl).Err(); err != nil {
		c.log.Warnw("progress cache set failed", "user_id", userID, "err", err)
	}
}

// InvalidateUser drops every cached window for the user.
func (c *ProgressCache) InvalidateUser(ctx context.Context, userID uint) {
	if c == nil || c.rdb == nil {
		return
	}
	pattern := fmt.Sprintf("progress:%d:*", userID)
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warnw("progress cache scan failed", "user_id", userID, "err", err)
		return
	}
	if len(keys) > 0 {
		if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
			c.log.Warnw("progress cache invalidate failed", "user_id", userID, "err", err)
		}
	}
}
