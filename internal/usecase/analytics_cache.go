package usecase

import (
	"context"
	"fmt"
	"time"

	"skillbridge/internal/pkg/logger"

	"github.com/google/uuid"
)

const analyticsSnapshotTTL = 5 * time.Minute

const (
	snapshotProgress    = "progress"
	snapshotMarket      = "market"
	snapshotCompetitive = "competitive"
)

func analyticsKey(userID uuid.UUID, kind string) string {
	return fmt.Sprintf("analytics:%s:%s", userID, kind)
}

// analyticsCache memoizes per-user snapshots. A nil cache disables it.
type analyticsCache struct {
	cache Cache
	log   *logger.Logger
}

func newAnalyticsCache(cache Cache, log *logger.Logger) *analyticsCache {
	return &analyticsCache{cache: cache, log: log}
}

func (c *analyticsCache) load(ctx context.Context, userID uuid.UUID, kind string, out any) bool {
	if c == nil || c.cache == nil {
		return false
	}
	hit, err := c.cache.GetJSON(ctx, analyticsKey(userID, kind), out)
	if err != nil {
		c.log.Warn("analytics cache read failed", "user_id", userID, "kind", kind, "error", err)
		return false
	}
	return hit
}

func (c *analyticsCache) store(ctx context.Context, userID uuid.UUID, kind string, value any) {
	if c == nil || c.cache == nil {
		return
	}
	if err := c.cache.SetJSON(ctx, analyticsKey(userID, kind), value, analyticsSnapshotTTL); err != nil {
		c.log.Warn("analytics cache write failed", "user_id", userID, "kind", kind, "error", err)
	}
}

func (c *analyticsCache) invalidate(ctx context.Context, userID uuid.UUID) {
	if c == nil || c.cache == nil {
		return
	}
	err := c.cache.Delete(ctx,
		analyticsKey(userID, snapshotProgress),
		analyticsKey(userID, snapshotMarket),
		analyticsKey(userID, snapshotCompetitive),
	)
	if err != nil {
		c.log.Warn("analytics cache invalidation failed", "user_id", userID, "error", err)
	}
}
