package services

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
)

// Cacher is the read-through cache used for single-product reads.
type Cacher interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any) error
	Del(ctx context.Context, keys ...string) error
}

// NoCache never hits.
type NoCache struct{}

func (NoCache) Get(context.Context, string, any) bool  { return false }
func (NoCache) Set(context.Context, string, any) error { return nil }
func (NoCache) Del(context.Context, ...string) error   { return nil }

func productKey(kind models.Kind, id uint) string {
	return fmt.Sprintf("product:%s:%d", kind, id)
}

// forgetProducts drops cached copies. Failures only log: a stale entry
// expires with its TTL.
func forgetProducts(ctx context.Context, c Cacher, kind models.Kind, ids ...uint) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(kind, id)
	}
	if err := c.Del(ctx, keys...); err != nil {
		logger.WithCtx(ctx).Warn("product cache invalidation failed", "kind", kind, "error", err)
	}
}
