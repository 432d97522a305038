package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// ResponseCache stores serialized search responses under a derived key.
// Staleness is bounded purely by TTL; there is no invalidation path.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte)
}

// CacheKey derives the deterministic cache key for a request.
// The limit is deliberately excluded; the visibility discriminator never is —
// non-public callers must not share entries with anyone else.
func CacheKey(req Request) string {
	var visibility string
	switch {
	case req.Visibility.IsAdmin:
		visibility = "admin"
	case req.Visibility.IsPublicOnly():
		visibility = "public"
	default:
		workspace := "-"
		if req.Visibility.WorkspaceId != nil {
			workspace = req.Visibility.WorkspaceId.String()
		}
		visibility = req.Visibility.CallerId.String() + ":" + workspace
	}

	kb := "-"
	if req.KnowledgeBaseId != nil {
		kb = req.KnowledgeBaseId.String()
	}

	canonical := fmt.Sprintf("v1|q=%s|kb=%s|status=%s|tag=%s|ext=%t|min=%.4f|vis=%s",
		strings.ToLower(strings.TrimSpace(req.Query)),
		kb,
		req.Filters.Status,
		req.Filters.Tag,
		req.UseExternal,
		req.MinScore,
		visibility,
	)

	sum := sha256.Sum256([]byte(canonical))
	return "search:" + hex.EncodeToString(sum[:])
}

// RedisCache shares entries across instances.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	payload, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

func (c *RedisCache) Set(ctx context.Context, key string, payload []byte) {
	// Best effort: a failed cache write never fails the request.
	c.rdb.Set(ctx, key, payload, c.ttl)
}

// MemoryCache is the in-process fallback when Redis is not reachable.
type MemoryCache struct {
	cache *gocache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	if x, found := c.cache.Get(key); found {
		return x.([]byte), true
	}
	return nil, false
}

func (c *MemoryCache) Set(_ context.Context, key string, payload []byte) {
	c.cache.Set(key, payload, gocache.DefaultExpiration)
}
