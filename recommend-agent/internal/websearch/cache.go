package websearch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Divas-Gupta30/rekomme/recommend-agent/internal/metrics"
)

// DefaultCacheTTL is how long search results stay cached.
const DefaultCacheTTL = 10 * time.Minute

// Provider is a named web search backend.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]string, error)
}

// Cached wraps a provider with a Redis cache-aside layer. When Redis is down
// the provider is called directly; the cache never fails a search.
type Cached struct {
	next  Provider
	redis *redis.Client
	ttl   time.Duration
}

func NewCached(next Provider, client *redis.Client, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cached{next: next, redis: client, ttl: ttl}
}

func (c *Cached) Name() string { return c.next.Name() }

func (c *Cached) Search(ctx context.Context, query string) ([]string, error) {
	key := cacheKey(c.next.Name(), query)

	if results, err := c.get(ctx, key); err == nil {
		metrics.CacheHitsTotal.Inc()
		return results, nil
	} else if !errors.Is(err, redis.Nil) {
		slog.Warn("web search cache read failed", slog.Any("err", err))
	}
	metrics.CacheMissesTotal.Inc()

	results, err := c.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if err := c.set(ctx, key, results); err != nil {
		slog.Warn("failed to cache web search results", slog.Any("err", err))
	}
	return results, nil
}

func (c *Cached) get(ctx context.Context, key string) ([]string, error) {
	if c.redis == nil {
		return nil, redis.Nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	data, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	var results []string
	if err := json.Unmarshal([]byte(data), &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Cached) set(ctx context.Context, key string, results []string) error {
	if c.redis == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	data, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, key, data, c.ttl).Err()
}

// cacheKey normalises the query so trivially different spellings share an entry.
func cacheKey(provider, query string) string {
	norm := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	sum := sha256.Sum256([]byte(norm))
	return "websearch:" + provider + ":" + hex.EncodeToString(sum[:])
}
