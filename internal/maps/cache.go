package maps

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const cacheKeyPrefix = "geocode:v1:"

// FeatureCache stores provider results per normalized query.
type FeatureCache interface {
	Get(ctx context.Context, query string) ([]Feature, bool, error)
	Set(ctx context.Context, query string, features []Feature) error
}

// RedisFeatureCache is a FeatureCache backed by Redis string keys with a TTL.
type RedisFeatureCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisFeatureCache creates a Redis-backed cache.
func NewRedisFeatureCache(client redis.Cmdable, ttl time.Duration) *RedisFeatureCache {
	return &RedisFeatureCache{client: client, ttl: ttl}
}

// Get returns cached features for query. The bool is false on a miss.
func (c *RedisFeatureCache) Get(ctx context.Context, query string) ([]Feature, bool, error) {
	raw, err := c.client.Get(ctx, CacheKey(query)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var features []Feature
	if err := json.Unmarshal(raw, &features); err != nil {
		return nil, false, err
	}
	return features, true, nil
}

// Set stores features for query.
func (c *RedisFeatureCache) Set(ctx context.Context, query string, features []Feature) error {
	raw, err := json.Marshal(features)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, CacheKey(query), raw, c.ttl).Err()
}

// CacheKey folds case, applies NFKC and collapses whitespace so equivalent
// spellings of a query share one entry.
func CacheKey(query string) string {
	collapsed := strings.Join(strings.Fields(query), " ")
	return cacheKeyPrefix + cases.Fold().String(norm.NFKC.String(collapsed))
}

var _ FeatureCache = (*RedisFeatureCache)(nil)
