package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"restaurant-delivery-lab/config"
	"restaurant-delivery-lab/internal/queries"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

// ErrCacheMiss is returned when a key is absent or caching is disabled
var ErrCacheMiss = errors.New("cache miss")

// RecommendationCache caches recommendation rankings in Redis. A disabled
// cache is not an error for callers: lookups miss and writes are dropped.
type RecommendationCache struct {
	client  *redis.Client
	enabled bool
	ttl     time.Duration
}

// NewRecommendationCache creates the cache, verifying connectivity when
// enabled
func NewRecommendationCache(cfg config.RedisConfig, ttl time.Duration) (*RecommendationCache, error) {
	if !cfg.Enabled {
		return &RecommendationCache{enabled: false}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, errors.Wrap(err, "failed to connect to Redis")
	}

	return &RecommendationCache{client: client, enabled: true, ttl: ttl}, nil
}

// Key builds the cache key for one filtered ranking
func Key(pref queries.Preference, f queries.Filters) string {
	return fmt.Sprintf("recommend:%s:%s:%d:%d", pref, f.Cuisine, f.Market, f.Limit)
}

// Get retrieves a cached ranking
func (c *RecommendationCache) Get(ctx context.Context, key string) ([]queries.RecommendationRow, error) {
	if c == nil || !c.enabled {
		return nil, ErrCacheMiss
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, errors.Wrap(err, "failed to get value from Redis")
	}

	var rows []queries.RecommendationRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errors.Wrap(err, "failed to decode cached ranking")
	}
	return rows, nil
}

// Set stores a ranking with the configured TTL
func (c *RecommendationCache) Set(ctx context.Context, key string, rows []queries.RecommendationRow) error {
	if c == nil || !c.enabled {
		return nil
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return errors.Wrap(err, "failed to encode ranking")
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return errors.Wrap(err, "failed to set value in Redis")
	}
	return nil
}

// Close releases the Redis connection
func (c *RecommendationCache) Close() error {
	if c == nil || !c.enabled {
		return nil
	}
	return c.client.Close()
}
