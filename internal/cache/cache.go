// Package cache memoizes quote-analysis results in Redis. The cache key
// includes a digest of the quote set, so a new or edited quote naturally
// misses and triggers a fresh analysis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fundihub/fundihub/internal/ai"
	"github.com/fundihub/fundihub/internal/marketplace"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 6 * time.Hour

// Cache stores computed quote analyses. A nil *Cache is valid and always
// misses, so callers need no special handling when Redis is not configured.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(url string, ttl time.Duration) (*Cache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: redis.NewClient(opt), ttl: ttl}, nil
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// AnalysisKey builds the cache key for a job's quote analysis from the job id
// and a digest of the quotes payload.
func AnalysisKey(jobID string, quotes []marketplace.QuoteSummary) string {
	raw, err := json.Marshal(quotes)
	if err != nil {
		raw = nil
	}
	digest := sha256.Sum256(raw)
	return fmt.Sprintf("quote-analysis:%s:%x", jobID, digest[:8])
}

// GetAnalysis returns the cached analysis for the key, or (nil, nil) on miss.
func (c *Cache) GetAnalysis(ctx context.Context, key string) (*ai.QuoteAnalysis, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}

	var analysis ai.QuoteAnalysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		// A corrupt entry is treated as a miss; it will be overwritten.
		return nil, nil
	}
	return &analysis, nil
}

// SetAnalysis stores the analysis under the key for the configured TTL.
func (c *Cache) SetAnalysis(ctx context.Context, key string, analysis *ai.QuoteAnalysis) error {
	if c == nil || c.client == nil || analysis == nil {
		return nil
	}

	raw, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}
