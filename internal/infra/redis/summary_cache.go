package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/cashfolio/cashfolio/internal/cashflow"
	"github.com/cashfolio/cashfolio/pkg/logger"
)

const (
	// DefaultTTL is how long a summary stays fresh
	DefaultTTL = 5 * time.Minute

	// StaleTTL is the TTL for the stale fallback copy
	StaleTTL = 24 * time.Hour

	// KeyPrefix is the prefix for summary cache keys
	KeyPrefix = "summary:"
)

// SummaryCache is a Redis-backed cache of computed cash-flow summaries.
// Each entry is stored twice: a fresh copy with a short TTL and a stale
// copy kept for a day, used as a fallback when recomputation fails.
//
// The cache is best effort. Errors are logged and reported as misses so
// summary reads never fail on cache trouble.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewSummaryCache creates a new summary cache with the default TTL
func NewSummaryCache(client *redis.Client, log *logger.Logger) *SummaryCache {
	return NewSummaryCacheWithTTL(client, DefaultTTL, log)
}

// NewSummaryCacheWithTTL creates a new summary cache with a custom TTL
func NewSummaryCacheWithTTL(client *redis.Client, ttl time.Duration, log *logger.Logger) *SummaryCache {
	return &SummaryCache{
		client: client,
		ttl:    ttl,
		logger: log.WithField("component", "summary_cache"),
	}
}

// cachedSummary is the serialized cache payload. Decimals are stored
// as strings to survive JSON round-trips exactly.
type cachedSummary struct {
	TotalInflow  string    `json:"total_inflow"`
	TotalOutflow string    `json:"total_outflow"`
	Net          string    `json:"net"`
	Count        int       `json:"count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Get retrieves a fresh cached summary
func (c *SummaryCache) Get(ctx context.Context, portfolioID uuid.UUID, filterKey string) (*cashflow.Summary, bool) {
	return c.get(ctx, c.key(portfolioID, filterKey))
}

// GetStale retrieves the stale fallback copy
func (c *SummaryCache) GetStale(ctx context.Context, portfolioID uuid.UUID, filterKey string) (*cashflow.Summary, bool) {
	return c.get(ctx, c.staleKey(portfolioID, filterKey))
}

// Set stores a summary as both the fresh entry and the stale fallback
func (c *SummaryCache) Set(ctx context.Context, portfolioID uuid.UUID, filterKey string, summary *cashflow.Summary) {
	cached := cachedSummary{
		TotalInflow:  summary.TotalInflow.String(),
		TotalOutflow: summary.TotalOutflow.String(),
		Net:          summary.Net.String(),
		Count:        summary.Count,
		UpdatedAt:    time.Now().UTC(),
	}

	data, err := json.Marshal(cached)
	if err != nil {
		c.logger.Error("cache error", "operation", "marshal", "portfolio_id", portfolioID, "error", err)
		return
	}

	if err := c.client.Set(ctx, c.key(portfolioID, filterKey), data, c.ttl).Err(); err != nil {
		c.logger.Error("cache error", "operation", "set", "portfolio_id", portfolioID, "error", err)
	}

	if err := c.client.Set(ctx, c.staleKey(portfolioID, filterKey), data, StaleTTL).Err(); err != nil {
		c.logger.Error("cache error", "operation", "set_stale", "portfolio_id", portfolioID, "error", err)
	}
}

// Invalidate removes all fresh summaries for a portfolio. Stale copies
// are left in place so an outage right after a mutation still has a
// fallback; they expire on their own TTL.
func (c *SummaryCache) Invalidate(ctx context.Context, portfolioID uuid.UUID) {
	pattern := fmt.Sprintf("%s%s:*", KeyPrefix, portfolioID)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()

	pipe := c.client.Pipeline()
	count := 0
	for iter.Next(ctx) {
		key := iter.Val()
		if isStaleKey(key) {
			continue
		}
		pipe.Del(ctx, key)
		count++
		if count >= 100 {
			if _, err := pipe.Exec(ctx); err != nil {
				c.logger.Error("cache error", "operation", "invalidate", "portfolio_id", portfolioID, "error", err)
				return
			}
			pipe = c.client.Pipeline()
			count = 0
		}
	}

	if count > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			c.logger.Error("cache error", "operation", "invalidate", "portfolio_id", portfolioID, "error", err)
			return
		}
	}

	if err := iter.Err(); err != nil {
		c.logger.Error("cache error", "operation", "invalidate_scan", "portfolio_id", portfolioID, "error", err)
	}
}

func (c *SummaryCache) get(ctx context.Context, key string) (*cashflow.Summary, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		c.logger.Debug("cache miss", "key", key)
		return nil, false
	}
	if err != nil {
		c.logger.Error("cache error", "operation", "get", "key", key, "error", err)
		return nil, false
	}

	var cached cachedSummary
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		c.logger.Error("cache error", "operation", "unmarshal", "key", key, "error", err)
		return nil, false
	}

	summary, err := parseSummary(cached)
	if err != nil {
		c.logger.Error("cache error", "operation", "parse", "key", key, "error", err)
		return nil, false
	}

	c.logger.Debug("cache hit", "key", key)
	return summary, true
}

func parseSummary(cached cachedSummary) (*cashflow.Summary, error) {
	inflow, err := decimal.NewFromString(cached.TotalInflow)
	if err != nil {
		return nil, fmt.Errorf("invalid total_inflow: %s", cached.TotalInflow)
	}
	outflow, err := decimal.NewFromString(cached.TotalOutflow)
	if err != nil {
		return nil, fmt.Errorf("invalid total_outflow: %s", cached.TotalOutflow)
	}
	net, err := decimal.NewFromString(cached.Net)
	if err != nil {
		return nil, fmt.Errorf("invalid net: %s", cached.Net)
	}

	return &cashflow.Summary{
		TotalInflow:  inflow,
		TotalOutflow: outflow,
		Net:          net,
		Count:        cached.Count,
	}, nil
}

func (c *SummaryCache) key(portfolioID uuid.UUID, filterKey string) string {
	return fmt.Sprintf("%s%s:%s", KeyPrefix, portfolioID, filterKey)
}

func (c *SummaryCache) staleKey(portfolioID uuid.UUID, filterKey string) string {
	return c.key(portfolioID, filterKey) + ":stale"
}

func isStaleKey(key string) bool {
	return len(key) > 6 && key[len(key)-6:] == ":stale"
}
