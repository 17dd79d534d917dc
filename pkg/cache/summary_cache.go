package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/openbasket/openbasket-backend/config"
	"github.com/openbasket/openbasket-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const opTimeout = 2 * time.Second

// NewClient connects to Redis and verifies the connection.
func NewClient(cfg *config.RedisConfig) (*redis.Client, error) {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return client, nil
}

// SummaryCache keeps per-buyer cart summaries in Redis for a short TTL so
// high-traffic cart badge reads skip the grouping math. Best-effort: every
// failure degrades to a recompute, and a nil cache disables caching entirely.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

func summaryKey(buyerID uint) string {
	return fmt.Sprintf("cart:summary:%d", buyerID)
}

// Get loads the cached summary for the buyer into dest. Returns false on
// miss, disabled cache, or any decode failure.
func (c *SummaryCache) Get(buyerID uint, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	payload, err := c.client.Get(ctx, summaryKey(buyerID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("Failed to read cart summary cache", map[string]interface{}{
				"buyer_id": buyerID,
				"error":    err.Error(),
			})
		}
		return false
	}

	if err := json.Unmarshal(payload, dest); err != nil {
		logger.Warn("Failed to decode cached cart summary", map[string]interface{}{
			"buyer_id": buyerID,
			"error":    err.Error(),
		})
		return false
	}
	return true
}

// Set stores the summary for the buyer with the configured TTL.
func (c *SummaryCache) Set(buyerID uint, value interface{}) {
	if c == nil || c.client == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		logger.Warn("Failed to encode cart summary for cache", map[string]interface{}{
			"buyer_id": buyerID,
			"error":    err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := c.client.Set(ctx, summaryKey(buyerID), payload, c.ttl).Err(); err != nil {
		logger.Warn("Failed to write cart summary cache", map[string]interface{}{
			"buyer_id": buyerID,
			"error":    err.Error(),
		})
	}
}

// Invalidate drops the cached summary. Called on every cart mutation so
// stale counts never outlive a write.
func (c *SummaryCache) Invalidate(buyerID uint) {
	if c == nil || c.client == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := c.client.Del(ctx, summaryKey(buyerID)).Err(); err != nil {
		logger.Warn("Failed to invalidate cart summary cache", map[string]interface{}{
			"buyer_id": buyerID,
			"error":    err.Error(),
		})
	}
}
