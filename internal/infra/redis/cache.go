package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ledgerline/ledgerline/internal/platform/recurring"
	"github.com/ledgerline/ledgerline/pkg/logger"
)

const (
	// DefaultTTL is the default TTL for cached detection results
	DefaultTTL = 5 * time.Minute

	// KeyPrefix is the prefix for detection result cache keys
	KeyPrefix = "recurring:"
)

// DetectionCache is a Redis-backed cache of the latest detection result
// per user and mode. It serves the suggestions endpoint without
// re-running detection; a miss simply means the caller recomputes.
type DetectionCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewDetectionCache creates a new detection result cache
func NewDetectionCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *DetectionCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &DetectionCache{
		client: client,
		ttl:    ttl,
		logger: log.WithField("component", "detection_cache"),
	}
}

func key(userID uuid.UUID, mode recurring.Mode) string {
	return fmt.Sprintf("%s%s:%s", KeyPrefix, userID, mode)
}

// GetResult retrieves the cached detection result, or nil on a miss
func (c *DetectionCache) GetResult(ctx context.Context, userID uuid.UUID, mode recurring.Mode) (*recurring.DetectionResult, error) {
	val, err := c.client.Get(ctx, key(userID, mode)).Result()
	if err == redis.Nil {
		c.logger.Debug("cache miss", "user_id", userID, "mode", mode)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached result: %w", err)
	}

	var result recurring.DetectionResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}

	c.logger.Debug("cache hit", "user_id", userID, "mode", mode)
	return &result, nil
}

// SetResult stores the detection result for the configured TTL
func (c *DetectionCache) SetResult(ctx context.Context, userID uuid.UUID, mode recurring.Mode, res *recurring.DetectionResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal detection result: %w", err)
	}

	if err := c.client.Set(ctx, key(userID, mode), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cached result: %w", err)
	}

	return nil
}

// Invalidate drops all cached results for a user (both modes)
func (c *DetectionCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	keys := []string{
		key(userID, recurring.ModeExpense),
		key(userID, recurring.ModeIncome),
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached results: %w", err)
	}

	return nil
}
