// Package cache keeps recent format probes in Redis so repeated requests for
// the same URL skip the extraction tool.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/transcript-ai/backend/internal/config"
	"github.com/transcript-ai/backend/internal/logging"
	"github.com/transcript-ai/backend/pkg/models"
)

// ProbeCache stores probe results keyed by source URL. A nil *ProbeCache is
// a valid no-op cache, so callers never branch on whether caching is on.
type ProbeCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logging.Logger
}

// New connects to Redis and verifies the connection. Returns nil when
// caching is disabled.
func New(ctx context.Context, cfg config.RedisConfig, log *logging.Logger) (*ProbeCache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &ProbeCache{client: client, ttl: cfg.ProbeTTL, log: log}, nil
}

// Get returns the cached probe for url, or ok=false on a miss. Errors are
// logged and reported as misses: a broken cache must never fail a request.
func (c *ProbeCache) Get(ctx context.Context, url string) (models.ProbeResult, bool) {
	if c == nil {
		return models.ProbeResult{}, false
	}

	data, err := c.client.Get(ctx, probeKey(url)).Bytes()
	if err == redis.Nil {
		return models.ProbeResult{}, false
	}
	if err != nil {
		c.log.WithError(err).Warn("probe cache read failed")
		return models.ProbeResult{}, false
	}

	var result models.ProbeResult
	if err := json.Unmarshal(data, &result); err != nil {
		c.log.WithError(err).Warn("probe cache entry corrupt")
		return models.ProbeResult{}, false
	}
	return result, true
}

// Set stores a probe result with the configured TTL. Failures are logged
// only.
func (c *ProbeCache) Set(ctx context.Context, url string, result models.ProbeResult) {
	if c == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		c.log.WithError(err).Warn("probe cache encode failed")
		return
	}
	if err := c.client.Set(ctx, probeKey(url), data, c.ttl).Err(); err != nil {
		c.log.WithError(err).Warn("probe cache write failed")
	}
}

// Close releases the Redis connection.
func (c *ProbeCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// probeKey hashes the URL so arbitrary user input never lands in key space.
func probeKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "probe:" + hex.EncodeToString(sum[:16])
}
