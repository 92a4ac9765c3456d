package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/boltline/purchasing-dash/internal/config"
	"github.com/boltline/purchasing-dash/internal/domain"
)

const snapshotKeyPrefix = "inventory:snapshot"

// SnapshotCache holds the last reconciled snapshot keyed by the input tables'
// fingerprint, so re-serving an unchanged session skips recomputation on
// restart. Disabled deployments get the noop implementation.
type SnapshotCache interface {
	Get(ctx context.Context, fingerprint string) ([]domain.ReconciledInventoryItem, bool, error)
	Set(ctx context.Context, fingerprint string, snapshot []domain.ReconciledInventoryItem) error
	Invalidate(ctx context.Context) error
}

type redisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopSnapshotCache struct{}

func NewSnapshotCache(cfg config.CacheConfig) (SnapshotCache, error) {
	if !cfg.Enabled {
		return &noopSnapshotCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisSnapshotCache{client: client, ttl: ttl}, nil
}

func NewNoopSnapshotCache() SnapshotCache {
	return &noopSnapshotCache{}
}

func (c *redisSnapshotCache) Get(ctx context.Context, fingerprint string) ([]domain.ReconciledInventoryItem, bool, error) {
	payload, err := c.client.Get(ctx, snapshotKey(fingerprint)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var snapshot []domain.ReconciledInventoryItem
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, false, fmt.Errorf("decode snapshot cache: %w", err)
	}
	return snapshot, true, nil
}

func (c *redisSnapshotCache) Set(ctx context.Context, fingerprint string, snapshot []domain.ReconciledInventoryItem) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot cache: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey(fingerprint), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisSnapshotCache) Invalidate(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, snapshotKeyPrefix, 100)
}

func (n *noopSnapshotCache) Get(ctx context.Context, fingerprint string) ([]domain.ReconciledInventoryItem, bool, error) {
	return nil, false, nil
}

func (n *noopSnapshotCache) Set(ctx context.Context, fingerprint string, snapshot []domain.ReconciledInventoryItem) error {
	return nil
}

func (n *noopSnapshotCache) Invalidate(ctx context.Context) error {
	return nil
}

func snapshotKey(fingerprint string) string {
	return fmt.Sprintf("%s:%s", snapshotKeyPrefix, fingerprint)
}
