// Package cache provides a Redis-backed cache for computed analytics
// snapshots. Snapshots are expensive to assemble (several store reads plus
// the aggregation pass), cheap to serialize, and invalidated wholesale
// whenever an account receives new data.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trade-journal-lab/internal/domain"
)

// ErrMiss is returned when the cache has no entry for the key.
var ErrMiss = errors.New("cache miss")

// SnapshotCache stores computed analytics snapshots keyed by account and
// period.
type SnapshotCache interface {
	// Get retrieves a cached snapshot. Returns ErrMiss when absent.
	Get(ctx context.Context, accountID, period string) (*domain.AnalyticsSnapshot, error)

	// Set stores a snapshot under (accountID, period).
	Set(ctx context.Context, snap *domain.AnalyticsSnapshot) error

	// Invalidate drops all cached snapshots for an account.
	Invalidate(ctx context.Context, accountID string) error

	// Close releases the underlying connection.
	Close() error
}

// RedisCache implements SnapshotCache on go-redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(ctx context.Context, addr, password string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

// Compile-time interface check.
var _ SnapshotCache = (*RedisCache)(nil)

// snapshotKey builds the cache key for one account/period combination.
func snapshotKey(accountID, period string) string {
	return fmt.Sprintf("journal:snapshot:%s:%s", accountID, period)
}

// accountPattern matches every cached period for an account.
func accountPattern(accountID string) string {
	return fmt.Sprintf("journal:snapshot:%s:*", accountID)
}

// Get retrieves a cached snapshot. Returns ErrMiss when absent.
func (c *RedisCache) Get(ctx context.Context, accountID, period string) (*domain.AnalyticsSnapshot, error) {
	val, err := c.client.Get(ctx, snapshotKey(accountID, period)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var snap domain.AnalyticsSnapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal cached snapshot: %w", err)
	}
	return &snap, nil
}

// Set stores a snapshot with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, snap *domain.AnalyticsSnapshot) error {
	if snap == nil || snap.AccountID == "" {
		return nil
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey(snap.AccountID, snap.Period), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate drops all cached snapshots for an account. Uses SCAN rather
// than KEYS so a large keyspace doesn't block the server.
func (c *RedisCache) Invalidate(ctx context.Context, accountID string) error {
	iter := c.client.Scan(ctx, 0, accountPattern(accountID), 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis del %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NoopCache satisfies SnapshotCache without storing anything. Used when no
// Redis address is configured.
type NoopCache struct{}

var _ SnapshotCache = (*NoopCache)(nil)

func (NoopCache) Get(ctx context.Context, accountID, period string) (*domain.AnalyticsSnapshot, error) {
	return nil, ErrMiss
}

func (NoopCache) Set(ctx context.Context, snap *domain.AnalyticsSnapshot) error { return nil }

func (NoopCache) Invalidate(ctx context.Context, accountID string) error { return nil }

func (NoopCache) Close() error { return nil }
