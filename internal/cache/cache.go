// Package cache keeps a read-through copy of each user's stored résumé text.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "resume:text:"
	versionPrefix = "resume:textver:"
)

// TextCache is the cache contract used by the ingestion service.
//
// Writers never store text; they Invalidate, which evicts the entry and
// bumps the user's version. Readers take the Version before loading from the
// store and Fill with it, so a load that raced with an upload is dropped
// instead of caching text older than the committed row.
type TextCache interface {
	Get(ctx context.Context, userID uuid.UUID) (string, bool, error)
	Version(ctx context.Context, userID uuid.UUID) (int64, error)
	Fill(ctx context.Context, userID uuid.UUID, text string, version int64) (bool, error)
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// Connect opens a Redis client and checks it with PING.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return client, nil
}

// RedisCache stores résumé text under resume:text:<user id> with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Key returns the Redis key for a user.
func Key(userID uuid.UUID) string {
	return keyPrefix + userID.String()
}

// Get returns the cached text; found is false on a miss.
func (c *RedisCache) Get(ctx context.Context, userID uuid.UUID) (string, bool, error) {
	text, err := c.client.Get(ctx, Key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cached resume text: %w", err)
	}
	return text, true, nil
}

// VersionKey returns the Redis key of a user's invalidation counter. It has
// no TTL; an expiring counter could restart at a value a slow reader holds.
func VersionKey(userID uuid.UUID) string {
	return versionPrefix + userID.String()
}

// Version returns the user's invalidation counter, 0 before the first write.
func (c *RedisCache) Version(ctx context.Context, userID uuid.UUID) (int64, error) {
	v, err := c.client.Get(ctx, VersionKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read resume text version: %w", err)
	}
	return v, nil
}

// Fill stores text for the configured TTL if the counter still equals
// version. It reports whether the text was stored.
func (c *RedisCache) Fill(ctx context.Context, userID uuid.UUID, text string, version int64) (bool, error) {
	vk := VersionKey(userID)
	stored := false
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vk).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, Key(userID), text, c.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, vk)
	switch {
	case errors.Is(err, redis.TxFailedErr):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to cache resume text: %w", err)
	}
	return stored, nil
}

// Invalidate evicts the cached text and bumps the version in one
// transaction.
func (c *RedisCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, VersionKey(userID))
		pipe.Del(ctx, Key(userID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate cached resume text: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Noop is a TextCache that never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, uuid.UUID) (string, bool, error)         { return "", false, nil }
func (Noop) Version(context.Context, uuid.UUID) (int64, error)            { return 0, nil }
func (Noop) Fill(context.Context, uuid.UUID, string, int64) (bool, error) { return false, nil }
func (Noop) Invalidate(context.Context, uuid.UUID) error                  { return nil }
