// Package cache provides an optional Redis-backed response cache.
// When caching is disabled or Redis is unreachable, the Noop
// implementation stands in: every read misses and every write or
// invalidation is silently dropped, so callers always fall through to
// the database.
package cache

import (
	"context"
	"fmt"
	"time"
)

// DefaultTTL is the expiry backstop for entries that miss explicit
// invalidation.
const DefaultTTL = 300 * time.Second

type Cache interface {
	// Get returns the raw cached payload and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores the JSON-marshalled value under key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// UserContentsKey is the cache key for a user's content list view.
func UserContentsKey(userID string) string {
	return fmt.Sprintf("user:%s:contents", userID)
}

// ContentKey is the cache key for a single content item view.
func ContentKey(userID, contentID string) string {
	return fmt.Sprintf("user:%s:content:%s", userID, contentID)
}

// Noop is the degraded mode used when caching is disabled or
// unconfigured.
type Noop struct{}

var _ Cache = (*Noop)(nil)

func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

func (n *Noop) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (n *Noop) Delete(ctx context.Context, keys ...string) error {
	return nil
}

func (n *Noop) Close() error {
	return nil
}
