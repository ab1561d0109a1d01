package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss reports that a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Store is one cache tier holding serialized values.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, time.Time, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

type Tier string

const (
	TierPrimary Tier = "redis"
	TierLocal   Tier = "local"
)

// Entry is a cached value together with the tier that served it.
type Entry[T any] struct {
	Key       string
	Value     T
	ExpiresAt time.Time
	Tier      Tier
}
