package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"availability-engine/internal/pkg/clock"
)

// Layer reads the primary tier first and falls back to the local tier. Cache
// failures never reach the caller: they are logged and served as misses.
type Layer struct {
	primary Store
	local   *LocalStore
	clock   clock.Clock
	logger  *slog.Logger
}

// NewLayer builds a two-tier cache. primary may be nil for local-only use.
func NewLayer(primary Store, local *LocalStore, clk clock.Clock, logger *slog.Logger) *Layer {
	return &Layer{
		primary: primary,
		local:   local,
		clock:   clk,
		logger:  logger,
	}
}

func (l *Layer) getRaw(ctx context.Context, key string) ([]byte, time.Time, Tier, bool) {
	if l.primary != nil {
		value, expiresAt, err := l.primary.Get(ctx, key)
		switch {
		case err == nil:
			l.warmLocal(ctx, key, value, expiresAt)
			return value, expiresAt, TierPrimary, true
		case !errors.Is(err, ErrMiss):
			l.logger.Warn("primary cache read failed", slog.String("key", key), slog.Any("error", err))
		}
	}

	value, expiresAt, err := l.local.Get(ctx, key)
	if err != nil {
		return nil, time.Time{}, "", false
	}
	return value, expiresAt, TierLocal, true
}

func (l *Layer) warmLocal(ctx context.Context, key string, value []byte, expiresAt time.Time) {
	if expiresAt.IsZero() {
		return
	}
	if ttl := expiresAt.Sub(l.clock.Now()); ttl > 0 {
		_ = l.local.Set(ctx, key, value, ttl)
	}
}

func (l *Layer) setRaw(ctx context.Context, key string, value []byte, ttl time.Duration) {
	_ = l.local.Set(ctx, key, value, ttl)

	if l.primary == nil {
		return
	}
	if err := l.primary.Set(ctx, key, value, ttl); err != nil {
		l.logger.Warn("primary cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}

// Delete removes key from both tiers.
func (l *Layer) Delete(ctx context.Context, key string) {
	_ = l.local.Delete(ctx, key)
	if l.primary == nil {
		return
	}
	if err := l.primary.Delete(ctx, key); err != nil {
		l.logger.Warn("primary cache delete failed", slog.String("key", key), slog.Any("error", err))
	}
}

// DeletePrefix removes every key starting with prefix from both tiers.
func (l *Layer) DeletePrefix(ctx context.Context, prefix string) {
	_ = l.local.DeletePrefix(ctx, prefix)
	if l.primary == nil {
		return
	}
	if err := l.primary.DeletePrefix(ctx, prefix); err != nil {
		l.logger.Warn("primary cache prefix delete failed", slog.String("prefix", prefix), slog.Any("error", err))
	}
}

// Get decodes the cached value at key. A value that no longer decodes is
// dropped and reported as a miss.
func Get[T any](ctx context.Context, l *Layer, key string) (Entry[T], bool) {
	raw, expiresAt, tier, ok := l.getRaw(ctx, key)
	if !ok {
		return Entry[T]{}, false
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		l.logger.Warn("discarding undecodable cache entry", slog.String("key", key), slog.Any("error", err))
		l.Delete(ctx, key)
		return Entry[T]{}, false
	}

	return Entry[T]{Key: key, Value: value, ExpiresAt: expiresAt, Tier: tier}, true
}

// Set stores value under key in both tiers.
func Set[T any](ctx context.Context, l *Layer, key string, value T, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		l.logger.Warn("skipping unencodable cache entry", slog.String("key", key), slog.Any("error", err))
		return
	}
	l.setRaw(ctx, key, raw, ttl)
}
