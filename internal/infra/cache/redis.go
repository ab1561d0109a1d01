package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"availability-engine/internal/pkg/clock"
	"availability-engine/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/singleflight"
)

const scanBatch = 200

type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	ConnectAttempts int
	ConnectBackoff  time.Duration
}

// RedisStore is the shared primary tier. It connects on first use and, once
// ConnectAttempts consecutive connection tries have failed, stays disabled
// for the life of the process.
//
// TODO: retry connecting a disabled store on an interval so a redis restart does not
// pin the process to the local tier until redeploy.
type RedisStore struct {
	cfg    RedisConfig
	client *redis.Client
	clock  clock.Clock
	logger *slog.Logger

	mu        sync.Mutex
	connected bool
	disabled  bool

	connects singleflight.Group
}

func NewRedisStore(cfg RedisConfig, clk clock.Clock, logger *slog.Logger) *RedisStore {
	if cfg.ConnectAttempts < 1 {
		cfg.ConnectAttempts = 1
	}
	return &RedisStore{
		cfg: cfg,
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		clock:  clk,
		logger: logger,
	}
}

// Available reports whether the store has not given up on redis.
func (s *RedisStore) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.disabled
}

func (s *RedisStore) state() (connected, disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected, s.disabled
}

// ensure connects on first use. Concurrent callers share one connect loop
// and s.mu is never held while it runs.
func (s *RedisStore) ensure(ctx context.Context) error {
	connected, disabled := s.state()
	if connected {
		return nil
	}
	if disabled {
		return errs.ErrCacheUnavailable
	}

	ch := s.connects.DoChan("connect", func() (any, error) {
		return nil, s.connect(ctx)
	})
	select {
	case <-ctx.Done():
		return errs.Mark(errs.Wrap(ctx.Err(), "redis connect interrupted"), errs.ErrCacheUnavailable)
	case res := <-ch:
		return res.Err
	}
}

func (s *RedisStore) connect(ctx context.Context) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.cfg.ConnectBackoff
	policy.MaxElapsedTime = 0

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		return s.client.Ping(ctx).Err()
	}, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(s.cfg.ConnectAttempts-1)), ctx))

	if err != nil {
		if ctx.Err() != nil {
			return errs.Mark(errs.Wrap(err, "redis connect interrupted"), errs.ErrCacheUnavailable)
		}
		s.mu.Lock()
		s.disabled = true
		s.mu.Unlock()
		s.logger.Error("redis unreachable, continuing with local cache only",
			slog.String("addr", s.cfg.Addr),
			slog.Int("attempts", attempt),
			slog.Any("error", err),
		)
		return errs.Mark(errs.Wrap(err, "redis connect"), errs.ErrCacheUnavailable)
	}

	s.mu.Lock()
	s.connected = true
	s.mu.Unlock()
	s.logger.Info("redis connected", slog.String("addr", s.cfg.Addr))
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, time.Time, error) {
	if err := s.ensure(ctx); err != nil {
		return nil, time.Time{}, err
	}

	pipe := s.client.Pipeline()
	getCmd := pipe.Get(ctx, key)
	ttlCmd := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, time.Time{}, errs.Wrap(err, "redis get")
	}

	value, err := getCmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, time.Time{}, ErrMiss
	}
	if err != nil {
		return nil, time.Time{}, errs.Wrap(err, "redis get")
	}

	ttl := ttlCmd.Val()
	if ttl <= 0 {
		return value, time.Time{}, nil
	}
	return value, s.clock.Now().Add(ttl), nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.ensure(ctx); err != nil {
		return err
	}
	return errs.Wrap(s.client.Set(ctx, key, value, ttl).Err(), "redis set")
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.ensure(ctx); err != nil {
		return err
	}
	return errs.Wrap(s.client.Del(ctx, key).Err(), "redis del")
}

func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) error {
	if err := s.ensure(ctx); err != nil {
		return err
	}

	iter := s.client.Scan(ctx, 0, prefix+"*", scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return errs.Wrap(err, "redis del prefix")
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return errs.Wrap(err, "redis scan")
	}
	if len(batch) > 0 {
		return errs.Wrap(s.client.Del(ctx, batch...).Err(), "redis del prefix")
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
