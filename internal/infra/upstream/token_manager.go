package upstream

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"availability-engine/internal/pkg/clock"
	"availability-engine/internal/pkg/errs"

	"golang.org/x/sync/singleflight"
)

const refreshKey = "refresh"

// TokenManager caches the current access token and refreshes it shortly
// before expiry. Concurrent callers share a single in-flight refresh.
type TokenManager struct {
	strategy   AuthStrategy
	clock      clock.Clock
	logger     *slog.Logger
	buffer     time.Duration
	attempts   int
	retryDelay time.Duration

	mu      sync.RWMutex
	current Token
	sf      singleflight.Group
}

func NewTokenManager(strategy AuthStrategy, clk clock.Clock, logger *slog.Logger, buffer time.Duration, attempts int) *TokenManager {
	if attempts < 1 {
		attempts = 1
	}
	return &TokenManager{
		strategy:   strategy,
		clock:      clk,
		logger:     logger,
		buffer:     buffer,
		attempts:   attempts,
		retryDelay: 200 * time.Millisecond,
	}
}

// WithRetryDelay sets the pause between failed refresh attempts.
func (m *TokenManager) WithRetryDelay(d time.Duration) *TokenManager {
	m.retryDelay = d
	return m
}

func (m *TokenManager) ValidToken(ctx context.Context) (string, error) {
	if tok, ok := m.cached(); ok {
		return tok.Value, nil
	}

	// The refresh outlives any single caller so that a cancelled request does
	// not fail everyone waiting on it.
	ch := m.sf.DoChan(refreshKey, func() (any, error) {
		if tok, ok := m.cached(); ok {
			return tok, nil
		}
		return m.refresh(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(Token).Value, nil
	}
}

// Invalidate drops the cached token, e.g. after upstream answered 401.
func (m *TokenManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = Token{}
}

func (m *TokenManager) cached() (Token, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, m.current.ValidAt(m.clock.Now(), m.buffer)
}

func (m *TokenManager) refresh(ctx context.Context) (Token, error) {
	var lastErr error
	for attempt := 1; attempt <= m.attempts; attempt++ {
		tok, err := m.strategy.Refresh(ctx)
		if err == nil {
			m.mu.Lock()
			m.current = tok
			m.mu.Unlock()

			m.logger.Info("upstream token refreshed",
				slog.String("strategy", m.strategy.Name()),
				slog.Time("expires_at", tok.ExpiresAt),
			)
			return tok, nil
		}

		lastErr = err
		m.logger.Warn("upstream token refresh failed",
			slog.String("strategy", m.strategy.Name()),
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)

		if attempt < m.attempts {
			select {
			case <-ctx.Done():
				return Token{}, errs.Mark(ctx.Err(), errs.ErrAuth)
			case <-time.After(time.Duration(attempt) * m.retryDelay):
			}
		}
	}

	return Token{}, errs.Mark(errs.Wrapf(lastErr, "token refresh failed after %d attempts", m.attempts), errs.ErrAuth)
}
