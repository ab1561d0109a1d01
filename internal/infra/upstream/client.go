package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"availability-engine/internal/pkg/clock"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

const (
	maxBodyBytes          = 8 << 20
	defaultRateLimitPause = 10 * time.Second
)

type ClientConfig struct {
	BaseURL        string
	MaxAttempts    int
	BackoffInitial time.Duration
	BackoffMax     time.Duration
	// RateLimitPause applies when a 429 carries no reset hint.
	RateLimitPause time.Duration
}

// Client issues authenticated, throttled GET requests against the
// reservation platform and decodes the JSON body.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	limiter    *RateLimiter
	tokens     *TokenManager
	clock      clock.Clock
	logger     *slog.Logger
}

func NewClient(cfg ClientConfig, httpClient *http.Client, limiter *RateLimiter, tokens *TokenManager, clk clock.Clock, logger *slog.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.RateLimitPause <= 0 {
		cfg.RateLimitPause = defaultRateLimitPause
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		limiter:    limiter,
		tokens:     tokens,
		clock:      clk,
		logger:     logger,
	}
}

// Get returns the decoded JSON document at path. Numbers decode as
// json.Number so prices keep their exact decimal form.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (any, error) {
	authRetried, throttleRetried := false, false

	for {
		body, err := c.getWithBackoff(ctx, path, query)
		switch {
		case err == nil:
			return c.decode(path, body)

		case IsKind(err, KindAuth) && !authRetried:
			authRetried = true
			c.tokens.Invalidate()

		case IsKind(err, KindRateLimited) && !throttleRetried:
			throttleRetried = true
			c.limiter.Pause(c.clock.Now().Add(retryAfterOf(err, c.cfg.RateLimitPause)))

		default:
			return nil, err
		}
	}
}

func (c *Client) getWithBackoff(ctx context.Context, path string, query url.Values) ([]byte, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.cfg.BackoffInitial
	policy.MaxInterval = c.cfg.BackoffMax
	policy.MaxElapsedTime = 0

	var body []byte
	operation := func() error {
		var err error
		body, err = c.do(ctx, path, query)
		if err != nil && !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("retrying upstream request",
			slog.String("path", path),
			slog.Duration("wait", wait),
			slog.Any("error", err),
		)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.cfg.MaxAttempts-1)), ctx)
	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	token, err := c.tokens.ValidToken(ctx)
	if err != nil {
		return nil, err
	}

	target := c.cfg.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, wrapErr(c.logger, KindClient, 0, "build request "+path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("token", token)
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, wrapErr(c.logger, KindTimeout, 0, "request "+path+" timed out", err)
		}
		return nil, wrapErr(c.logger, KindTransport, 0, "request "+path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, wrapErr(c.logger, KindTransport, resp.StatusCode, "read body "+path, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, wrapErr(c.logger, KindAuth, resp.StatusCode, "unauthorized "+path, nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		e := wrapErr(c.logger, KindRateLimited, resp.StatusCode, "throttled "+path, nil).(Error)
		e.RetryAfter = parseResetHint(resp.Header, c.clock.Now())
		return nil, e
	case resp.StatusCode >= 500:
		return nil, wrapErr(c.logger, KindServer, resp.StatusCode, "server error "+path, nil)
	default:
		return nil, wrapErr(c.logger, KindClient, resp.StatusCode, "rejected "+path, nil)
	}
}

func (c *Client) decode(path string, body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, wrapErr(c.logger, KindDecode, http.StatusOK, "decode "+path, err)
	}
	return doc, nil
}

func isRetryable(err error) bool {
	return IsKind(err, KindTransport) || IsKind(err, KindTimeout) || IsKind(err, KindServer)
}

func retryAfterOf(err error, fallback time.Duration) time.Duration {
	var e Error
	if errors.As(err, &e) && e.RetryAfter > 0 {
		return e.RetryAfter
	}
	return fallback
}

// parseResetHint reads Retry-After or a rate-limit reset header. Values are
// either a delay in seconds, a unix timestamp, or an HTTP date.
func parseResetHint(h http.Header, now time.Time) time.Duration {
	for _, name := range []string{"Retry-After", "X-RateLimit-Reset", "X-FiveMinCreditLimit-ResetsIn"} {
		v := strings.TrimSpace(h.Get(name))
		if v == "" {
			continue
		}
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
			if secs > 1_000_000_000 {
				return time.Unix(secs, 0).Sub(now)
			}
			return time.Duration(secs) * time.Second
		}
		if at, err := http.ParseTime(v); err == nil {
			return at.Sub(now)
		}
	}
	return 0
}
