package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"availability-engine/internal/pkg/clock"
	"availability-engine/internal/pkg/errs"
	upjwt "availability-engine/internal/pkg/jwt"
)

const refreshPath = "/authentication/token"

var (
	ErrMissingToken        = errs.New("upstream token not configured")
	ErrMissingRefreshToken = errs.New("upstream refresh token not configured")
)

// Token is an upstream access token. A zero ExpiresAt never expires.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// ValidAt reports whether the token is usable at now with at least buffer left.
func (t Token) ValidAt(now time.Time, buffer time.Duration) bool {
	if t.Value == "" {
		return false
	}
	return t.ExpiresAt.IsZero() || now.Add(buffer).Before(t.ExpiresAt)
}

// AuthStrategy obtains access tokens for one upstream account.
type AuthStrategy interface {
	Name() string
	Refresh(ctx context.Context) (Token, error)
}

// LongLifeToken serves a token issued out of band that does not expire.
type LongLifeToken struct {
	token string
}

func NewLongLifeToken(token string) *LongLifeToken {
	return &LongLifeToken{token: strings.TrimSpace(token)}
}

func (s *LongLifeToken) Name() string { return "long_life" }

func (s *LongLifeToken) Refresh(_ context.Context) (Token, error) {
	if s.token == "" {
		return Token{}, errs.Mark(ErrMissingToken, errs.ErrAuth)
	}
	return Token{Value: s.token}, nil
}

// RefreshableToken exchanges a refresh token for short-lived access tokens.
type RefreshableToken struct {
	baseURL         string
	refreshToken    string
	httpClient      *http.Client
	limiter         *RateLimiter
	clock           clock.Clock
	defaultLifetime time.Duration
}

func NewRefreshableToken(
	baseURL, refreshToken string,
	httpClient *http.Client,
	limiter *RateLimiter,
	clk clock.Clock,
	defaultLifetime time.Duration,
) *RefreshableToken {
	return &RefreshableToken{
		baseURL:         strings.TrimRight(baseURL, "/"),
		refreshToken:    strings.TrimSpace(refreshToken),
		httpClient:      httpClient,
		limiter:         limiter,
		clock:           clk,
		defaultLifetime: defaultLifetime,
	}
}

func (s *RefreshableToken) Name() string { return "refresh" }

func (s *RefreshableToken) Refresh(ctx context.Context) (Token, error) {
	if s.refreshToken == "" {
		return Token{}, errs.Mark(ErrMissingRefreshToken, errs.ErrAuth)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return Token{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+refreshPath, nil)
	if err != nil {
		return Token{}, errs.Mark(errs.Wrap(err, "build refresh request"), errs.ErrAuth)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("refreshToken", s.refreshToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Token{}, errs.Mark(errs.Wrap(err, "refresh request"), errs.ErrAuth)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Token{}, errs.Mark(errs.Wrap(err, "read refresh response"), errs.ErrAuth)
	}
	if resp.StatusCode != http.StatusOK {
		return Token{}, errs.Mark(errs.Newf("refresh rejected with status %d", resp.StatusCode), errs.ErrAuth)
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return Token{}, errs.Mark(errs.Wrap(err, "decode refresh response"), errs.ErrAuth)
	}

	value := firstString(payload, "token", "accessToken", "access_token")
	if value == "" {
		return Token{}, errs.Mark(errs.New("refresh response carries no token"), errs.ErrAuth)
	}

	return Token{Value: value, ExpiresAt: s.expiry(payload, value)}, nil
}

// expiry prefers the explicit lifetime, then the token's own exp claim.
func (s *RefreshableToken) expiry(payload map[string]any, value string) time.Time {
	now := s.clock.Now()
	for _, key := range []string{"expiresIn", "expires_in"} {
		if secs, ok := payload[key].(float64); ok && secs > 0 {
			return now.Add(time.Duration(secs) * time.Second)
		}
	}
	if exp, err := upjwt.ExpiresAt(value); err == nil {
		return exp
	}
	return now.Add(s.defaultLifetime)
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
