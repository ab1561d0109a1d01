package components

import (
	"log/slog"
	"net/http"

	"availability-engine/internal/infra/adapter"
	"availability-engine/internal/infra/upstream"
	"availability-engine/internal/pkg/clock"
	"availability-engine/internal/pkg/config"
	"availability-engine/internal/usecase"

	"go.uber.org/fx"
)

var UpstreamModule = fx.Module("upstream",
	upstreamBaseOption,
	adapterModule,
)

var upstreamBaseOption = fx.Provide(
	clock.NewRealClock,
	NewHTTPClient,
	NewRateLimiter,
	NewAuthStrategy,
	NewTokenManager,
	NewUpstreamClient,
	func(c *upstream.Client) adapter.Fetcher { return c },
)

var adapterModule = fx.Module("upstream/adapter",
	fx.Provide(
		fx.Annotate(
			adapter.NewBookingsAdapter,
			fx.As(new(usecase.BookingsSource)),
		),
		fx.Annotate(
			adapter.NewCalendarAdapter,
			fx.As(new(usecase.CalendarSource)),
		),
		fx.Annotate(
			adapter.NewOffersAdapter,
			fx.As(new(usecase.OffersSource)),
		),
		fx.Annotate(
			adapter.NewPropertiesAdapter,
			fx.As(new(usecase.PropertySource)),
		),
	),
)

func NewHTTPClient(cfg config.Config) *http.Client {
	return &http.Client{Timeout: cfg.Upstream.RequestTimeout}
}

// NewRateLimiter is shared by every caller of the upstream account,
// including token refreshes.
func NewRateLimiter(clk clock.Clock, cfg config.Config) *upstream.RateLimiter {
	return upstream.NewRateLimiter(clk, cfg.RateLimit.MinDelay, cfg.RateLimit.MaxPerWindow, cfg.RateLimit.Window)
}

func NewAuthStrategy(cfg config.Config, httpClient *http.Client, limiter *upstream.RateLimiter, clk clock.Clock) upstream.AuthStrategy {
	if cfg.Upstream.AuthMode == "refresh" {
		return upstream.NewRefreshableToken(
			cfg.Upstream.BaseURL,
			cfg.Upstream.RefreshToken,
			httpClient,
			limiter,
			clk,
			cfg.Upstream.TokenLifetime,
		)
	}
	return upstream.NewLongLifeToken(cfg.Upstream.Token)
}

func NewTokenManager(strategy upstream.AuthStrategy, clk clock.Clock, logger *slog.Logger, cfg config.Config) *upstream.TokenManager {
	return upstream.NewTokenManager(strategy, clk, logger, cfg.Upstream.TokenExpiryBuffer, cfg.Upstream.RefreshAttempts)
}

func NewUpstreamClient(
	cfg config.Config,
	httpClient *http.Client,
	limiter *upstream.RateLimiter,
	tokens *upstream.TokenManager,
	clk clock.Clock,
	logger *slog.Logger,
) *upstream.Client {
	return upstream.NewClient(upstream.ClientConfig{
		BaseURL:        cfg.Upstream.BaseURL,
		MaxAttempts:    cfg.Upstream.MaxAttempts,
		BackoffInitial: cfg.Upstream.BackoffInitial,
		BackoffMax:     cfg.Upstream.BackoffMax,
	}, httpClient, limiter, tokens, clk, logger)
}
