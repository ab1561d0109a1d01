package components

import (
	"context"
	"log/slog"

	"availability-engine/internal/infra/cache"
	"availability-engine/internal/pkg/clock"
	"availability-engine/internal/pkg/config"

	"go.uber.org/fx"
)

var CacheModule = fx.Module("cache",
	fx.Provide(
		NewRedisStore,
		cache.NewLocalStore,
		NewCacheLayer,
		NewCacheTTLs,
	),
)

func NewRedisStore(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, logger *slog.Logger) *cache.RedisStore {
	store := cache.NewRedisStore(cache.RedisConfig{
		Addr:            cfg.Cache.RedisAddr,
		Password:        cfg.Cache.RedisPassword,
		DB:              cfg.Cache.RedisDB,
		ConnectAttempts: cfg.Cache.ConnectAttempts,
		ConnectBackoff:  cfg.Cache.ConnectBackoff,
	}, clk, logger)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return store.Close()
		},
	})
	return store
}

func NewCacheLayer(primary *cache.RedisStore, local *cache.LocalStore, clk clock.Clock, logger *slog.Logger) *cache.Layer {
	return cache.NewLayer(primary, local, clk, logger)
}

func NewCacheTTLs(cfg config.Config) cache.TTLs {
	ttls := cache.DefaultTTLs()
	if cfg.Cache.AvailabilityTTL > 0 {
		ttls.Availability = cfg.Cache.AvailabilityTTL
	}
	if cfg.Cache.MetadataTTL > 0 {
		ttls.Metadata = cfg.Cache.MetadataTTL
	}
	if cfg.Cache.PricingTTL > 0 {
		ttls.Pricing = cfg.Cache.PricingTTL
	}
	if cfg.Cache.RulesTTL > 0 {
		ttls.Rules = cfg.Cache.RulesTTL
	}
	return ttls
}
