package components

import (
	"availability-engine/internal/handler"
	"availability-engine/internal/handler/api"
	"availability-engine/internal/infra/cache"
	"availability-engine/internal/infra/upstream"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAvailabilityHandler,
		func(limiter *upstream.RateLimiter, redis *cache.RedisStore) *api.HealthHandler {
			return api.NewHealthHandler(limiter, redis)
		},
	),
	fx.Invoke(handler.NewRouter),
)
