package bootstrap

import (
	"availability-engine/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	components.UpstreamModule,
	components.CacheModule,
	components.UseCaseModule,
	components.HandlerModule,
)
