package features

import (
	"context"
	"pawkeeper/sources/tracing"

	"go.uber.org/fx"
)

var Module = fx.Module("features",
	fx.Provide(
		NewFeatureManager,
	),

	fx.Invoke(func(manager *FeatureManager, lc fx.Lifecycle, log *tracing.Logger) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return manager.OnStop(ctx)
			},
		})
	}),
)
