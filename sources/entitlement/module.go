package entitlement

import (
	"pawkeeper/sources/features"
	"pawkeeper/sources/repository"

	"go.uber.org/fx"
)

var Module = fx.Module("entitlement",
	fx.Provide(
		func(r *repository.TiersRepository) TierSource { return r },
		func(r *repository.SubscriptionsRepository) SubscriptionSource { return r },
		func(r *repository.UsageRepository) UsageSource { return r },
		func(r *repository.PromoCodesRepository) PromoSource { return r },
		func(m *features.FeatureManager) FeatureChecker { return m },

		NewGateConfig,
		NewEntitlementResolver,
		NewQuotaGate,
		NewUsageRecorder,
		NewPromoResolver,
	),
)
