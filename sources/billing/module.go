package billing

import (
	"pawkeeper/sources/entitlement"
	"pawkeeper/sources/features"
	"pawkeeper/sources/repository"

	"go.uber.org/fx"
)

var Module = fx.Module("billing",
	fx.Provide(
		func(r *repository.TiersRepository) TierStore { return r },
		func(r *repository.SubscriptionsRepository) SubscriptionStore { return r },
		func(r *repository.PaymentsRepository) PaymentStore { return r },
		func(r *entitlement.PromoResolver) PromoValidator { return r },
		func(m *features.FeatureManager) FeatureChecker { return m },

		NewPaymentProcessor,
		NewPurchaseService,
	),
)
