package assistant

import (
	"pawkeeper/sources/entitlement"
	"pawkeeper/sources/features"
	"pawkeeper/sources/throttler"

	"go.uber.org/fx"
)

var Module = fx.Module("assistant",
	fx.Provide(
		func(g *entitlement.QuotaGate) QuotaChecker { return g },
		func(r *entitlement.UsageRecorder) UsageWriter { return r },
		func(t *throttler.Throttler) ThrottleChecker { return t },
		func(p *AssistantProvider) Provider { return p },
		func(m *features.FeatureManager) FeatureChecker { return m },

		NewOpenAIClient,
		NewAssistantProvider,
		NewOrchestrator,
	),
)
