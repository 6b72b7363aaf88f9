package entitlement

import (
	"time"
	"pawkeeper/sources/features"
	"pawkeeper/sources/metrics"
	"pawkeeper/sources/tracing"

	"github.com/google/uuid"
)

type QuotaGate struct {
	resolver *EntitlementResolver
	usage    UsageSource
	flags    FeatureChecker
	metrics  *metrics.MetricsService
	config   *GateConfig
}

func NewQuotaGate(resolver *EntitlementResolver, usage UsageSource, flags FeatureChecker, metrics *metrics.MetricsService, config *GateConfig) *QuotaGate {
	return &QuotaGate{
		resolver: resolver,
		usage:    usage,
		flags:    flags,
		metrics:  metrics,
		config:   config,
	}
}

// CheckQuota evaluates the user's current-month consumption against their
// tier. It is a pure read: the ledger is only ever mutated by the recorder,
// after the gated call has actually succeeded.
//
// Transient store faults fail open: a ledger hiccup must not deny service to
// every user, so the request is allowed and the fault logged. Only a
// ConfigurationError from the resolver propagates.
func (x *QuotaGate) CheckQuota(log *tracing.Logger, userID uuid.UUID, now time.Time, monthKey MonthKey) (*QuotaDecision, error) {
	return tracing.ReportExecutionForRE(log, func() (*QuotaDecision, error) {
		return x.checkQuota(log, userID, now, monthKey)
	}, func(l *tracing.Logger) {
		l.D("Quota check completed", tracing.UserId, userID, tracing.MonthKey, monthKey)
	})
}

func (x *QuotaGate) checkQuota(log *tracing.Logger, userID uuid.UUID, now time.Time, monthKey MonthKey) (*QuotaDecision, error) {
	tier, err := x.resolver.ResolveTier(log, userID, now)
	if err != nil {
		if IsConfigurationError(err) {
			return nil, err
		}

		log.E("Tier resolution failed, allowing request", tracing.UserId, userID, tracing.InnerError, err)
		x.metrics.RecordQuotaDecision(OutcomeFailOpen, "unknown")
		return &QuotaDecision{Allowed: true, TierKey: "unknown"}, nil
	}

	usage, err := x.usage.GetForMonth(log, userID, monthKey.String())
	if err != nil {
		log.E("Usage read failed, allowing request", tracing.UserId, userID, tracing.MonthKey, monthKey, tracing.InnerError, err)
		x.metrics.RecordQuotaDecision(OutcomeFailOpen, tier.Key)
		// Actual remaining is unknown here; report the full allowance.
		return &QuotaDecision{Allowed: true, Remaining: tier.MonthlyLimit, TierKey: tier.Key, TierName: tier.DisplayName}, nil
	}

	currentUsage := 0
	if usage != nil {
		currentUsage = usage.TotalCount
	}

	graceBuffer := tier.GraceBuffer
	if !x.flags.IsEnabledDefault(features.FeatureGraceWindow, true) {
		graceBuffer = 0
	}
	totalLimit := tier.MonthlyLimit + graceBuffer

	decision := &QuotaDecision{TierKey: tier.Key, TierName: tier.DisplayName}

	switch {
	case currentUsage >= totalLimit:
		decision.IsBlocked = true
		decision.Message = blockedMessage(tier.DisplayName)

	case currentUsage >= tier.MonthlyLimit:
		// The boundary belongs to the grace band: grace starts exactly at the limit.
		decision.Allowed = true
		decision.IsGrace = true
		decision.Message = graceMessage(totalLimit - currentUsage)

	default:
		decision.Allowed = true
		decision.Remaining = tier.MonthlyLimit - currentUsage
		if decision.Remaining <= x.config.LowRemainingThreshold {
			decision.Message = lowRemainingMessage(decision.Remaining)
		}
	}

	outcome := decision.Outcome()
	x.metrics.RecordQuotaDecision(outcome, tier.Key)

	log.I("Quota evaluated",
		tracing.UserId, userID,
		tracing.MonthKey, monthKey,
		tracing.TierKey, tier.Key,
		tracing.QuotaOutcome, outcome,
		"current_usage", currentUsage,
		"monthly_limit", tier.MonthlyLimit,
		"grace_buffer", graceBuffer,
		"remaining", decision.Remaining,
	)

	return decision, nil
}
