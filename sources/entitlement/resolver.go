package entitlement

import (
	"errors"
	"fmt"
	"time"
	"pawkeeper/sources/persistence/entities"
	"pawkeeper/sources/repository"
	"pawkeeper/sources/tracing"

	"github.com/google/uuid"
)

type EntitlementResolver struct {
	tiers TierSource
	subs  SubscriptionSource
}

func NewEntitlementResolver(tiers TierSource, subs SubscriptionSource) *EntitlementResolver {
	return &EntitlementResolver{tiers: tiers, subs: subs}
}

// ResolveTier returns the tier governing the user's allowances right now: the
// tier of the most recent active subscription, or the catalog default when the
// user has none. Expiry is enforced here at read time: a status='active' row
// past its expires_at does not grant its tier, and the stale status is flipped
// best-effort.
//
// The default fallback applies only when the user verifiably has no current
// subscription. A transient store fault surfaces to the caller instead, so
// the gate can fail open rather than judge a paying user by free-tier limits.
func (x *EntitlementResolver) ResolveTier(log *tracing.Logger, userID uuid.UUID, now time.Time) (*entities.Tier, error) {
	defer tracing.ProfilePoint(log, "Entitlement resolve tier completed", "entitlement.resolver.resolve.tier", tracing.UserId, userID)()

	sub, err := x.subs.GetCurrentForUser(log, userID)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return x.defaultTier(log)
		}
		log.E("Failed to read subscription", tracing.UserId, userID, tracing.InnerError, err)
		return nil, fmt.Errorf("failed to read current subscription for user %s: %w", userID, err)
	}

	if sub.ExpiresAt != nil && now.After(*sub.ExpiresAt) {
		log.I("Subscription past expiry at read time", tracing.SubscriptionId, sub.ID, "expires_at", sub.ExpiresAt)
		if err := x.subs.MarkExpired(log, sub.ID); err != nil {
			log.E("Failed to flip expired subscription status", tracing.SubscriptionId, sub.ID, tracing.InnerError, err)
		}
		return x.defaultTier(log)
	}

	if sub.Tier.ID != 0 {
		return &sub.Tier, nil
	}

	tier, err := x.tiers.GetByID(log, sub.TierID)
	if err != nil {
		log.E("Failed to load tier for active subscription", tracing.TierId, sub.TierID, tracing.InnerError, err)
		return nil, fmt.Errorf("failed to load tier %d for active subscription: %w", sub.TierID, err)
	}

	return tier, nil
}

func (x *EntitlementResolver) defaultTier(log *tracing.Logger) (*entities.Tier, error) {
	tier, err := x.tiers.GetDefault(log)
	if err != nil {
		if errors.Is(err, repository.ErrNoDefaultTier) {
			return nil, &ConfigurationError{Reason: "catalog has no default tier", Err: err}
		}
		return nil, fmt.Errorf("failed to read default tier: %w", err)
	}
	return tier, nil
}
