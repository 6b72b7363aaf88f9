package entitlement

import (
	"errors"
	"time"
	"pawkeeper/sources/metrics"
	"pawkeeper/sources/persistence/entities"
	"pawkeeper/sources/platform"
	"pawkeeper/sources/repository"
	"pawkeeper/sources/tracing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type PromoResolver struct {
	promos  PromoSource
	tiers   TierSource
	metrics *metrics.MetricsService
}

func NewPromoResolver(promos PromoSource, tiers TierSource, metrics *metrics.MetricsService) *PromoResolver {
	return &PromoResolver{promos: promos, tiers: tiers, metrics: metrics}
}

// ValidatePromoCode runs the validation sequence against the target tier's
// price and returns the outcome as data; only infrastructure faults surface
// as errors. It does not record the redemption; that happens atomically with
// subscription activation once payment has actually gone through.
func (x *PromoResolver) ValidatePromoCode(log *tracing.Logger, userID uuid.UUID, code string, targetTierID int64, now time.Time) (*PromoValidation, error) {
	defer tracing.ProfilePoint(log, "Promo validation completed", "entitlement.promo.validate", tracing.UserId, userID)()

	promo, err := x.promos.GetByCode(log, code)
	if err != nil {
		if errors.Is(err, repository.ErrPromoNotFound) {
			return x.failure(log, code, PromoInvalidCode), nil
		}
		return nil, err
	}

	if !platform.BoolValue(promo.IsActive, false) {
		return x.failure(log, promo.Code, PromoInvalidCode), nil
	}

	if promo.ValidUntil != nil && now.After(*promo.ValidUntil) {
		return x.failure(log, promo.Code, PromoExpired), nil
	}

	if promo.ValidFrom != nil && now.Before(*promo.ValidFrom) {
		return x.failure(log, promo.Code, PromoNotYetActive), nil
	}

	if promo.MaxUses != nil && promo.UsedCount >= *promo.MaxUses {
		return x.failure(log, promo.Code, PromoUsageLimitReached), nil
	}

	redeemed, err := x.promos.HasRedemption(log, userID, promo.ID)
	if err != nil {
		return nil, err
	}
	if redeemed {
		return x.failure(log, promo.Code, PromoAlreadyUsed), nil
	}

	tier, err := x.tiers.GetByID(log, targetTierID)
	if err != nil {
		return nil, err
	}

	discountAmount := discountFor(promo, tier.Price)
	finalAmount := decimal.Max(decimal.Zero, tier.Price.Sub(discountAmount))

	x.metrics.RecordPromoValidation("valid")
	log.I("Promo code validated",
		tracing.PromoCodeField, promo.Code,
		tracing.UserId, userID,
		tracing.TierId, targetTierID,
		"discount_kind", promo.Kind,
		"discount_amount", discountAmount.String(),
		"final_amount", finalAmount.String(),
	)

	return &PromoValidation{
		Valid:          true,
		DiscountKind:   promo.Kind,
		DiscountValue:  promo.Value,
		DiscountAmount: discountAmount,
		FinalAmount:    finalAmount,
		DurationMonths: promo.DurationMonths,
		FreeTierID:     promo.FreeTierID,
		Promo:          promo,
	}, nil
}

func discountFor(promo *entities.PromoCode, price decimal.Decimal) decimal.Decimal {
	switch promo.Kind {
	case entities.DiscountPercentage:
		return price.Mul(promo.Value).Div(hundred).Floor()
	case entities.DiscountFixed:
		return decimal.Min(promo.Value, price)
	case entities.DiscountFreeTier:
		return price
	default:
		return decimal.Zero
	}
}

func (x *PromoResolver) failure(log *tracing.Logger, code string, reason PromoFailureReason) *PromoValidation {
	x.metrics.RecordPromoValidation(reason)
	log.I("Promo code rejected", tracing.PromoCodeField, code, tracing.PromoReason, reason)
	return &PromoValidation{Valid: false, Reason: reason}
}
