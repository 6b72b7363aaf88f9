package billing

import (
	"fmt"
	"time"
	"pawkeeper/sources/configuration"
	"pawkeeper/sources/entitlement"
	"pawkeeper/sources/features"
	"pawkeeper/sources/metrics"
	"pawkeeper/sources/persistence/entities"
	"pawkeeper/sources/tracing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PromoRejectedError is returned when the submitted code fails validation. The
// reason inside is one of the stable machine-readable promo failure reasons,
// safe to surface to the client as-is.
type PromoRejectedError struct {
	Reason entitlement.PromoFailureReason
}

func (e *PromoRejectedError) Error() string {
	return fmt.Sprintf("promo code rejected: %s", e.Reason)
}

func IsPromoRejected(err error) (*PromoRejectedError, bool) {
	rejected, ok := err.(*PromoRejectedError)
	return rejected, ok
}

type TierStore interface {
	GetByID(log *tracing.Logger, id int64) (*entities.Tier, error)
}

type SubscriptionStore interface {
	ActivateWithPromo(log *tracing.Logger, sub *entities.Subscription, promo *entities.PromoCode, paymentID *uuid.UUID) error
}

type PaymentStore interface {
	Create(log *tracing.Logger, payment *entities.Payment) error
}

type PromoValidator interface {
	ValidatePromoCode(log *tracing.Logger, userID uuid.UUID, code string, targetTierID int64, now time.Time) (*entitlement.PromoValidation, error)
}

type FeatureChecker interface {
	IsEnabledDefault(featureName string, defaultValue bool) bool
}

type PurchaseService struct {
	tiers     TierStore
	subs      SubscriptionStore
	payments  PaymentStore
	promo     PromoValidator
	processor PaymentProcessor
	flags     FeatureChecker
	metrics   *metrics.MetricsService
	currency  string
}

func NewPurchaseService(tiers TierStore, subs SubscriptionStore, payments PaymentStore, promo PromoValidator, processor PaymentProcessor, flags FeatureChecker, metrics *metrics.MetricsService, config *configuration.Config) *PurchaseService {
	currency := config.Billing.Currency
	if currency == "" {
		currency = "USD"
	}
	return &PurchaseService{
		tiers:     tiers,
		subs:      subs,
		payments:  payments,
		promo:     promo,
		processor: processor,
		flags:     flags,
		metrics:   metrics,
		currency:  currency,
	}
}

// Purchase charges the user for the tier and activates the subscription. When
// a promo code is supplied it is re-validated here, at redemption time, so a
// code that went stale between preview and checkout is rejected instead of
// silently billed at an outdated price. Charge and activation are ordered so
// that a failed charge never activates, and the promo redemption itself is
// committed atomically with the subscription row.
func (x *PurchaseService) Purchase(log *tracing.Logger, userID uuid.UUID, tierID int64, promoCode string, now time.Time) (*entities.Subscription, error) {
	defer tracing.ProfilePoint(log, "Purchase completed", "billing.purchase", tracing.UserId, userID, tracing.TierId, tierID)()

	tier, err := x.tiers.GetByID(log, tierID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tier %d for purchase: %w", tierID, err)
	}

	amount := tier.Price
	grantTierID := tier.ID
	months := 1

	var validation *entitlement.PromoValidation
	if promoCode != "" {
		if !x.flags.IsEnabledDefault(features.FeaturePromoRedemption, true) {
			log.W("Promo redemption disabled by feature flag, ignoring code", tracing.UserId, userID, tracing.PromoCodeField, promoCode)
		} else {
			validation, err = x.promo.ValidatePromoCode(log, userID, promoCode, tier.ID, now)
			if err != nil {
				return nil, err
			}
			if !validation.Valid {
				return nil, &PromoRejectedError{Reason: validation.Reason}
			}
			amount = validation.FinalAmount
			if validation.DiscountKind == entities.DiscountFreeTier && validation.FreeTierID != nil {
				grantTierID = *validation.FreeTierID
			}
			if validation.DurationMonths > 0 {
				months = validation.DurationMonths
			}
		}
	}

	payment := &entities.Payment{
		UserID:   userID,
		TierID:   grantTierID,
		Amount:   amount,
		Currency: x.currency,
		Status:   entities.PaymentWaived,
	}

	if amount.GreaterThan(decimal.Zero) {
		providerRef, chargeErr := x.processor.Charge(log, userID, grantTierID, amount, x.currency)
		if chargeErr != nil {
			payment.Status = entities.PaymentFailed
			if err := x.payments.Create(log, payment); err != nil {
				log.E("Failed to record declined payment", tracing.InnerError, err)
			}
			x.metrics.RecordPurchase(entities.PaymentFailed)
			return nil, fmt.Errorf("payment failed: %w", chargeErr)
		}
		payment.Status = entities.PaymentSucceeded
		payment.ProviderRef = &providerRef
	}

	if err := x.payments.Create(log, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	expiresAt := now.AddDate(0, months, 0)
	sub := &entities.Subscription{
		UserID:    userID,
		TierID:    grantTierID,
		Status:    entities.SubscriptionActive,
		StartsAt:  now,
		ExpiresAt: &expiresAt,
	}

	var promo *entities.PromoCode
	if validation != nil {
		promo = validation.Promo
		sub.PromoCodeID = &promo.ID
	}

	if err := x.subs.ActivateWithPromo(log, sub, promo, &payment.ID); err != nil {
		if payment.Status == entities.PaymentSucceeded {
			log.E("Charge succeeded but activation failed, manual reconciliation needed", tracing.UserId, userID, tracing.PaymentId, payment.ID, tracing.InnerError, err)
		}
		return nil, err
	}

	x.metrics.RecordPurchase(payment.Status)
	log.I("Purchase completed", tracing.UserId, userID, tracing.SubscriptionId, sub.ID, tracing.TierId, grantTierID, "amount", amount.String(), "status", payment.Status)
	return sub, nil
}
