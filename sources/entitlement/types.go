package entitlement

import (
	"pawkeeper/sources/persistence/entities"
	"pawkeeper/sources/platform"
	"pawkeeper/sources/tracing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Storage surfaces the engine consumes. The gorm repositories satisfy these;
// tests substitute in-memory fakes.
type TierSource interface {
	GetDefault(log *tracing.Logger) (*entities.Tier, error)
	GetByID(log *tracing.Logger, id int64) (*entities.Tier, error)
}

type SubscriptionSource interface {
	GetCurrentForUser(log *tracing.Logger, userID uuid.UUID) (*entities.Subscription, error)
	MarkExpired(log *tracing.Logger, id uuid.UUID) error
}

type UsageSource interface {
	GetForMonth(log *tracing.Logger, userID uuid.UUID, monthKey string) (*entities.UsageRecord, error)
	IncrementOrCreate(log *tracing.Logger, userID uuid.UUID, monthKey string, category platform.UsageCategory) error
}

type PromoSource interface {
	GetByCode(log *tracing.Logger, code string) (*entities.PromoCode, error)
	HasRedemption(log *tracing.Logger, userID uuid.UUID, promoID uuid.UUID) (bool, error)
}

type FeatureChecker interface {
	IsEnabledDefault(featureName string, defaultValue bool) bool
}

type QuotaOutcome = string

const (
	OutcomeAllowed  QuotaOutcome = "allowed"
	OutcomeGrace    QuotaOutcome = "grace"
	OutcomeBlocked  QuotaOutcome = "blocked"
	OutcomeFailOpen QuotaOutcome = "fail_open"
)

// QuotaDecision is a decision, not an error: a denied check flows back to the
// handler as data with a user-facing message.
type QuotaDecision struct {
	Allowed   bool   `json:"allowed"`
	Remaining int    `json:"remaining"`
	IsGrace   bool   `json:"is_grace"`
	IsBlocked bool   `json:"is_blocked"`
	TierKey   string `json:"tier_key"`
	TierName  string `json:"tier_name"`
	Message   string `json:"message,omitempty"`
}

func (d *QuotaDecision) Outcome() QuotaOutcome {
	switch {
	case d.IsBlocked:
		return OutcomeBlocked
	case d.IsGrace:
		return OutcomeGrace
	default:
		return OutcomeAllowed
	}
}

type PromoFailureReason = string

const (
	PromoInvalidCode       PromoFailureReason = "INVALID_CODE"
	PromoExpired           PromoFailureReason = "EXPIRED"
	PromoNotYetActive      PromoFailureReason = "NOT_YET_ACTIVE"
	PromoUsageLimitReached PromoFailureReason = "USAGE_LIMIT_REACHED"
	PromoAlreadyUsed       PromoFailureReason = "ALREADY_USED"
)

type PromoValidation struct {
	Valid  bool               `json:"valid"`
	Reason PromoFailureReason `json:"reason,omitempty"`

	DiscountKind   entities.DiscountKind `json:"discount_kind,omitempty"`
	DiscountValue  decimal.Decimal       `json:"discount_value"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	FinalAmount    decimal.Decimal       `json:"final_amount"`
	DurationMonths int                   `json:"duration_months,omitempty"`
	FreeTierID     *int64                `json:"free_tier_id,omitempty"`

	Promo *entities.PromoCode `json:"-"`
}
