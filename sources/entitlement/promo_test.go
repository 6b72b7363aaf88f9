package entitlement

import (
	"testing"
	"time"
	"pawkeeper/sources/metrics"
	"pawkeeper/sources/persistence/entities"
	"pawkeeper/sources/platform"
	"pawkeeper/sources/repository"
	"pawkeeper/sources/tracing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newPromoResolver(promos *fakePromos, tiers *fakeTiers) *PromoResolver {
	return NewPromoResolver(promos, tiers, metrics.NewMetricsService(tracing.NewConsoleLogger()))
}

func percentPromo(code string, percent int64) *entities.PromoCode {
	return &entities.PromoCode{
		ID:             uuid.New(),
		Code:           code,
		Kind:           entities.DiscountPercentage,
		Value:          decimal.NewFromInt(percent),
		IsActive:       platform.BoolPtr(true),
		DurationMonths: 1,
	}
}

func proTierPriced(price int64) *entities.Tier {
	return &entities.Tier{
		ID:           3,
		Key:          entities.TierKeyPro,
		DisplayName:  "Pro",
		MonthlyLimit: 500,
		Price:        decimal.NewFromInt(price),
	}
}

func TestValidatePromoCodeFailureSequence(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, -1, 0)
	future := now.AddDate(0, 1, 0)

	expired := percentPromo("OLD20", 20)
	expired.ValidUntil = &past

	// Both expired and exhausted; expiry must win because it is checked first.
	expiredAndExhausted := percentPromo("DEAD20", 20)
	expiredAndExhausted.ValidUntil = &past
	expiredAndExhausted.MaxUses = platform.IntPtr(1)
	expiredAndExhausted.UsedCount = 1

	notYet := percentPromo("SOON20", 20)
	notYet.ValidFrom = &future

	exhausted := percentPromo("GONE20", 20)
	exhausted.MaxUses = platform.IntPtr(100)
	exhausted.UsedCount = 100

	inactive := percentPromo("OFF20", 20)
	inactive.IsActive = platform.BoolPtr(false)

	used := percentPromo("USED20", 20)

	tests := []struct {
		name       string
		code       string
		wantReason PromoFailureReason
	}{
		{name: "unknown code", code: "NOPE", wantReason: PromoInvalidCode},
		{name: "inactive code", code: "OFF20", wantReason: PromoInvalidCode},
		{name: "expired code", code: "OLD20", wantReason: PromoExpired},
		{name: "expired wins over exhausted", code: "DEAD20", wantReason: PromoExpired},
		{name: "not yet active", code: "SOON20", wantReason: PromoNotYetActive},
		{name: "usage limit reached", code: "GONE20", wantReason: PromoUsageLimitReached},
		{name: "already redeemed by user", code: "USED20", wantReason: PromoAlreadyUsed},
	}

	promos := &fakePromos{
		codes: map[string]*entities.PromoCode{
			"OLD20":  expired,
			"DEAD20": expiredAndExhausted,
			"SOON20": notYet,
			"GONE20": exhausted,
			"OFF20":  inactive,
			"USED20": used,
		},
		redeemed: map[uuid.UUID]bool{used.ID: true},
		notFound: repository.ErrPromoNotFound,
	}
	tier := proTierPriced(100000)
	resolver := newPromoResolver(promos, &fakeTiers{byID: map[int64]*entities.Tier{tier.ID: tier}})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validation, err := resolver.ValidatePromoCode(tracing.NewConsoleLogger(), uuid.New(), tt.code, tier.ID, now)
			require.NoError(t, err)
			require.False(t, validation.Valid)
			require.Equal(t, tt.wantReason, validation.Reason)
		})
	}
}

func TestValidatePromoCodeDiscountArithmetic(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	fixed := &entities.PromoCode{
		ID:       uuid.New(),
		Code:     "FLAT",
		Kind:     entities.DiscountFixed,
		Value:    decimal.NewFromInt(150000),
		IsActive: platform.BoolPtr(true),
	}
	freeTierID := int64(1)
	freebie := &entities.PromoCode{
		ID:             uuid.New(),
		Code:           "FREEBIE",
		Kind:           entities.DiscountFreeTier,
		Value:          decimal.Zero,
		FreeTierID:     &freeTierID,
		IsActive:       platform.BoolPtr(true),
		DurationMonths: 3,
	}

	tests := []struct {
		name         string
		promo        *entities.PromoCode
		price        int64
		wantDiscount string
		wantFinal    string
	}{
		{name: "twenty percent", promo: percentPromo("SAVE20", 20), price: 100000, wantDiscount: "20000", wantFinal: "80000"},
		{name: "percentage floors fractional result", promo: percentPromo("SAVE33", 33), price: 9999, wantDiscount: "3299", wantFinal: "6700"},
		{name: "fixed amount clamps at price", promo: fixed, price: 100000, wantDiscount: "100000", wantFinal: "0"},
		{name: "free tier waives the full price", promo: freebie, price: 100000, wantDiscount: "100000", wantFinal: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := proTierPriced(tt.price)
			promos := &fakePromos{
				codes:    map[string]*entities.PromoCode{tt.promo.Code: tt.promo},
				redeemed: map[uuid.UUID]bool{},
				notFound: repository.ErrPromoNotFound,
			}
			resolver := newPromoResolver(promos, &fakeTiers{byID: map[int64]*entities.Tier{tier.ID: tier}})

			validation, err := resolver.ValidatePromoCode(tracing.NewConsoleLogger(), uuid.New(), tt.promo.Code, tier.ID, now)
			require.NoError(t, err)
			require.True(t, validation.Valid)
			require.Equal(t, tt.wantDiscount, validation.DiscountAmount.String())
			require.Equal(t, tt.wantFinal, validation.FinalAmount.String())
		})
	}
}

func TestValidatePromoCodeIsReadOnly(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	promo := percentPromo("SAVE20", 20)
	promo.MaxUses = platform.IntPtr(5)
	tier := proTierPriced(100000)

	promos := &fakePromos{
		codes:    map[string]*entities.PromoCode{"SAVE20": promo},
		redeemed: map[uuid.UUID]bool{},
		notFound: repository.ErrPromoNotFound,
	}
	resolver := newPromoResolver(promos, &fakeTiers{byID: map[int64]*entities.Tier{tier.ID: tier}})

	userID := uuid.New()
	first, err := resolver.ValidatePromoCode(tracing.NewConsoleLogger(), userID, "SAVE20", tier.ID, now)
	require.NoError(t, err)
	second, err := resolver.ValidatePromoCode(tracing.NewConsoleLogger(), userID, "SAVE20", tier.ID, now)
	require.NoError(t, err)

	// Validation previews; it never consumes. Both calls see the same state.
	require.True(t, first.Valid)
	require.True(t, second.Valid)
	require.Equal(t, 0, promo.UsedCount)
	require.Equal(t, first.FinalAmount.String(), second.FinalAmount.String())
}

func TestValidatePromoCodeFreeTierCarriesGrant(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	freeTierID := int64(7)
	promo := &entities.PromoCode{
		ID:             uuid.New(),
		Code:           "TRIAL",
		Kind:           entities.DiscountFreeTier,
		Value:          decimal.Zero,
		FreeTierID:     &freeTierID,
		IsActive:       platform.BoolPtr(true),
		DurationMonths: 2,
	}
	tier := proTierPriced(50000)

	promos := &fakePromos{
		codes:    map[string]*entities.PromoCode{"TRIAL": promo},
		redeemed: map[uuid.UUID]bool{},
		notFound: repository.ErrPromoNotFound,
	}
	resolver := newPromoResolver(promos, &fakeTiers{byID: map[int64]*entities.Tier{tier.ID: tier}})

	validation, err := resolver.ValidatePromoCode(tracing.NewConsoleLogger(), uuid.New(), "TRIAL", tier.ID, now)
	require.NoError(t, err)
	require.True(t, validation.Valid)
	require.NotNil(t, validation.FreeTierID)
	require.Equal(t, freeTierID, *validation.FreeTierID)
	require.Equal(t, 2, validation.DurationMonths)
	require.True(t, validation.FinalAmount.IsZero())
}
