package entitlement

import (
	"pawkeeper/sources/persistence/entities"
	"pawkeeper/sources/platform"
	"pawkeeper/sources/repository"
	"pawkeeper/sources/tracing"

	"github.com/google/uuid"
)

type fakeTiers struct {
	def      *entities.Tier
	defErr   error
	byID     map[int64]*entities.Tier
	byIDErr  error
	defCalls int
}

func (f *fakeTiers) GetDefault(log *tracing.Logger) (*entities.Tier, error) {
	f.defCalls++
	if f.defErr != nil {
		return nil, f.defErr
	}
	return f.def, nil
}

func (f *fakeTiers) GetByID(log *tracing.Logger, id int64) (*entities.Tier, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	if tier, ok := f.byID[id]; ok {
		return tier, nil
	}
	return nil, repository.ErrTierNotFound
}

type fakeSubs struct {
	sub     *entities.Subscription
	err     error
	expired []uuid.UUID
}

func (f *fakeSubs) GetCurrentForUser(log *tracing.Logger, userID uuid.UUID) (*entities.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sub, nil
}

func (f *fakeSubs) MarkExpired(log *tracing.Logger, id uuid.UUID) error {
	f.expired = append(f.expired, id)
	return nil
}

type fakeUsage struct {
	record     *entities.UsageRecord
	getErr     error
	incErr     error
	increments []platform.UsageCategory
}

func (f *fakeUsage) GetForMonth(log *tracing.Logger, userID uuid.UUID, monthKey string) (*entities.UsageRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.record, nil
}

func (f *fakeUsage) IncrementOrCreate(log *tracing.Logger, userID uuid.UUID, monthKey string, category platform.UsageCategory) error {
	if f.incErr != nil {
		return f.incErr
	}
	f.increments = append(f.increments, category)
	return nil
}

// fakeCountingUsage mirrors the upsert arithmetic of the real store: the
// category counter and the running total move together, and the first
// increment for a (user, month) pair creates the row.
type fakeCountingUsage struct {
	records map[string]*entities.UsageRecord
}

func usageKey(userID uuid.UUID, monthKey string) string {
	return userID.String() + "/" + monthKey
}

func (f *fakeCountingUsage) GetForMonth(log *tracing.Logger, userID uuid.UUID, monthKey string) (*entities.UsageRecord, error) {
	return f.records[usageKey(userID, monthKey)], nil
}

func (f *fakeCountingUsage) IncrementOrCreate(log *tracing.Logger, userID uuid.UUID, monthKey string, category platform.UsageCategory) error {
	if f.records == nil {
		f.records = make(map[string]*entities.UsageRecord)
	}

	key := usageKey(userID, monthKey)
	record, ok := f.records[key]
	if !ok {
		record = &entities.UsageRecord{UserID: userID, MonthKey: monthKey}
		f.records[key] = record
	}

	switch category {
	case platform.CategoryChat:
		record.ChatCount++
	case platform.CategoryAnalysis:
		record.AnalysisCount++
	default:
		return repository.ErrUnknownCategory
	}

	record.TotalCount++
	return nil
}

type fakePromos struct {
	codes     map[string]*entities.PromoCode
	getErr    error
	redeemed  map[uuid.UUID]bool
	redeemErr error
	notFound  error
}

func (f *fakePromos) GetByCode(log *tracing.Logger, code string) (*entities.PromoCode, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if promo, ok := f.codes[code]; ok {
		return promo, nil
	}
	return nil, f.notFound
}

func (f *fakePromos) HasRedemption(log *tracing.Logger, userID uuid.UUID, promoID uuid.UUID) (bool, error) {
	if f.redeemErr != nil {
		return false, f.redeemErr
	}
	return f.redeemed[promoID], nil
}

type fakeFlags struct {
	overrides map[string]bool
}

func (f *fakeFlags) IsEnabledDefault(featureName string, defaultValue bool) bool {
	if v, ok := f.overrides[featureName]; ok {
		return v
	}
	return defaultValue
}
