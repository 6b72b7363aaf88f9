package repository

import (
	"context"
	"errors"
	"fmt"
	"time"
	"pawkeeper/sources/persistence/entities"
	"pawkeeper/sources/platform"
	"pawkeeper/sources/tracing"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrTierNotFound     = errors.New("tier not found")
	ErrNoDefaultTier    = errors.New("no default tier configured")
	ErrTierKeyEmpty     = errors.New("tier key cannot be empty")
	ErrTierKeyTooLong   = errors.New("tier key cannot exceed 50 characters")
	ErrTierNameEmpty    = errors.New("tier display name cannot be empty")
	ErrTierNameTooLong  = errors.New("tier display name cannot exceed 100 characters")
	ErrTierInvalidLimit = errors.New("limit values must be non-negative")
)

type TiersRepository struct {
	db *gorm.DB
}

func NewTiersRepository(db *gorm.DB) *TiersRepository {
	return &TiersRepository{db: db}
}

func (x *TiersRepository) GetLatestByKey(log *tracing.Logger, key string) (*entities.Tier, error) {
	defer tracing.ProfilePoint(log, "Tiers get latest by key completed", "repository.tiers.get.latest.by.key", tracing.TierKey, key)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var tier entities.Tier
	err := x.db.WithContext(ctx).
		Where("key = ?", key).
		Order("created_at DESC").
		First(&tier).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTierNotFound
		}
		return nil, fmt.Errorf("failed to get latest tier for key %s: %w", key, err)
	}

	return &tier, nil
}

func (x *TiersRepository) GetByID(log *tracing.Logger, id int64) (*entities.Tier, error) {
	defer tracing.ProfilePoint(log, "Tiers get by id completed", "repository.tiers.get.by.id", tracing.TierId, id)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var tier entities.Tier
	err := x.db.WithContext(ctx).First(&tier, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTierNotFound
		}
		return nil, fmt.Errorf("failed to get tier %d: %w", id, err)
	}

	return &tier, nil
}

// GetDefault returns the catalog's designated default tier. Its absence is a
// configuration fault, not a storage miss; callers translate ErrNoDefaultTier
// into a ConfigurationError.
func (x *TiersRepository) GetDefault(log *tracing.Logger) (*entities.Tier, error) {
	defer tracing.ProfilePoint(log, "Tiers get default completed", "repository.tiers.get.default")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var tier entities.Tier
	err := x.db.WithContext(ctx).
		Where("is_default = ?", true).
		Order("created_at DESC").
		First(&tier).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoDefaultTier
		}
		return nil, fmt.Errorf("failed to get default tier: %w", err)
	}

	return &tier, nil
}

func (x *TiersRepository) GetAllLatest(log *tracing.Logger) ([]*entities.Tier, error) {
	defer tracing.ProfilePoint(log, "Tiers get all latest completed", "repository.tiers.get.all.latest")()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var tiers []*entities.Tier
	err := x.db.WithContext(ctx).
		Order("key, created_at DESC").
		Find(&tiers).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get all tiers: %w", err)
	}

	// Filter to get only the latest for each key
	latestMap := make(map[string]*entities.Tier)
	for _, tier := range tiers {
		if _, exists := latestMap[tier.Key]; !exists {
			latestMap[tier.Key] = tier
		}
	}

	result := make([]*entities.Tier, 0, len(latestMap))
	for _, tier := range latestMap {
		if platform.BoolValue(tier.IsActive, true) {
			result = append(result, tier)
		}
	}

	return result, nil
}

type TierConfig struct {
	DisplayName string `json:"display_name"`

	MonthlyLimit int `json:"monthly_limit"`
	GraceBuffer  int `json:"grace_buffer"`

	Price string `json:"price"`

	IsDefault bool     `json:"is_default"`
	Features  []string `json:"features"`
}

func (x *TiersRepository) CreateTier(log *tracing.Logger, key string, config *TierConfig) (*entities.Tier, error) {
	defer tracing.ProfilePoint(log, "Tiers create tier completed", "repository.tiers.create", tracing.TierKey, key)()

	if key == "" {
		return nil, ErrTierKeyEmpty
	}
	if len(key) > 50 {
		return nil, ErrTierKeyTooLong
	}

	if config.DisplayName == "" {
		return nil, ErrTierNameEmpty
	}
	if len(config.DisplayName) > 100 {
		return nil, ErrTierNameTooLong
	}

	if config.MonthlyLimit < 0 || config.GraceBuffer < 0 {
		return nil, ErrTierInvalidLimit
	}

	price, err := decimal.NewFromString(config.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid price: %w", err)
	}
	if price.IsNegative() {
		return nil, ErrTierInvalidLimit
	}

	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	tier := &entities.Tier{
		Key:          key,
		DisplayName:  config.DisplayName,
		MonthlyLimit: config.MonthlyLimit,
		GraceBuffer:  config.GraceBuffer,
		Price:        price,
		IsDefault:    config.IsDefault,
		IsActive:     platform.BoolPtr(true),
		Features:     pq.StringArray(config.Features),
	}

	if err := x.db.WithContext(ctx).Create(tier).Error; err != nil {
		log.E("Failed to create tier", tracing.InnerError, err)
		return nil, err
	}

	log.I("Created tier", tracing.TierKey, key, tracing.TierId, tier.ID)
	return tier, nil
}
