package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"pawkeeper/sources/persistence/entities"
	"pawkeeper/sources/platform"
	"pawkeeper/sources/tracing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrPromoNotFound = errors.New("promo code not found")

type PromoCodesRepository struct {
	db *gorm.DB
}

func NewPromoCodesRepository(db *gorm.DB) *PromoCodesRepository {
	return &PromoCodesRepository{db: db}
}

// NormalizeCode is the canonical form codes are stored and looked up in.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (x *PromoCodesRepository) GetByCode(log *tracing.Logger, code string) (*entities.PromoCode, error) {
	normalized := NormalizeCode(code)
	defer tracing.ProfilePoint(log, "Promo codes get by code completed", "repository.promocodes.get.by.code", tracing.PromoCodeField, normalized)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var promo entities.PromoCode
	err := x.db.WithContext(ctx).
		Where("code = ?", normalized).
		First(&promo).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromoNotFound
		}
		return nil, fmt.Errorf("failed to get promo code %s: %w", normalized, err)
	}

	return &promo, nil
}

func (x *PromoCodesRepository) HasRedemption(log *tracing.Logger, userID uuid.UUID, promoID uuid.UUID) (bool, error) {
	defer tracing.ProfilePoint(log, "Promo codes has redemption completed", "repository.promocodes.has.redemption", tracing.UserId, userID)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var count int64
	err := x.db.WithContext(ctx).
		Model(&entities.PromoCodeRedemption{}).
		Where("user_id = ? AND promo_code_id = ?", userID, promoID).
		Count(&count).Error

	if err != nil {
		log.E("Failed to check promo redemption", tracing.InnerError, err)
		return false, err
	}

	return count > 0, nil
}

type PromoConfig struct {
	Kind           entities.DiscountKind `json:"kind"`
	Value          string                `json:"value"`
	FreeTierID     *int64                `json:"free_tier_id"`
	ValidFrom      *time.Time            `json:"valid_from"`
	ValidUntil     *time.Time            `json:"valid_until"`
	MaxUses        *int                  `json:"max_uses"`
	DurationMonths int                   `json:"duration_months"`
}

func (x *PromoCodesRepository) CreatePromoCode(log *tracing.Logger, code string, config *PromoConfig) (*entities.PromoCode, error) {
	normalized := NormalizeCode(code)
	defer tracing.ProfilePoint(log, "Promo codes create completed", "repository.promocodes.create", tracing.PromoCodeField, normalized)()

	if normalized == "" {
		return nil, errors.New("promo code cannot be empty")
	}

	value, err := decimal.NewFromString(config.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid discount value: %w", err)
	}

	duration := config.DurationMonths
	if duration <= 0 {
		duration = 1
	}

	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	promo := &entities.PromoCode{
		Code:           normalized,
		Kind:           config.Kind,
		Value:          value,
		FreeTierID:     config.FreeTierID,
		IsActive:       platform.BoolPtr(true),
		ValidFrom:      config.ValidFrom,
		ValidUntil:     config.ValidUntil,
		MaxUses:        config.MaxUses,
		DurationMonths: duration,
	}

	if err := x.db.WithContext(ctx).Create(promo).Error; err != nil {
		log.E("Failed to create promo code", tracing.InnerError, err)
		return nil, err
	}

	log.I("Created promo code", tracing.PromoCodeField, normalized)
	return promo, nil
}
