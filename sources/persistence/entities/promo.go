package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DiscountKind = string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed_amount"
	DiscountFreeTier   DiscountKind = "free_tier"
)

type PromoCode struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Code string    `gorm:"size:50;not null;uniqueIndex" json:"code"`

	Kind  DiscountKind    `gorm:"size:20;not null" json:"kind"`
	Value decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"value"`

	FreeTierID *int64 `gorm:"column:free_tier_id" json:"free_tier_id"`

	IsActive   *bool      `gorm:"not null;default:true" json:"is_active"`
	ValidFrom  *time.Time `json:"valid_from"`
	ValidUntil *time.Time `json:"valid_until"`

	MaxUses   *int `json:"max_uses"`
	UsedCount int  `gorm:"not null;default:0" json:"used_count"`

	DurationMonths int `gorm:"not null;default:1" json:"duration_months"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	FreeTier *Tier `gorm:"foreignKey:FreeTierID;references:ID" json:"free_tier"`
}

func (PromoCode) TableName() string {
	return "pk_promo_codes"
}

type PromoCodeRedemption struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_redemption_user_promo,priority:1" json:"user_id"`
	PromoCodeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_redemption_user_promo,priority:2" json:"promo_code_id"`

	PaymentID *uuid.UUID `gorm:"type:uuid" json:"payment_id"`
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	PromoCode PromoCode `gorm:"foreignKey:PromoCodeID;references:ID" json:"promo_code_entity"`
}

func (PromoCodeRedemption) TableName() string {
	return "pk_promo_code_redemptions"
}
