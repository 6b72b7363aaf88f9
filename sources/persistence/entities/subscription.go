package entities

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus = string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionPending   SubscriptionStatus = "pending"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

type Subscription struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_sub_user_created,priority:1" json:"user_id"`
	TierID int64     `gorm:"not null" json:"tier_id"`

	Status    SubscriptionStatus `gorm:"size:20;not null;default:'pending'" json:"status"`
	StartsAt  time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"starts_at"`
	ExpiresAt *time.Time         `json:"expires_at"`

	PromoCodeID *uuid.UUID `gorm:"type:uuid" json:"promo_code_id"`
	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_sub_user_created,priority:2,sort:desc" json:"created_at"`

	Tier      Tier       `gorm:"foreignKey:TierID;references:ID" json:"tier"`
	PromoCode *PromoCode `gorm:"foreignKey:PromoCodeID;references:ID" json:"promo_code"`
}

func (Subscription) TableName() string {
	return "pk_subscriptions"
}
