package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus = string

const (
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
	PaymentWaived    PaymentStatus = "waived"
)

type Payment struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TierID int64     `gorm:"not null" json:"tier_id"`

	Amount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency string          `gorm:"size:3;not null" json:"currency"`
	Status   PaymentStatus   `gorm:"size:20;not null" json:"status"`

	ProviderRef *string   `gorm:"size:255" json:"provider_ref"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Payment) TableName() string {
	return "pk_payments"
}
