package entities

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	TierKeyFree  = "free"
	TierKeyBasic = "basic"
	TierKeyPro   = "pro"
)

type Tier struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Key         string    `gorm:"column:key;not null;index:idx_tier_key_created,priority:1"`
	DisplayName string    `gorm:"column:display_name;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now();index:idx_tier_key_created,priority:2,sort:desc"`

	MonthlyLimit int `gorm:"column:monthly_limit;not null"`
	GraceBuffer  int `gorm:"column:grace_buffer;not null"`

	Price decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null"`

	IsDefault bool  `gorm:"column:is_default;not null;default:false"`
	IsActive  *bool `gorm:"column:is_active;not null;default:true"`

	Features pq.StringArray `gorm:"column:features;type:text[];not null;default:ARRAY[]::text[]"`
}

func (Tier) TableName() string {
	return "pk_tiers"
}
