package entities

import (
	"time"

	"github.com/google/uuid"
)

// UsageRecord is one row per (user, calendar month). total_count is kept
// denormalized so quota reads are a single column fetch; the repository
// increments it in the same statement as the category counter.
type UsageRecord struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_usage_user_month,priority:1" json:"user_id"`
	MonthKey string    `gorm:"size:7;not null;uniqueIndex:idx_usage_user_month,priority:2" json:"month_key"`

	ChatCount     int `gorm:"not null;default:0" json:"chat_count"`
	AnalysisCount int `gorm:"not null;default:0" json:"analysis_count"`
	TotalCount    int `gorm:"not null;default:0" json:"total_count"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (UsageRecord) TableName() string {
	return "pk_usage_records"
}
