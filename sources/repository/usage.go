package repository

import (
	"context"
	"errors"
	"fmt"
	"time"
	"pawkeeper/sources/persistence/entities"
	"pawkeeper/sources/platform"
	"pawkeeper/sources/tracing"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUnknownCategory = errors.New("unknown usage category")

type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// GetForMonth returns the user's usage row for the month, or nil when the user
// has not consumed anything yet. Months with zero usage have no row at all.
func (x *UsageRepository) GetForMonth(log *tracing.Logger, userID uuid.UUID, monthKey string) (*entities.UsageRecord, error) {
	defer tracing.ProfilePoint(log, "Usage get for month completed", "repository.usage.get.for.month", tracing.UserId, userID, tracing.MonthKey, monthKey)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var record entities.UsageRecord
	err := x.db.WithContext(ctx).
		Where("user_id = ? AND month_key = ?", userID, monthKey).
		First(&record).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get usage for user %s month %s: %w", userID, monthKey, err)
	}

	return &record, nil
}

// IncrementOrCreate bumps the month's counter for the category in a single
// INSERT ... ON CONFLICT DO UPDATE statement. Category and total move
// together, and two concurrent increments for the same (user, month) both
// land; no read-modify-write cycle is involved.
func (x *UsageRepository) IncrementOrCreate(log *tracing.Logger, userID uuid.UUID, monthKey string, category platform.UsageCategory) error {
	defer tracing.ProfilePoint(log, "Usage increment completed", "repository.usage.increment", tracing.UserId, userID, tracing.MonthKey, monthKey, tracing.UsageCategory, category)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	record := &entities.UsageRecord{
		UserID:     userID,
		MonthKey:   monthKey,
		TotalCount: 1,
	}

	switch category {
	case platform.CategoryChat:
		record.ChatCount = 1
	case platform.CategoryAnalysis:
		record.AnalysisCount = 1
	default:
		return ErrUnknownCategory
	}

	err := x.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "month_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"chat_count":     gorm.Expr("pk_usage_records.chat_count + EXCLUDED.chat_count"),
			"analysis_count": gorm.Expr("pk_usage_records.analysis_count + EXCLUDED.analysis_count"),
			"total_count":    gorm.Expr("pk_usage_records.total_count + EXCLUDED.total_count"),
			"updated_at":     gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(record).Error

	if err != nil {
		log.E("Failed to increment usage", tracing.InnerError, err)
		return err
	}

	return nil
}

func (x *UsageRepository) GetMonthTotals(log *tracing.Logger, monthKey string) (chat int64, analysis int64, total int64, err error) {
	defer tracing.ProfilePoint(log, "Usage get month totals completed", "repository.usage.get.month.totals", tracing.MonthKey, monthKey)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	row := x.db.WithContext(ctx).
		Model(&entities.UsageRecord{}).
		Where("month_key = ?", monthKey).
		Select("COALESCE(SUM(chat_count), 0), COALESCE(SUM(analysis_count), 0), COALESCE(SUM(total_count), 0)").
		Row()

	if err = row.Scan(&chat, &analysis, &total); err != nil {
		log.E("Failed to get month totals", tracing.InnerError, err)
		return 0, 0, 0, err
	}

	return chat, analysis, total, nil
}

func (x *UsageRepository) GetActiveUsersCount(log *tracing.Logger, monthKey string) (int64, error) {
	defer tracing.ProfilePoint(log, "Usage get active users count completed", "repository.usage.get.active.users.count", tracing.MonthKey, monthKey)()
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 20*time.Second)
	defer cancel()

	var count int64
	err := x.db.WithContext(ctx).
		Model(&entities.UsageRecord{}).
		Where("month_key = ? AND total_count > 0", monthKey).
		Count(&count).Error

	if err != nil {
		log.E("Failed to get active users count", tracing.InnerError, err)
		return 0, err
	}

	return count, nil
}
