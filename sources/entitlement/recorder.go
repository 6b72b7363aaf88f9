package entitlement

import (
	"pawkeeper/sources/metrics"
	"pawkeeper/sources/platform"
	"pawkeeper/sources/tracing"

	"github.com/google/uuid"
)

type UsageRecorder struct {
	usage   UsageSource
	metrics *metrics.MetricsService
}

func NewUsageRecorder(usage UsageSource, metrics *metrics.MetricsService) *UsageRecorder {
	return &UsageRecorder{usage: usage, metrics: metrics}
}

// Record increments the month's ledger for the category. It is called only
// after the gated AI call has succeeded; a recording failure is logged and
// returned but must never be used to unwind the already-delivered response.
func (x *UsageRecorder) Record(log *tracing.Logger, userID uuid.UUID, monthKey MonthKey, category platform.UsageCategory) error {
	if err := x.usage.IncrementOrCreate(log, userID, monthKey.String(), category); err != nil {
		log.E("Failed to record usage", tracing.UserId, userID, tracing.MonthKey, monthKey, tracing.UsageCategory, category, tracing.InnerError, err)
		return err
	}

	x.metrics.RecordUsageRecorded(category)
	log.I("Usage recorded", tracing.UserId, userID, tracing.MonthKey, monthKey, tracing.UsageCategory, category)
	return nil
}
