package metrics

import (
	"time"
	"pawkeeper/sources/tracing"

	"github.com/prometheus/client_golang/prometheus"
)

type MetricsService struct {
	log *tracing.Logger
}

var (
	quotaDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawkeeper_quota_decisions_total",
			Help: "Total number of quota gate decisions",
		},
		[]string{"outcome", "tier"},
	)

	usageRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawkeeper_usage_recorded_total",
			Help: "Total number of AI calls recorded to the usage ledger",
		},
		[]string{"category"},
	)

	promoValidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawkeeper_promo_validations_total",
			Help: "Total number of promo code validations by result",
		},
		[]string{"result"},
	)

	purchases = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawkeeper_purchases_total",
			Help: "Total number of subscription purchase attempts",
		},
		[]string{"status"},
	)

	assistantRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pawkeeper_assistant_request_duration_seconds",
			Help:    "Duration of AI provider requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)

	statsActiveUsers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pawkeeper_stats_active_users",
			Help: "Users with recorded AI usage in the current month",
		},
	)

	statsMonthChatCalls = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pawkeeper_stats_month_chat_calls",
			Help: "Chat calls recorded in the current month",
		},
	)

	statsMonthAnalysisCalls = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pawkeeper_stats_month_analysis_calls",
			Help: "Document analysis calls recorded in the current month",
		},
	)

	statsMonthTotalCalls = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pawkeeper_stats_month_total_calls",
			Help: "All AI calls recorded in the current month",
		},
	)
)

func init() {
	prometheus.MustRegister(quotaDecisions)
	prometheus.MustRegister(usageRecorded)
	prometheus.MustRegister(promoValidations)
	prometheus.MustRegister(purchases)
	prometheus.MustRegister(assistantRequestDuration)
	prometheus.MustRegister(statsActiveUsers)
	prometheus.MustRegister(statsMonthChatCalls)
	prometheus.MustRegister(statsMonthAnalysisCalls)
	prometheus.MustRegister(statsMonthTotalCalls)
}

func NewMetricsService(log *tracing.Logger) *MetricsService {
	return &MetricsService{
		log: log,
	}
}

func (s *MetricsService) RecordQuotaDecision(outcome string, tier string) {
	quotaDecisions.WithLabelValues(outcome, tier).Inc()
}

func (s *MetricsService) RecordUsageRecorded(category string) {
	usageRecorded.WithLabelValues(category).Inc()
}

func (s *MetricsService) RecordPromoValidation(result string) {
	promoValidations.WithLabelValues(result).Inc()
}

func (s *MetricsService) RecordPurchase(status string) {
	purchases.WithLabelValues(status).Inc()
}

func (s *MetricsService) ObserveAssistantRequest(model string, duration time.Duration) {
	assistantRequestDuration.WithLabelValues(model).Observe(duration.Seconds())
}

func (s *MetricsService) SetActiveUsers(count int64) {
	statsActiveUsers.Set(float64(count))
}

func (s *MetricsService) SetMonthCalls(chat, analysis, total int64) {
	statsMonthChatCalls.Set(float64(chat))
	statsMonthAnalysisCalls.Set(float64(analysis))
	statsMonthTotalCalls.Set(float64(total))
}
