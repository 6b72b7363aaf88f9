package collector

import (
	"context"
	"time"
	"pawkeeper/sources/entitlement"
	"pawkeeper/sources/metrics"
	"pawkeeper/sources/repository"
	"pawkeeper/sources/tracing"

	"go.uber.org/fx"
)

type StatsCollector struct {
	log     *tracing.Logger
	metrics *metrics.MetricsService
	usage   *repository.UsageRepository
}

func NewStatsCollector(
	lc fx.Lifecycle,
	log *tracing.Logger,
	metrics *metrics.MetricsService,
	usage *repository.UsageRepository,
) *StatsCollector {
	s := &StatsCollector{
		log:     log,
		metrics: metrics,
		usage:   usage,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go s.start()
			return nil
		},
	})

	return s
}

func (s *StatsCollector) start() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	s.collectStats()

	for range ticker.C {
		s.collectStats()
	}
}

func (s *StatsCollector) collectStats() {
	monthKey := entitlement.CurrentMonthKey().String()

	if count, err := s.usage.GetActiveUsersCount(s.log, monthKey); err == nil {
		s.metrics.SetActiveUsers(count)
	}

	if chat, analysis, total, err := s.usage.GetMonthTotals(s.log, monthKey); err == nil {
		s.metrics.SetMonthCalls(chat, analysis, total)
	}
}
