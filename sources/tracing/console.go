package tracing

import (
	"context"
	"log/slog"
	"os"
	"time"
)

const (
	ExecutionTime  = "exe_time"
	OutsiderKind   = "outsider_kind"
	InnerError     = "inner_error"
	UserId         = "user_id"
	TierKey        = "tier_key"
	TierId         = "tier_id"
	MonthKey       = "month_key"
	UsageCategory  = "usage_category"
	QuotaOutcome   = "quota_outcome"
	SubscriptionId = "subscription_id"
	PromoCodeField = "promo_code"
	PromoReason    = "promo_reason"
	PaymentId      = "payment_id"
	AiKind         = "ai_kind"
	AiModel        = "ai_model"
	SqlQuery       = "sql_query"
	Scope          = "scope"
)

type Logger struct {
	log *slog.Logger
	ctx context.Context
}

func NewConsoleLogger() *Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	logger.InfoContext(ctx, "Initializing logger")
	return &Logger{log: logger, ctx: ctx}
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{log: l.log.With(args...), ctx: l.ctx}
}

func (l *Logger) D(msg string, args ...any) {
	l.log.DebugContext(l.ctx, msg, args...)
}

func (l *Logger) I(msg string, args ...any) {
	l.log.InfoContext(l.ctx, msg, args...)
}

func (l *Logger) W(msg string, args ...any) {
	l.log.WarnContext(l.ctx, msg, args...)
}

func (l *Logger) E(msg string, args ...any) {
	l.log.ErrorContext(l.ctx, msg, args...)
}

func (l *Logger) F(msg string, args ...any) {
	l.log.ErrorContext(l.ctx, msg, args...)
	panic(msg)
}
