package assistant

import (
	"errors"
	"time"
	"pawkeeper/sources/entitlement"
	"pawkeeper/sources/features"
	"pawkeeper/sources/platform"
	"pawkeeper/sources/tracing"

	"github.com/google/uuid"
)

var ErrAnalysisDisabled = errors.New("document analysis is disabled")

type QuotaChecker interface {
	CheckQuota(log *tracing.Logger, userID uuid.UUID, now time.Time, monthKey entitlement.MonthKey) (*entitlement.QuotaDecision, error)
}

type UsageWriter interface {
	Record(log *tracing.Logger, userID uuid.UUID, monthKey entitlement.MonthKey, category platform.UsageCategory) error
}

type ThrottleChecker interface {
	IsAllowed(userID uuid.UUID) bool
}

type Provider interface {
	Chat(log *tracing.Logger, question string) (string, error)
	AnalyzeDocument(log *tracing.Logger, imageURL string, question string) (string, error)
}

type FeatureChecker interface {
	IsEnabledDefault(featureName string, defaultValue bool) bool
}

// AssistantReply is what the handler renders. A throttled or quota-denied
// request is a normal reply with an empty answer, never an error.
type AssistantReply struct {
	Answer    string                     `json:"answer,omitempty"`
	Throttled bool                       `json:"throttled,omitempty"`
	Decision  *entitlement.QuotaDecision `json:"decision"`
}

// Orchestrator runs the full request pipeline: throttle, quota gate, model
// call, usage record. The gate decides, the orchestrator only sequences.
type Orchestrator struct {
	throttler ThrottleChecker
	gate      QuotaChecker
	recorder  UsageWriter
	provider  Provider
	flags     FeatureChecker
}

func NewOrchestrator(throttler ThrottleChecker, gate QuotaChecker, recorder UsageWriter, provider Provider, flags FeatureChecker) *Orchestrator {
	return &Orchestrator{throttler: throttler, gate: gate, recorder: recorder, provider: provider, flags: flags}
}

func (x *Orchestrator) Ask(log *tracing.Logger, userID uuid.UUID, question string) (*AssistantReply, error) {
	defer tracing.ProfilePoint(log, "Ask completed", "assistant.ask", tracing.UserId, userID)()
	return x.run(log, userID, platform.CategoryChat, func() (string, error) {
		return x.provider.Chat(log, question)
	})
}

func (x *Orchestrator) Analyze(log *tracing.Logger, userID uuid.UUID, imageURL string, question string) (*AssistantReply, error) {
	defer tracing.ProfilePoint(log, "Analyze completed", "assistant.analyze", tracing.UserId, userID)()

	if !x.flags.IsEnabledDefault(features.FeatureDocumentAnalysis, true) {
		log.W("Document analysis requested while disabled", tracing.UserId, userID)
		return nil, ErrAnalysisDisabled
	}

	return x.run(log, userID, platform.CategoryAnalysis, func() (string, error) {
		return x.provider.AnalyzeDocument(log, imageURL, question)
	})
}

func (x *Orchestrator) run(log *tracing.Logger, userID uuid.UUID, category platform.UsageCategory, call func() (string, error)) (*AssistantReply, error) {
	if !x.throttler.IsAllowed(userID) {
		log.W("Request throttled", tracing.UserId, userID, tracing.UsageCategory, category)
		return &AssistantReply{Throttled: true}, nil
	}

	now := time.Now()
	monthKey := entitlement.MonthKeyFor(now)

	decision, err := x.gate.CheckQuota(log, userID, now, monthKey)
	if err != nil {
		return nil, err
	}

	if !decision.Allowed {
		return &AssistantReply{Decision: decision}, nil
	}

	answer, err := call()
	if err != nil {
		return nil, err
	}

	// The model call already happened, so the increment is owed even if the
	// write fails. Record logs and swallows store errors for that reason.
	_ = x.recorder.Record(log, userID, monthKey, category)

	return &AssistantReply{Answer: answer, Decision: decision}, nil
}
