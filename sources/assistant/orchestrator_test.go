package assistant

import (
	"errors"
	"testing"
	"time"
	"pawkeeper/sources/entitlement"
	"pawkeeper/sources/platform"
	"pawkeeper/sources/tracing"

	"github.com/google/uuid"
)

type fakeGate struct {
	decision *entitlement.QuotaDecision
	err      error
}

func (f *fakeGate) CheckQuota(log *tracing.Logger, userID uuid.UUID, now time.Time, monthKey entitlement.MonthKey) (*entitlement.QuotaDecision, error) {
	return f.decision, f.err
}

type fakeRecorder struct {
	recorded []platform.UsageCategory
	err      error
}

func (f *fakeRecorder) Record(log *tracing.Logger, userID uuid.UUID, monthKey entitlement.MonthKey, category platform.UsageCategory) error {
	if f.err != nil {
		return f.err
	}
	f.recorded = append(f.recorded, category)
	return nil
}

type fakeThrottle struct {
	allowed bool
}

func (f *fakeThrottle) IsAllowed(userID uuid.UUID) bool {
	return f.allowed
}

type fakeProvider struct {
	answer string
	err    error
	chats  int
	scans  int
}

func (f *fakeProvider) Chat(log *tracing.Logger, question string) (string, error) {
	f.chats++
	return f.answer, f.err
}

func (f *fakeProvider) AnalyzeDocument(log *tracing.Logger, imageURL string, question string) (string, error) {
	f.scans++
	return f.answer, f.err
}

type fixedFlags struct {
	enabled bool
}

func (f fixedFlags) IsEnabledDefault(featureName string, defaultValue bool) bool {
	return f.enabled
}

func allowedDecision() *entitlement.QuotaDecision {
	return &entitlement.QuotaDecision{Allowed: true, Remaining: 10, TierKey: "basic", TierName: "Basic"}
}

func TestAskSuccessRecordsChatUsage(t *testing.T) {
	provider := &fakeProvider{answer: "Fluffy is likely fine."}
	recorder := &fakeRecorder{}
	orchestrator := NewOrchestrator(&fakeThrottle{allowed: true}, &fakeGate{decision: allowedDecision()}, recorder, provider, fixedFlags{enabled: true})

	reply, err := orchestrator.Ask(tracing.NewConsoleLogger(), uuid.New(), "Is my cat okay?")
	if err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}

	if reply.Answer != provider.answer {
		t.Errorf("Answer = %q, want %q", reply.Answer, provider.answer)
	}
	if len(recorder.recorded) != 1 || recorder.recorded[0] != platform.CategoryChat {
		t.Errorf("recorded = %v, want one chat increment", recorder.recorded)
	}
}

func TestAskThrottledSkipsEverything(t *testing.T) {
	provider := &fakeProvider{answer: "unused"}
	recorder := &fakeRecorder{}
	orchestrator := NewOrchestrator(&fakeThrottle{allowed: false}, &fakeGate{decision: allowedDecision()}, recorder, provider, fixedFlags{enabled: true})

	reply, err := orchestrator.Ask(tracing.NewConsoleLogger(), uuid.New(), "hello")
	if err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}

	if !reply.Throttled {
		t.Error("expected throttled reply")
	}
	if provider.chats != 0 {
		t.Error("provider must not be called when throttled")
	}
	if len(recorder.recorded) != 0 {
		t.Error("usage must not be recorded when throttled")
	}
}

func TestAskDeniedReturnsDecisionWithoutCall(t *testing.T) {
	denied := &entitlement.QuotaDecision{IsBlocked: true, TierKey: "basic", Message: "used up"}
	provider := &fakeProvider{answer: "unused"}
	recorder := &fakeRecorder{}
	orchestrator := NewOrchestrator(&fakeThrottle{allowed: true}, &fakeGate{decision: denied}, recorder, provider, fixedFlags{enabled: true})

	reply, err := orchestrator.Ask(tracing.NewConsoleLogger(), uuid.New(), "hello")
	if err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}

	if reply.Answer != "" {
		t.Errorf("Answer = %q, want empty on denial", reply.Answer)
	}
	if reply.Decision == nil || !reply.Decision.IsBlocked {
		t.Error("expected the blocking decision in the reply")
	}
	if provider.chats != 0 {
		t.Error("provider must not be called on denial")
	}
	if len(recorder.recorded) != 0 {
		t.Error("usage must not be recorded on denial")
	}
}

func TestAskProviderErrorSkipsRecording(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream timeout")}
	recorder := &fakeRecorder{}
	orchestrator := NewOrchestrator(&fakeThrottle{allowed: true}, &fakeGate{decision: allowedDecision()}, recorder, provider, fixedFlags{enabled: true})

	_, err := orchestrator.Ask(tracing.NewConsoleLogger(), uuid.New(), "hello")
	if err == nil {
		t.Fatal("expected provider error to surface")
	}
	if len(recorder.recorded) != 0 {
		t.Error("a failed call must not consume quota")
	}
}

func TestAnalyzeRecordsAnalysisUsage(t *testing.T) {
	provider := &fakeProvider{answer: "Vaccination record looks current."}
	recorder := &fakeRecorder{}
	orchestrator := NewOrchestrator(&fakeThrottle{allowed: true}, &fakeGate{decision: allowedDecision()}, recorder, provider, fixedFlags{enabled: true})

	_, err := orchestrator.Analyze(tracing.NewConsoleLogger(), uuid.New(), "https://cdn.example.com/doc.jpg", "")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if provider.scans != 1 {
		t.Errorf("scans = %d, want 1", provider.scans)
	}
	if len(recorder.recorded) != 1 || recorder.recorded[0] != platform.CategoryAnalysis {
		t.Errorf("recorded = %v, want one analysis increment", recorder.recorded)
	}
}

func TestAnalyzeDisabledByFlag(t *testing.T) {
	provider := &fakeProvider{}
	orchestrator := NewOrchestrator(&fakeThrottle{allowed: true}, &fakeGate{decision: allowedDecision()}, &fakeRecorder{}, provider, fixedFlags{enabled: false})

	_, err := orchestrator.Analyze(tracing.NewConsoleLogger(), uuid.New(), "https://cdn.example.com/doc.jpg", "")
	if !errors.Is(err, ErrAnalysisDisabled) {
		t.Errorf("err = %v, want ErrAnalysisDisabled", err)
	}
	if provider.scans != 0 {
		t.Error("provider must not be called when analysis is disabled")
	}
}
