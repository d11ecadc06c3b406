package triage

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/LFAn0m3d/Heallthultra/internal/advice"
	"github.com/LFAn0m3d/Heallthultra/internal/catalog"
)

func newTestEngine(p advice.Provider) *Engine {
	return NewEngine(catalog.Default(), p, zerolog.Nop())
}

type stubProvider struct {
	advice string
	err    error
	calls  int
}

func (s *stubProvider) Advise(_ context.Context, _ advice.Request) (string, error) {
	s.calls++
	return s.advice, s.err
}

func TestLevelForScore_CutPoints(t *testing.T) {
	tests := []struct {
		score float64
		want  Level
	}{
		{0, LevelGreen},
		{29, LevelGreen},
		{30, LevelYellow},
		{59, LevelYellow},
		{60, LevelOrange},
		{99, LevelOrange},
		{100, LevelRed},
		{250, LevelRed},
	}
	for _, tt := range tests {
		if got := levelForScore(tt.score); got != tt.want {
			t.Errorf("levelForScore(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestLevel_Ordering(t *testing.T) {
	order := []Level{LevelGreen, LevelYellow, LevelOrange, LevelRed}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("%q should rank below %q", order[i-1], order[i])
		}
	}
}

// Scenario A: one critical vital, nothing else.
func TestAnalyze_CriticalVitalYellow(t *testing.T) {
	res, err := newTestEngine(nil).Analyze(context.Background(), Snapshot{
		Vitals:       []VitalReading{{Code: "bp_sys", Value: 190}},
		SelfSeverity: intp(0),
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Score != 40 {
		t.Errorf("score = %v, want 40", res.Score)
	}
	if res.Level != LevelYellow {
		t.Errorf("level = %q, want yellow", res.Level)
	}
}

// Scenario B: moderate history only stays green.
func TestAnalyze_ComorbidityAndSeverityGreen(t *testing.T) {
	res, err := newTestEngine(nil).Analyze(context.Background(), Snapshot{
		Comorbidities: []string{"ckd"},
		SelfSeverity:  intp(9),
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Score != 19 {
		t.Errorf("score = %v, want 19", res.Score)
	}
	if res.Level != LevelGreen {
		t.Errorf("level = %q, want green", res.Level)
	}
}

// Scenario C: a safety alert alone forces red.
func TestAnalyze_SafetyAlertForcesRed(t *testing.T) {
	res, err := newTestEngine(nil).Analyze(context.Background(), Snapshot{
		Alerts: []string{"self-harm ideation"},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Level != LevelRed {
		t.Errorf("level = %q, want red", res.Level)
	}
	if res.Score < 100 {
		t.Errorf("score = %v, want >= 100", res.Score)
	}
	found := false
	for _, a := range res.Actions {
		if a.Label == ActionCrisisOutreach && a.Urgency == UrgencyEmergent {
			found = true
		}
	}
	if !found {
		t.Errorf("expected crisis outreach action, got %v", res.Actions)
	}
}

// Scenario D: allergy conflict adds 15 and an urgent action.
func TestAnalyze_AllergyConflict(t *testing.T) {
	res, err := newTestEngine(nil).Analyze(context.Background(), Snapshot{
		Medications: []string{"ibuprofen"},
		Allergies:   []string{"nsaid"},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Score != 15 {
		t.Errorf("score = %v, want 15", res.Score)
	}
	if pts, ok := res.Breakdown.Points(KindAllergyConflict, ""); !ok || pts != 15 {
		t.Errorf("allergy_conflict = %v, %v", pts, ok)
	}
	urgent := 0
	for _, a := range res.Actions {
		if a.Urgency == UrgencyUrgent {
			urgent++
		}
	}
	if urgent != 1 {
		t.Errorf("urgent actions = %d, want 1", urgent)
	}
}

func TestAnalyze_EmptySnapshotDefaults(t *testing.T) {
	res, err := newTestEngine(nil).Analyze(context.Background(), Snapshot{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Level != LevelGreen || res.Score != 0 {
		t.Errorf("level = %q score = %v, want green 0", res.Level, res.Score)
	}
	if len(res.Actions) != 1 || res.Actions[0].Label != ActionMaintainRoutine {
		t.Errorf("actions = %v, want the routine fallback", res.Actions)
	}
	if len(res.Hints) != 1 || res.Hints[0] != HintNoSpecific {
		t.Errorf("hints = %v, want the generic hint", res.Hints)
	}
	if res.Rationale != "Total score 0" {
		t.Errorf("rationale = %q", res.Rationale)
	}
	if res.AssessmentID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("expected a fresh assessment id")
	}
}

func TestAnalyze_ActionDedupPreservesFirstSeen(t *testing.T) {
	// metformin listed twice still produces one caution, in first position
	// among the conflict actions.
	res, err := newTestEngine(nil).Analyze(context.Background(), Snapshot{
		Medications: []string{"metformin", "metformin", "ibuprofen"},
		Allergies:   []string{"nsaid"},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	labels := make(map[string]int)
	for _, a := range res.Actions {
		labels[a.Label]++
	}
	for label, n := range labels {
		if n > 1 {
			t.Errorf("action %q appears %d times", label, n)
		}
	}
	if res.Actions[0].Label != medicationCautions["metformin"] {
		t.Errorf("first action = %q, want the metformin caution first", res.Actions[0].Label)
	}
}

func TestAnalyze_Rationale(t *testing.T) {
	res, err := newTestEngine(nil).Analyze(context.Background(), Snapshot{
		Comorbidities: []string{"ckd", "htn"},
		Alerts:        []string{"self-harm ideation"},
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	want := "Total score 115; comorbidities: ckd, htn; alerts: self-harm ideation"
	if res.Rationale != want {
		t.Errorf("rationale = %q, want %q", res.Rationale, want)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	snap := Snapshot{
		Vitals:        []VitalReading{{Code: "bp_sys", Value: 165}, {Code: "glucose", Value: 260}},
		Comorbidities: []string{"dm", "ckd"},
		Medications:   []string{"metformin", "ibuprofen"},
		Allergies:     []string{"nsaid"},
		Symptoms:      []string{"chest tightness"},
		SelfSeverity:  intp(4),
	}
	e := newTestEngine(nil)

	first, err := e.Analyze(context.Background(), snap)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	second, err := e.Analyze(context.Background(), snap)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if first.Score != second.Score || first.Level != second.Level {
		t.Errorf("non-deterministic: %v/%q vs %v/%q", first.Score, first.Level, second.Score, second.Level)
	}
	if !reflect.DeepEqual(first.Breakdown.Labels(), second.Breakdown.Labels()) {
		t.Errorf("breakdowns differ: %v vs %v", first.Breakdown.Labels(), second.Breakdown.Labels())
	}
}

func TestAnalyze_MalformedSnapshot(t *testing.T) {
	_, err := newTestEngine(nil).Analyze(context.Background(), Snapshot{
		Vitals: []VitalReading{{Value: 120}},
	})
	if err == nil {
		t.Fatal("expected error for reading without a code")
	}
}

func TestAnalyze_AdviceMerged(t *testing.T) {
	p := &stubProvider{advice: "consider a follow-up ECG"}
	res, err := newTestEngine(p).Analyze(context.Background(), Snapshot{
		Symptoms:              []string{"chest pain"},
		AllowExternalFallback: true,
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Advice != "consider a follow-up ECG" {
		t.Errorf("advice = %q", res.Advice)
	}
	if p.calls != 1 {
		t.Errorf("provider calls = %d, want 1", p.calls)
	}
}

func TestAnalyze_AdviceFailureDegradesSilently(t *testing.T) {
	p := &stubProvider{err: errors.New("upstream timeout")}
	res, err := newTestEngine(p).Analyze(context.Background(), Snapshot{
		AllowExternalFallback: true,
	})
	if err != nil {
		t.Fatalf("advice failure must not fail the analysis: %v", err)
	}
	if res.Advice != "" {
		t.Errorf("advice = %q, want absent", res.Advice)
	}
}

func TestAnalyze_AdviceSkippedWithoutOptIn(t *testing.T) {
	p := &stubProvider{advice: "should not appear"}
	res, err := newTestEngine(p).Analyze(context.Background(), Snapshot{})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if p.calls != 0 {
		t.Errorf("provider called %d times without opt-in", p.calls)
	}
	if res.Advice != "" {
		t.Errorf("advice = %q, want absent", res.Advice)
	}
}

func TestAnalyze_AdviceDoesNotAlterScore(t *testing.T) {
	snap := Snapshot{
		Vitals:                []VitalReading{{Code: "bp_sys", Value: 190}},
		AllowExternalFallback: true,
	}
	with, err := newTestEngine(&stubProvider{advice: "extra advice"}).Analyze(context.Background(), snap)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	without, err := newTestEngine(nil).Analyze(context.Background(), snap)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if with.Score != without.Score || with.Level != without.Level {
		t.Errorf("advice altered scoring: %v/%q vs %v/%q", with.Score, with.Level, without.Score, without.Level)
	}
}
