// Package triage scores a patient snapshot into a discrete urgency level
// with an itemized breakdown, ranked actions, hints, and a rationale. The
// scoring path is pure and synchronous; the optional external advisory is
// composed afterwards and never alters the score.
package triage

import (
	"github.com/google/uuid"

	"github.com/LFAn0m3d/Heallthultra/internal/trend"
)

// Level is the discrete triage urgency. Levels are totally ordered; red is
// maximal.
type Level string

const (
	LevelGreen  Level = "green"
	LevelYellow Level = "yellow"
	LevelOrange Level = "orange"
	LevelRed    Level = "red"
)

var levelRank = map[Level]int{
	LevelGreen:  0,
	LevelYellow: 1,
	LevelOrange: 2,
	LevelRed:    3,
}

// Rank returns the level's position in the green < yellow < orange < red
// ordering.
func (l Level) Rank() int { return levelRank[l] }

// Urgency classifies how quickly a recommended action should happen.
type Urgency string

const (
	UrgencyRoutine  Urgency = "routine"
	UrgencySoon     Urgency = "soon"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyEmergent Urgency = "emergent"
)

// Action is one recommended follow-up.
type Action struct {
	Label   string  `json:"label"`
	Urgency Urgency `json:"urgency"`
}

// VitalReading is the latest value for one measurement code, used as scoring
// input (not a series).
type VitalReading struct {
	Code  string  `json:"measurement_code"`
	Value float64 `json:"value"`
}

// Snapshot is the triage input: current vitals, history, self-report, and
// safety-alert flags. All fields are optional; absent data contributes
// nothing to the score. Trends optionally carries previously computed trend
// results so a worsening vital can feed the score.
type Snapshot struct {
	Vitals                []VitalReading `json:"vitals,omitempty"`
	Comorbidities         []string       `json:"comorbidities,omitempty"`
	Medications           []string       `json:"medications,omitempty"`
	Allergies             []string       `json:"allergies,omitempty"`
	Symptoms              []string       `json:"symptoms,omitempty"`
	SelfSeverity          *int           `json:"severity_0_10,omitempty"`
	Alerts                []string       `json:"alerts,omitempty"`
	Trends                []trend.Result `json:"trends,omitempty"`
	AllowExternalFallback bool           `json:"allow_external_fallback,omitempty"`
}

// Result is the finalized triage decision.
type Result struct {
	AssessmentID uuid.UUID  `json:"assessment_id"`
	Level        Level      `json:"level"`
	Score        float64    `json:"score"`
	Actions      []Action   `json:"actions"`
	Hints        []string   `json:"hints"`
	Rationale    string     `json:"rationale"`
	Breakdown    *Breakdown `json:"breakdown"`
	Advice       string     `json:"advice,omitempty"`
}
