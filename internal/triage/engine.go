package triage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/LFAn0m3d/Heallthultra/internal/advice"
	"github.com/LFAn0m3d/Heallthultra/internal/catalog"
)

// Engine composes the risk scorer, conflict detector, and level resolver
// into the Analyze operation. It holds only immutable collaborators, so any
// number of Analyze calls may run concurrently.
type Engine struct {
	cat      *catalog.Catalog
	provider advice.Provider
	log      zerolog.Logger
}

// NewEngine creates an engine. provider may be nil when the external
// advisory integration is disabled.
func NewEngine(cat *catalog.Catalog, provider advice.Provider, logger zerolog.Logger) *Engine {
	return &Engine{cat: cat, provider: provider, log: logger}
}

// Analyze scores the snapshot and resolves the final triage decision. The
// scoring path is deterministic; only the optional external advisory touches
// the network, and its failure degrades to an absent advice field.
func (e *Engine) Analyze(ctx context.Context, snap Snapshot) (*Result, error) {
	if err := validateSnapshot(snap); err != nil {
		return nil, fmt.Errorf("malformed snapshot: %w", err)
	}

	for _, v := range snap.Vitals {
		if !e.cat.Has(v.Code) {
			e.log.Debug().Str("code", v.Code).Msg("skipping vital with unrecognized measurement code")
		}
	}

	_, breakdown, actions, hints := ScoreSnapshot(snap, e.cat)

	conflictActions, conflictAddend := DetectConflicts(snap.Medications, snap.Allergies)
	actions = append(actions, conflictActions...)
	if conflictAddend > 0 {
		breakdown.Add(KindAllergyConflict, "", conflictAddend)
	}

	score := breakdown.Total()
	level := levelForScore(score)

	if len(actions) == 0 {
		actions = append(actions, Action{Label: ActionMaintainRoutine, Urgency: UrgencyRoutine})
	}

	res := &Result{
		AssessmentID: uuid.New(),
		Level:        level,
		Score:        score,
		Actions:      dedupeActions(actions),
		Hints:        dedupeStrings(hints),
		Rationale:    composeRationale(score, snap),
		Breakdown:    breakdown,
	}

	if e.provider != nil && snap.AllowExternalFallback {
		res.Advice = e.fetchAdvice(ctx, snap)
	}

	e.log.Info().
		Str("assessment_id", res.AssessmentID.String()).
		Str("level", string(res.Level)).
		Float64("score", res.Score).
		Int("actions", len(res.Actions)).
		Msg("triage analysis complete")

	return res, nil
}

// fetchAdvice asks the external provider to enrich the response. Any
// failure is logged and swallowed: advice enriches, never gates.
func (e *Engine) fetchAdvice(ctx context.Context, snap Snapshot) string {
	req := advice.Request{
		InstanceID:  uuid.NewString(),
		Symptoms:    snap.Symptoms,
		Medications: snap.Medications,
		Alerts:      snap.Alerts,
		Vitals:      make(map[string]float64, len(snap.Vitals)),
	}
	for _, v := range snap.Vitals {
		req.Vitals[v.Code] = v.Value
	}

	text, err := e.provider.Advise(ctx, req)
	if err != nil {
		e.log.Debug().Err(err).Msg("external advice unavailable")
		return ""
	}
	return text
}

// levelForScore maps the total score onto the triage level. The function is
// stateless: every request resolves fresh from its own score.
func levelForScore(score float64) Level {
	switch {
	case score >= redCutoff:
		return LevelRed
	case score >= orangeCutoff:
		return LevelOrange
	case score >= yellowCutoff:
		return LevelYellow
	default:
		return LevelGreen
	}
}

// composeRationale joins the explanation clauses: total score, comorbidity
// list when present, triggered alerts when present.
func composeRationale(score float64, snap Snapshot) string {
	parts := []string{fmt.Sprintf("Total score %.0f", score)}
	if len(snap.Comorbidities) > 0 {
		parts = append(parts, "comorbidities: "+strings.Join(snap.Comorbidities, ", "))
	}
	if len(snap.Alerts) > 0 {
		parts = append(parts, "alerts: "+strings.Join(snap.Alerts, ", "))
	}
	return strings.Join(dedupeStrings(parts), "; ")
}

// dedupeActions removes repeated labels, keeping first-seen order.
func dedupeActions(in []Action) []Action {
	seen := make(map[string]bool, len(in))
	out := make([]Action, 0, len(in))
	for _, a := range in {
		if seen[a.Label] {
			continue
		}
		seen[a.Label] = true
		out = append(out, a)
	}
	return out
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
