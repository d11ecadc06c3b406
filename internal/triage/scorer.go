package triage

import (
	"fmt"
	"strings"

	"github.com/LFAn0m3d/Heallthultra/internal/catalog"
	"github.com/LFAn0m3d/Heallthultra/internal/trend"
)

// ScoreSnapshot runs the additive risk rules over a snapshot: vital bounds,
// comorbidity weights, self-reported severity, safety-alert override,
// trend-informed contributions, and symptom keyword hints. It is pure; the
// same snapshot always yields the same breakdown. The returned action list
// may be empty — the resolver appends the routine fallback.
func ScoreSnapshot(snap Snapshot, cat *catalog.Catalog) (float64, *Breakdown, []Action, []string) {
	breakdown := &Breakdown{}
	var actions []Action
	var hints []string

	for _, v := range snap.Vitals {
		scoreVital(v, cat, breakdown)
	}
	scoreComorbidities(snap.Comorbidities, breakdown)

	if snap.SelfSeverity != nil {
		breakdown.Add(KindSelfSeverity, "", float64(*snap.SelfSeverity))
	}

	if hasSafetyAlert(snap.Alerts) {
		breakdown.Add(KindSafetyAlert, "", safetyAlertPoints)
		actions = append(actions, Action{Label: ActionCrisisOutreach, Urgency: UrgencyEmergent})
	}

	scoreTrends(snap.Trends, cat, breakdown)

	for _, s := range snap.Symptoms {
		lowered := strings.ToLower(s)
		for _, sh := range symptomHints {
			if strings.Contains(lowered, sh.keyword) {
				hints = append(hints, sh.hint)
			}
		}
	}
	if len(hints) == 0 {
		hints = append(hints, HintNoSpecific)
	}

	return breakdown.Total(), breakdown, actions, hints
}

// scoreVital applies the 40/20/0 bound rules for one reading. Critical takes
// precedence over elevated: a value breaching both bounds scores once, at
// the critical weight. Codes absent from the catalog are skipped and never
// recorded.
func scoreVital(v VitalReading, cat *catalog.Catalog, b *Breakdown) {
	def, err := cat.Definition(v.Code)
	if err != nil {
		return
	}
	switch {
	case def.IsCritical(v.Value):
		b.Add(KindVitalCritical, v.Code, vitalCriticalPoints)
	case def.IsElevated(v.Value):
		b.Add(KindVitalElevated, v.Code, vitalElevatedPoints)
	default:
		b.Add(KindVitalNormal, v.Code, 0)
	}
}

func scoreComorbidities(tags []string, b *Breakdown) {
	for _, tag := range tags {
		canonical := strings.ToLower(strings.TrimSpace(tag))
		if alias, ok := comorbidityAliases[canonical]; ok {
			canonical = alias
		}
		if weight, ok := comorbidityWeights[canonical]; ok {
			b.Add(KindComorbidity, canonical, weight)
		}
	}
}

// scoreTrends lets a previously computed worsening trend feed the score at a
// small weight, provided the trend has at least medium confidence. Improving
// or stable trends never subtract: breakdown entries stay non-negative.
func scoreTrends(trends []trend.Result, cat *catalog.Catalog, b *Breakdown) {
	for _, tr := range trends {
		if tr.Trend != trend.Worsening || !cat.Has(tr.Metric) {
			continue
		}
		if tr.Confidence == trend.ConfidenceLow {
			continue
		}
		b.Add(KindTrend, tr.Metric, trendWorseningPoints)
	}
}

// hasSafetyAlert reports whether any alert flag indicates self-harm risk.
func hasSafetyAlert(alerts []string) bool {
	for _, a := range alerts {
		lowered := strings.ToLower(a)
		if strings.Contains(lowered, "self-harm") ||
			strings.Contains(lowered, "self harm") ||
			strings.Contains(lowered, "suicid") {
			return true
		}
	}
	return false
}

// validateSnapshot rejects malformed input before scoring: readings without
// a code or a usable numeric value, and out-of-range self severity. Absent
// optional fields are fine and contribute nothing.
func validateSnapshot(snap Snapshot) error {
	for i, v := range snap.Vitals {
		if v.Code == "" {
			return fmt.Errorf("vital reading %d has no measurement code", i)
		}
		if v.Value != v.Value { // NaN
			return fmt.Errorf("vital reading %q has no numeric value", v.Code)
		}
	}
	if snap.SelfSeverity != nil {
		if s := *snap.SelfSeverity; s < 0 || s > 10 {
			return fmt.Errorf("self severity must be between 0 and 10, got %d", s)
		}
	}
	return nil
}
