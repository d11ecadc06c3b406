package triage

import (
	"encoding/json"
	"fmt"
)

// ContributorKind enumerates the score contributor categories, replacing the
// free-form string keys the dashboards historically consumed. The legacy
// labels are still produced for the wire via Contribution.Label.
type ContributorKind string

const (
	KindVitalCritical   ContributorKind = "vital_critical"
	KindVitalElevated   ContributorKind = "vital_elevated"
	KindVitalNormal     ContributorKind = "vital_normal"
	KindComorbidity     ContributorKind = "comorbidity"
	KindSelfSeverity    ContributorKind = "self_severity"
	KindSafetyAlert     ContributorKind = "safety_alert"
	KindAllergyConflict ContributorKind = "allergy_conflict"
	KindTrend           ContributorKind = "trend"
)

// Contribution is one scored contributor. Ref qualifies the kind where one
// exists (measurement code, comorbidity tag, trend metric).
type Contribution struct {
	Kind   ContributorKind
	Ref    string
	Points float64
}

// Label renders the legacy breakdown key for this contribution.
func (c Contribution) Label() string {
	switch c.Kind {
	case KindVitalCritical:
		return c.Ref + "_critical"
	case KindVitalElevated:
		return c.Ref + "_elevated"
	case KindVitalNormal:
		return c.Ref + "_normal"
	case KindComorbidity:
		return "comorbidity_" + c.Ref
	case KindTrend:
		return "trend_" + c.Ref
	default:
		// self_severity, safety_alert, allergy_conflict carry no ref.
		return string(c.Kind)
	}
}

// Breakdown is the ordered, itemized score ledger. Entries are unique per
// (kind, ref); repeated adds accumulate into the existing entry. Negative
// contributions are discarded: the score is monotone by contract.
type Breakdown struct {
	entries []Contribution
}

// Add records points under (kind, ref), accumulating with any prior entry.
func (b *Breakdown) Add(kind ContributorKind, ref string, points float64) {
	if points < 0 {
		return
	}
	for i := range b.entries {
		if b.entries[i].Kind == kind && b.entries[i].Ref == ref {
			b.entries[i].Points += points
			return
		}
	}
	b.entries = append(b.entries, Contribution{Kind: kind, Ref: ref, Points: points})
}

// Total sums all recorded contributions.
func (b *Breakdown) Total() float64 {
	var total float64
	for _, e := range b.entries {
		total += e.Points
	}
	return total
}

// Points looks up the contribution recorded under (kind, ref).
func (b *Breakdown) Points(kind ContributorKind, ref string) (float64, bool) {
	for _, e := range b.entries {
		if e.Kind == kind && e.Ref == ref {
			return e.Points, true
		}
	}
	return 0, false
}

// Entries returns a copy of the recorded contributions in insertion order.
func (b *Breakdown) Entries() []Contribution {
	out := make([]Contribution, len(b.entries))
	copy(out, b.entries)
	return out
}

// Labels flattens the breakdown into the legacy label → points map.
func (b *Breakdown) Labels() map[string]float64 {
	out := make(map[string]float64, len(b.entries))
	for _, e := range b.entries {
		out[e.Label()] = e.Points
	}
	return out
}

// MarshalJSON encodes the breakdown as the legacy label map.
func (b *Breakdown) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Labels())
}

// UnmarshalJSON restores a breakdown from the legacy label map. Kinds are
// recovered from the label shape; unrecognized labels are rejected.
func (b *Breakdown) UnmarshalJSON(data []byte) error {
	var labels map[string]float64
	if err := json.Unmarshal(data, &labels); err != nil {
		return err
	}
	b.entries = b.entries[:0]
	for label, points := range labels {
		kind, ref, ok := parseLabel(label)
		if !ok {
			return fmt.Errorf("unrecognized breakdown label %q", label)
		}
		b.Add(kind, ref, points)
	}
	return nil
}

func parseLabel(label string) (ContributorKind, string, bool) {
	switch label {
	case string(KindSelfSeverity), string(KindSafetyAlert), string(KindAllergyConflict):
		return ContributorKind(label), "", true
	}
	for prefix, kind := range map[string]ContributorKind{
		"comorbidity_": KindComorbidity,
		"trend_":       KindTrend,
	} {
		if len(label) > len(prefix) && label[:len(prefix)] == prefix {
			return kind, label[len(prefix):], true
		}
	}
	for suffix, kind := range map[string]ContributorKind{
		"_critical": KindVitalCritical,
		"_elevated": KindVitalElevated,
		"_normal":   KindVitalNormal,
	} {
		if len(label) > len(suffix) && label[len(label)-len(suffix):] == suffix {
			return kind, label[:len(label)-len(suffix)], true
		}
	}
	return "", "", false
}
