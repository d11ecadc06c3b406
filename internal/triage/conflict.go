package triage

import (
	"fmt"
	"strings"
)

// DetectConflicts cross-references medications against the static caution
// and allergy-conflict tables. Medication cautions yield routine actions
// with no score change; each distinct (allergy, drug) conflict yields an
// urgent action and a fixed score addend. Duplicate input entries never
// double-count a conflict.
func DetectConflicts(medications, allergies []string) ([]Action, float64) {
	var actions []Action
	var addend float64

	meds := make(map[string]bool, len(medications))
	for _, m := range medications {
		lowered := strings.ToLower(strings.TrimSpace(m))
		if caution, ok := medicationCautions[lowered]; ok && !meds[lowered] {
			actions = append(actions, Action{Label: caution, Urgency: UrgencyRoutine})
		}
		meds[lowered] = true
	}

	seen := make(map[string]bool)
	for _, a := range allergies {
		allergy := strings.ToLower(strings.TrimSpace(a))
		for _, drug := range allergyConflicts[allergy] {
			if !meds[drug] {
				continue
			}
			key := allergy + "|" + drug
			if seen[key] {
				continue
			}
			seen[key] = true
			actions = append(actions, Action{
				Label:   fmt.Sprintf("Avoid %s due to documented %s allergy", drug, allergy),
				Urgency: UrgencyUrgent,
			})
			addend += allergyConflictPoints
		}
	}

	return actions, addend
}
