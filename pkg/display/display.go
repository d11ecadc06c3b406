// Package display adapts the core's canonical English taxonomy to the Thai
// labels the legacy dashboards render. The core never emits Thai itself; the
// adapter is a fixed translation table and strings it does not know pass
// through unchanged.
package display

import (
	"github.com/LFAn0m3d/Heallthultra/internal/triage"
)

var levelLabels = map[triage.Level]string{
	triage.LevelGreen:  "เขียว",
	triage.LevelYellow: "เหลือง",
	triage.LevelOrange: "ส้ม",
	triage.LevelRed:    "แดง",
}

var urgencyLabels = map[triage.Urgency]string{
	triage.UrgencyRoutine:  "ปกติ",
	triage.UrgencySoon:     "ภายในไม่กี่วัน",
	triage.UrgencyUrgent:   "เร่งด่วน",
	triage.UrgencyEmergent: "ฉุกเฉิน",
}

// phraseLabels translates the fixed canonical strings the engine produces.
var phraseLabels = map[string]string{
	triage.ActionCrisisOutreach:  "ให้การดูแลใกล้ชิดและส่งต่อสายด่วนวิกฤตทันที",
	triage.ActionMaintainRoutine: "รักษาวิถีชีวิตสุขภาพดีและติดตามอาการ",
	triage.HintChestPain:         "ติดตามอาการแน่นหน้าอกและพิจารณา EKG",
	triage.HintDizziness:         "ตรวจวัดความดันและน้ำตาลซ้ำ",
	triage.HintNoSpecific:        "ยังไม่มีสัญญาณจำเพาะ ควรติดตามต่อเนื่อง",
}

// Level returns the Thai label for a triage level.
func Level(l triage.Level) string {
	if label, ok := levelLabels[l]; ok {
		return label
	}
	return string(l)
}

// Urgency returns the Thai label for an action urgency.
func Urgency(u triage.Urgency) string {
	if label, ok := urgencyLabels[u]; ok {
		return label
	}
	return string(u)
}

// Phrase translates a canonical action label or hint. Unknown text (for
// example the drug-specific conflict messages) passes through unchanged.
func Phrase(s string) string {
	if label, ok := phraseLabels[s]; ok {
		return label
	}
	return s
}
