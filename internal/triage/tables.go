package triage

// Static rule tables. These are process-wide immutable configuration, shared
// by reference and never mutated at runtime.

// Score weights.
const (
	vitalCriticalPoints    = 40
	vitalElevatedPoints    = 20
	comorbidityMajorPoints = 10
	comorbidityMinorPoints = 5
	safetyAlertPoints      = 100
	allergyConflictPoints  = 15
	trendWorseningPoints   = 5
)

// Triage level cut points over the total score.
const (
	redCutoff    = 100
	orangeCutoff = 60
	yellowCutoff = 30
)

// Canonical output strings. pkg/display translates these for legacy
// consumers; the core always emits the English taxonomy.
const (
	ActionCrisisOutreach  = "Arrange close supervision and refer to the crisis hotline immediately"
	ActionMaintainRoutine = "Maintain a healthy lifestyle and continue routine monitoring"

	HintChestPain  = "Monitor chest discomfort and consider an ECG"
	HintDizziness  = "Re-check blood pressure and glucose"
	HintNoSpecific = "No specific warning signs; continue routine monitoring"
)

// comorbidityAliases folds long-form condition tags onto the canonical short
// tags used in breakdown labels.
var comorbidityAliases = map[string]string{
	"chronic kidney disease": "ckd",
	"hypertension":           "htn",
	"diabetes":               "dm",
}

// comorbidityWeights maps canonical condition tags to their score weight.
// Unrecognized tags contribute nothing and are not recorded.
var comorbidityWeights = map[string]float64{
	"ckd":    comorbidityMajorPoints,
	"cancer": comorbidityMajorPoints,
	"copd":   comorbidityMajorPoints,
	"htn":    comorbidityMinorPoints,
	"dm":     comorbidityMinorPoints,
	"asthma": comorbidityMinorPoints,
}

// medicationCautions maps a medication (lowercase) to its standing caution.
// A match emits a routine action without changing the score.
var medicationCautions = map[string]string{
	"metformin": "Review kidney function while on metformin",
	"insulin":   "Watch for hypoglycemia while on insulin",
	"warfarin":  "Monitor INR regularly while on warfarin",
}

// allergyConflicts maps an allergy class (lowercase) to the drug names it
// implicates.
var allergyConflicts = map[string][]string{
	"penicillin": {"amoxicillin", "ampicillin"},
	"nsaid":      {"ibuprofen", "naproxen"},
	"sulfa":      {"sulfamethoxazole", "sulfasalazine"},
}

// symptomHints is scanned in order against lowercased symptom text.
var symptomHints = []struct {
	keyword string
	hint    string
}{
	{"chest", HintChestPain},
	{"dizz", HintDizziness},
}
