// Package catalog holds the immutable measurement catalog: per-metric
// critical/elevated bounds, trend sensitivity, and display metadata. The
// catalog is loaded once at startup and shared read-only by the trend and
// triage engines.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/viper"
)

// ErrUnknownMetric is returned when a measurement code is not in the catalog.
var ErrUnknownMetric = errors.New("unknown measurement code")

// DefaultTrendThreshold is applied to definitions loaded without an explicit
// trend threshold.
const DefaultTrendThreshold = 0.5

// MeasurementDefinition describes one measurement code. Bound pointers are
// nil when the metric has no bound on that side.
type MeasurementDefinition struct {
	Code           string   `mapstructure:"code" json:"code"`
	DisplayName    string   `mapstructure:"display_name" json:"display_name"`
	Unit           string   `mapstructure:"unit" json:"unit"`
	Category       string   `mapstructure:"category" json:"category"`
	CriticalLow    *float64 `mapstructure:"critical_low" json:"critical_low,omitempty"`
	CriticalHigh   *float64 `mapstructure:"critical_high" json:"critical_high,omitempty"`
	ElevatedLow    *float64 `mapstructure:"elevated_low" json:"elevated_low,omitempty"`
	ElevatedHigh   *float64 `mapstructure:"elevated_high" json:"elevated_high,omitempty"`
	TrendThreshold float64  `mapstructure:"trend_threshold" json:"trend_threshold"`
}

// IsCritical reports whether value sits at or beyond either critical bound.
func (d *MeasurementDefinition) IsCritical(value float64) bool {
	if d.CriticalLow != nil && value <= *d.CriticalLow {
		return true
	}
	if d.CriticalHigh != nil && value >= *d.CriticalHigh {
		return true
	}
	return false
}

// IsElevated reports whether value sits at or beyond either elevated bound.
// Critical takes precedence; callers check IsCritical first.
func (d *MeasurementDefinition) IsElevated(value float64) bool {
	if d.ElevatedLow != nil && value <= *d.ElevatedLow {
		return true
	}
	if d.ElevatedHigh != nil && value >= *d.ElevatedHigh {
		return true
	}
	return false
}

func f(v float64) *float64 { return &v }

// builtinDefinitions is the canonical measurement table. bp/glucose/hr
// bounds follow the established clinical cut points (≥180 systolic is a
// hypertensive crisis, ≥300 mg/dL glucose suggests DKA/HHS work-up);
// phq9/gad7 use the standard scale severity cut points.
var builtinDefinitions = []MeasurementDefinition{
	{Code: "bp_sys", DisplayName: "Systolic blood pressure", Unit: "mmHg", Category: "vital",
		CriticalLow: f(80), CriticalHigh: f(180), ElevatedLow: f(120), ElevatedHigh: f(160), TrendThreshold: 1.0},
	{Code: "bp_dia", DisplayName: "Diastolic blood pressure", Unit: "mmHg", Category: "vital",
		CriticalLow: f(40), CriticalHigh: f(120), ElevatedLow: f(80), ElevatedHigh: f(100), TrendThreshold: 1.0},
	{Code: "glucose", DisplayName: "Blood glucose", Unit: "mg/dL", Category: "vital",
		CriticalLow: f(60), CriticalHigh: f(300), ElevatedLow: f(140), ElevatedHigh: f(250), TrendThreshold: 2.0},
	{Code: "hr", DisplayName: "Heart rate", Unit: "bpm", Category: "vital",
		CriticalLow: f(40), CriticalHigh: f(160), ElevatedLow: f(100), ElevatedHigh: f(130), TrendThreshold: 1.0},
	{Code: "spo2", DisplayName: "Oxygen saturation", Unit: "%", Category: "vital",
		CriticalLow: f(85), ElevatedLow: f(92), TrendThreshold: 0.5},
	{Code: "temp", DisplayName: "Body temperature", Unit: "°C", Category: "vital",
		CriticalLow: f(34), CriticalHigh: f(39.5), ElevatedLow: f(35), ElevatedHigh: f(38), TrendThreshold: 0.2},
	{Code: "phq9", DisplayName: "PHQ-9 depression score", Unit: "score", Category: "scale",
		CriticalHigh: f(20), ElevatedHigh: f(10), TrendThreshold: 0.5},
	{Code: "gad7", DisplayName: "GAD-7 anxiety score", Unit: "score", Category: "scale",
		CriticalHigh: f(15), ElevatedHigh: f(10), TrendThreshold: 0.5},
}

// Catalog is a read-only lookup over measurement definitions.
type Catalog struct {
	defs map[string]*MeasurementDefinition
}

// Default returns a catalog containing only the built-in definitions.
func Default() *Catalog {
	c := &Catalog{defs: make(map[string]*MeasurementDefinition, len(builtinDefinitions))}
	for i := range builtinDefinitions {
		def := builtinDefinitions[i]
		c.defs[def.Code] = &def
	}
	return c
}

// Load returns the built-in catalog overlaid with definitions from a config
// file (YAML, JSON, or TOML — anything viper parses) under a top-level
// "metrics" list. A definition with a known code replaces the built-in one;
// new codes are added.
func Load(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read metric catalog %s: %w", path, err)
	}

	var file struct {
		Metrics []MeasurementDefinition `mapstructure:"metrics"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("unmarshal metric catalog %s: %w", path, err)
	}

	c := Default()
	for i := range file.Metrics {
		def := file.Metrics[i]
		if def.Code == "" {
			return nil, fmt.Errorf("metric catalog %s: definition %d has no code", path, i)
		}
		if def.TrendThreshold <= 0 {
			def.TrendThreshold = DefaultTrendThreshold
		}
		c.defs[def.Code] = &def
	}
	return c, nil
}

// Definition resolves a measurement code.
func (c *Catalog) Definition(code string) (*MeasurementDefinition, error) {
	def, ok := c.defs[code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, code)
	}
	return def, nil
}

// Has reports whether the catalog knows the code.
func (c *Catalog) Has(code string) bool {
	_, ok := c.defs[code]
	return ok
}

// Codes returns all known measurement codes, sorted.
func (c *Catalog) Codes() []string {
	codes := make([]string, 0, len(c.defs))
	for code := range c.defs {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
