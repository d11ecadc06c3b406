// Package trend computes per-metric trend summaries over ordered clinical
// time series: EWMA smoothing, least-squares slope per day, a qualitative
// label, and an ordinal confidence derived from the number of points.
package trend

import (
	"fmt"
	"time"

	"github.com/LFAn0m3d/Heallthultra/internal/catalog"
)

// DefaultAlpha is the EWMA decay used when no override is configured.
const DefaultAlpha = 0.3

// Label is the qualitative trend direction.
type Label string

const (
	Improving    Label = "improving"
	Stable       Label = "stable"
	Worsening    Label = "worsening"
	Insufficient Label = "insufficient"
)

// Confidence is an ordinal confidence derived from series length.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Point is one timestamped observation value. Series passed to the analyzer
// must already be ordered by timestamp; equal timestamps are treated as
// sequential readings.
type Point struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Result summarizes one metric's series. SlopePerDay is nil when the series
// has fewer than two points; a nil slope is distinct from a zero slope.
type Result struct {
	Metric      string     `json:"metric"`
	Smoothed    []float64  `json:"smoothed"`
	SlopePerDay *float64   `json:"slope_per_day"`
	Trend       Label      `json:"trend"`
	Confidence  Confidence `json:"confidence"`
}

// Analyzer resolves per-metric trend thresholds against a catalog.
type Analyzer struct {
	cat   *catalog.Catalog
	alpha float64
}

// NewAnalyzer creates an analyzer with the default EWMA decay.
func NewAnalyzer(cat *catalog.Catalog) *Analyzer {
	return &Analyzer{cat: cat, alpha: DefaultAlpha}
}

// ComputeTrend analyzes one metric's ordered series. The code must exist in
// the catalog; requesting an unknown metric is a caller error because its
// trend threshold cannot be resolved.
func (a *Analyzer) ComputeTrend(code string, points []Point) (*Result, error) {
	def, err := a.cat.Definition(code)
	if err != nil {
		return nil, fmt.Errorf("compute trend: %w", err)
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}

	res := &Result{
		Metric:     code,
		Smoothed:   EWMA(values, a.alpha),
		Confidence: confidenceFor(len(points)),
	}

	if len(points) < 2 {
		res.Trend = Insufficient
		return res, nil
	}

	slope := slopePerDay(points)
	res.SlopePerDay = &slope

	threshold := def.TrendThreshold
	if threshold <= 0 {
		threshold = catalog.DefaultTrendThreshold
	}
	switch {
	case slope >= threshold:
		res.Trend = Worsening
	case slope <= -threshold:
		res.Trend = Improving
	default:
		res.Trend = Stable
	}
	return res, nil
}

// EWMA smooths values with an exponentially weighted moving average. The
// first smoothed value equals the first raw value; an empty input yields an
// empty (nil-free) slice.
func EWMA(values []float64, alpha float64) []float64 {
	smoothed := make([]float64, 0, len(values))
	if len(values) == 0 {
		return smoothed
	}
	current := values[0]
	smoothed = append(smoothed, current)
	for _, v := range values[1:] {
		current = alpha*v + (1-alpha)*current
		smoothed = append(smoothed, current)
	}
	return smoothed
}

// slopePerDay fits value against elapsed days since the first point by
// ordinary least squares. Callers guarantee len(points) >= 2. Zero variance
// in x (all readings at the same instant) yields slope 0.
func slopePerDay(points []Point) float64 {
	n := float64(len(points))
	first := points[0].Timestamp

	var xMean, yMean float64
	xs := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Timestamp.Sub(first).Hours() / 24
		xMean += xs[i]
		yMean += p.Value
	}
	xMean /= n
	yMean /= n

	var num, den float64
	for i, p := range points {
		num += (xs[i] - xMean) * (p.Value - yMean)
		den += (xs[i] - xMean) * (xs[i] - xMean)
	}
	if den == 0 {
		return 0
	}
	return num / den
}

func confidenceFor(count int) Confidence {
	switch {
	case count >= 8:
		return ConfidenceHigh
	case count >= 4:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// SeriesOverview condenses a series into a one-sentence advisory for
// aggregate dashboards, based on the series mean.
func SeriesOverview(points []Point) string {
	if len(points) == 0 {
		return "Not enough data to summarize this series"
	}
	var sum float64
	for _, p := range points {
		sum += p.Value
	}
	avg := sum / float64(len(points))
	switch {
	case avg > 140:
		return "Average above the normal range; consider a mobile clinic visit"
	case avg < 90:
		return "Average is low; assess hypoglycemia risk"
	default:
		return "Series is within a controlled range"
	}
}
