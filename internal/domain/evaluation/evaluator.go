// Package evaluation compares measured metrics with a tier's optimal ranges
// and ranks them against the tier's peer benchmarks.
package evaluation

import (
	"fmt"
	"math"
	"strconv"

	"github.com/baller70/shotform/internal/domain/tier"
)

// Feedback wording.
const (
	FeedbackExcellent = "Excellent! Very close to optimal."
	FeedbackGood      = "Good, within acceptable range."

	excellentFraction = 0.1
)

// ProcessedMetric is one metric evaluated against the active tier.
type ProcessedMetric struct {
	Name       string  `json:"name"`
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	Optimal    float64 `json:"optimal"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	IsOptimal  bool    `json:"isOptimal"`
	Deviation  float64 `json:"deviation"`
	Feedback   string  `json:"feedback"`
	Percentile string  `json:"percentile,omitempty"`
	Ranking    string  `json:"ranking,omitempty"`
}

// Range returns the tier range the metric was evaluated against.
func (m ProcessedMetric) Range() tier.MetricRange {
	return tier.MetricRange{Min: m.Min, Max: m.Max, Optimal: m.Optimal, Unit: m.Unit}
}

// Evaluator evaluates metric values for one tier.
type Evaluator struct {
	criteria tier.Criteria
}

// New creates an Evaluator bound to the given tier criteria.
func New(c tier.Criteria) *Evaluator {
	return &Evaluator{criteria: c}
}

// Evaluate returns one ProcessedMetric per tier metric present in values,
// in tier.MetricNames order. Absent metrics are skipped. Peer rankings are
// attached only when the tier persona enables comparison.
func (e *Evaluator) Evaluate(values map[string]float64) []ProcessedMetric {
	out := make([]ProcessedMetric, 0, len(values))
	for _, name := range tier.MetricNames() {
		v, ok := values[name]
		if !ok {
			continue
		}
		m, ok := e.EvaluateMetric(name, v)
		if !ok {
			continue
		}
		if e.criteria.Persona.ShowPeerComparison {
			if r, ok := Rank(e.criteria, name, v); ok {
				m.Percentile = r.Percentile
				m.Ranking = r.Label
			}
		}
		out = append(out, m)
	}
	return out
}

// EvaluateMetric evaluates a single value. It reports false when the tier
// defines no range for name.
func (e *Evaluator) EvaluateMetric(name string, value float64) (ProcessedMetric, bool) {
	r, ok := e.criteria.Metric(name)
	if !ok {
		return ProcessedMetric{}, false
	}
	deviation := math.Abs(value - r.Optimal)
	return ProcessedMetric{
		Name:      name,
		Label:     tier.Label(name),
		Value:     value,
		Unit:      r.Unit,
		Optimal:   r.Optimal,
		Min:       r.Min,
		Max:       r.Max,
		IsOptimal: r.Contains(value),
		Deviation: deviation,
		Feedback:  feedback(r, value, deviation),
	}, true
}

func feedback(r tier.MetricRange, value, deviation float64) string {
	switch {
	case value < r.Min:
		return fmt.Sprintf("Below optimal range, increase by %s %s", FormatNumber(r.Min-value), r.Unit)
	case value > r.Max:
		return fmt.Sprintf("Above optimal range, decrease by %s %s", FormatNumber(value-r.Max), r.Unit)
	case deviation <= excellentFraction*r.Span():
		return FeedbackExcellent
	default:
		return FeedbackGood
	}
}

// FormatNumber prints v with at most two decimals and no trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
