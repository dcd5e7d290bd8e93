// Package scoring aggregates evaluated metrics into one 0-100 overall score.
package scoring

import (
	"math"

	"github.com/baller70/shotform/internal/domain/tier"
)

// Default scoring configuration constants.
const (
	defaultScore  = 50
	maxScoreValue = 100.0
)

// DefaultWeights returns the metric weight table. Weights sum to 1.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		tier.MetricElbowAngle:             0.15,
		tier.MetricShoulderAngle:          0.10,
		tier.MetricKneeAngle:              0.12,
		tier.MetricHipAngle:               0.08,
		tier.MetricReleaseAngle:           0.12,
		tier.MetricFollowThroughExtension: 0.13,
		tier.MetricShotArc:                0.10,
		tier.MetricBalanceScore:           0.12,
		tier.MetricReleaseTime:            0.08,
	}
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithWeights replaces the weight table. Non-positive weights are dropped.
func WithWeights(weights map[string]float64) Option {
	return func(a *Aggregator) {
		// Copy the weights map to avoid external modifications
		a.weights = make(map[string]float64, len(weights))
		for metric, weight := range weights {
			if weight > 0 {
				a.weights[metric] = weight
			}
		}
	}
}

// Result is an overall score with its persona category.
type Result struct {
	Score    int                `json:"score"`
	Category tier.ScoreCategory `json:"category"`
	Label    string             `json:"label"`
	// Computed is false when the caller supplied the score.
	Computed bool `json:"computed"`
}

// Aggregator combines per-metric optimality into a weighted score.
type Aggregator struct {
	weights map[string]float64
}

// NewAggregator creates an Aggregator with the default weight table.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// MetricScore is 100 at the optimum falling linearly to 0 one full range
// width away.
func MetricScore(r tier.MetricRange, value float64) float64 {
	span := r.Span()
	if span <= 0 {
		if value == r.Optimal {
			return maxScoreValue
		}
		return 0
	}
	return math.Max(0, maxScoreValue-math.Abs(value-r.Optimal)/span*maxScoreValue)
}

// Score computes the weighted mean over the weighted metrics present in
// values, renormalising weights to those present. It returns 50 when none
// are present. Metrics are visited in a fixed order so the result is
// reproducible.
func (a *Aggregator) Score(c tier.Criteria, values map[string]float64) int {
	var sum, total float64
	for _, metric := range tier.MetricNames() {
		weight, ok := a.weights[metric]
		if !ok {
			continue
		}
		v, ok := values[metric]
		if !ok {
			continue
		}
		r, ok := c.Metric(metric)
		if !ok {
			continue
		}
		sum += MetricScore(r, v) * weight
		total += weight
	}
	if total == 0 {
		return defaultScore
	}
	return int(math.Round(sum / total))
}

// Overall returns the supplied score when non-nil, otherwise the computed
// one, categorised by the tier persona thresholds.
func (a *Aggregator) Overall(c tier.Criteria, values map[string]float64, supplied *int) Result {
	res := Result{Computed: supplied == nil}
	if supplied != nil {
		res.Score = *supplied
	} else {
		res.Score = a.Score(c, values)
	}
	res.Category = c.Category(res.Score)
	res.Label = c.CategoryLabel(res.Category)
	return res
}
