// Package analysis composes the shooting-form pipeline: derive keypoints,
// validate, measure, evaluate, score, select feedback and assemble the
// report. One call handles one pose; nothing is shared between calls except
// the read-only tier registry.
package analysis

import (
	"fmt"
	"math"

	"github.com/baller70/shotform/internal/domain/biomech"
	"github.com/baller70/shotform/internal/domain/evaluation"
	"github.com/baller70/shotform/internal/domain/feedback"
	"github.com/baller70/shotform/internal/domain/pose"
	"github.com/baller70/shotform/internal/domain/profile"
	"github.com/baller70/shotform/internal/domain/report"
	"github.com/baller70/shotform/internal/domain/scoring"
	"github.com/baller70/shotform/internal/domain/tier"
	"github.com/baller70/shotform/internal/domain/validation"
)

// Request is one analysis call.
type Request struct {
	Pose    pose.Pose
	Profile profile.Profile
	// Measurements are values measured outside the pose (follow-through,
	// arc, release time from video). They override pose-derived values of
	// the same name.
	Measurements map[string]float64
	// OverallScore, when set, is used instead of the computed score.
	OverallScore *int
}

// Result carries the validation outcome and, for valid poses, the analysis.
type Result struct {
	Validation validation.Result
	Analysis   *report.ProcessedAnalysis
}

// Analyzer runs the pipeline.
type Analyzer struct {
	registry   *tier.Registry
	deriver    *pose.Deriver
	validator  *validation.Validator
	calculator *biomech.Calculator
	aggregator *scoring.Aggregator
	assembler  *report.Assembler
}

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithDeriver replaces the keypoint deriver.
func WithDeriver(d *pose.Deriver) Option {
	return func(a *Analyzer) {
		if d != nil {
			a.deriver = d
		}
	}
}

// WithValidator replaces the pose validator.
func WithValidator(v *validation.Validator) Option {
	return func(a *Analyzer) {
		if v != nil {
			a.validator = v
		}
	}
}

// WithCalculator replaces the angle calculator.
func WithCalculator(c *biomech.Calculator) Option {
	return func(a *Analyzer) {
		if c != nil {
			a.calculator = c
		}
	}
}

// WithAggregator replaces the score aggregator.
func WithAggregator(s *scoring.Aggregator) Option {
	return func(a *Analyzer) {
		if s != nil {
			a.aggregator = s
		}
	}
}

// WithAssembler replaces the report assembler.
func WithAssembler(r *report.Assembler) Option {
	return func(a *Analyzer) {
		if r != nil {
			a.assembler = r
		}
	}
}

// New creates an Analyzer over the given registry.
func New(registry *tier.Registry, opts ...Option) *Analyzer {
	a := &Analyzer{
		registry:   registry,
		deriver:    pose.NewDeriver(),
		validator:  validation.New(),
		calculator: biomech.NewCalculator(),
		aggregator: scoring.NewAggregator(),
		assembler:  report.NewAssembler(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Prepare normalises and derives the pose.
func (a *Analyzer) Prepare(p pose.Pose) pose.Pose {
	return a.deriver.Derive(p.Normalize())
}

// Validate prepares p and runs the validator only.
func (a *Analyzer) Validate(p pose.Pose) validation.Result {
	return a.validator.Validate(a.Prepare(p))
}

// Analyze runs the full pipeline. An invalid pose is not an error: the
// result carries the validation failures and a nil analysis. The only error
// is an out-of-range tier.
func (a *Analyzer) Analyze(req Request) (Result, error) {
	t := req.Profile.CoachingTier
	criteria, err := a.registry.Lookup(t)
	if err != nil {
		return Result{}, fmt.Errorf("analyze: %w", err)
	}

	derived := a.Prepare(req.Pose)
	verdict := a.validator.Validate(derived)
	if !verdict.IsValid {
		return Result{Validation: verdict}, nil
	}

	bio := a.calculator.Analyze(derived)
	values := bio.Metrics()
	for name, v := range req.Measurements {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		values[name] = v
	}

	metrics := evaluation.New(criteria).Evaluate(values)
	score := a.aggregator.Overall(criteria, values, req.OverallScore)
	selection := feedback.Select(criteria, metrics, req.Profile)

	out := a.assembler.Assemble(report.Input{
		Criteria:     criteria,
		Score:        score,
		Metrics:      metrics,
		Selection:    selection,
		Warnings:     verdict.Warnings,
		Biomechanics: bio,
	})
	return Result{Validation: verdict, Analysis: &out}, nil
}
