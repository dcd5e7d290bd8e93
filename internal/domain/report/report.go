// Package report assembles the final analysis aggregate and renders it as
// Markdown.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/baller70/shotform/internal/domain/biomech"
	"github.com/baller70/shotform/internal/domain/evaluation"
	"github.com/baller70/shotform/internal/domain/feedback"
	"github.com/baller70/shotform/internal/domain/scoring"
	"github.com/baller70/shotform/internal/domain/tier"
)

// ProcessedAnalysis is the root output of one analysis. It is immutable once
// returned; the caller owns persistence.
type ProcessedAnalysis struct {
	ID             string                         `json:"id"`
	Tier           tier.Tier                      `json:"tier"`
	TierLabel      string                         `json:"tierLabel"`
	AnalysisDepth  string                         `json:"analysisDepth"`
	OverallScore   int                            `json:"overallScore"`
	ScoreCategory  tier.ScoreCategory             `json:"scoreCategory"`
	ScoreLabel     string                         `json:"scoreLabel"`
	ScoreComputed  bool                           `json:"scoreComputed"`
	Metrics        []evaluation.ProcessedMetric   `json:"metrics"`
	Strengths      []feedback.ProcessedFeedback   `json:"strengths"`
	Improvements   []feedback.ProcessedFeedback   `json:"improvements"`
	Tips           []string                       `json:"tips"`
	Comparisons    []evaluation.Comparison        `json:"comparisons,omitempty"`
	Drills         []feedback.DrillRecommendation `json:"drills"`
	ReportSections []string                       `json:"reportSections"`
	CoachingNotes  string                         `json:"coachingNotes"`
	Warnings       []string                       `json:"warnings"`
	Biomechanics   biomech.Analysis               `json:"biomechanics"`
	Timestamp      time.Time                      `json:"timestamp"`
}

// Input carries the outputs of the earlier pipeline stages.
type Input struct {
	Criteria     tier.Criteria
	Score        scoring.Result
	Metrics      []evaluation.ProcessedMetric
	Selection    feedback.Selection
	Warnings     []string
	Biomechanics biomech.Analysis
}

// Assembler builds ProcessedAnalysis values.
type Assembler struct {
	now   func() time.Time
	newID func() string
}

// Option applies a configuration option to the Assembler.
type Option func(*Assembler)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		if now != nil {
			a.now = now
		}
	}
}

// WithIDGenerator overrides analysis ID generation.
func WithIDGenerator(gen func() string) Option {
	return func(a *Assembler) {
		if gen != nil {
			a.newID = gen
		}
	}
}

// NewAssembler creates an Assembler stamping random UUIDs and wall-clock UTC
// timestamps.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble composes the stage outputs into a ProcessedAnalysis.
func (a *Assembler) Assemble(in Input) ProcessedAnalysis {
	c := in.Criteria
	warnings := in.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	metrics := in.Metrics
	if metrics == nil {
		metrics = []evaluation.ProcessedMetric{}
	}
	sel := in.Selection
	return ProcessedAnalysis{
		ID:             a.newID(),
		Tier:           c.Tier,
		TierLabel:      c.Label,
		AnalysisDepth:  c.AnalysisDepth,
		OverallScore:   in.Score.Score,
		ScoreCategory:  in.Score.Category,
		ScoreLabel:     in.Score.Label,
		ScoreComputed:  in.Score.Computed,
		Metrics:        metrics,
		Strengths:      orEmpty(sel.Strengths),
		Improvements:   orEmpty(sel.Improvements),
		Tips:           orEmpty(sel.Tips),
		Comparisons:    evaluation.Compare(c, metrics),
		Drills:         orEmpty(sel.Drills),
		ReportSections: c.ReportSections,
		CoachingNotes:  sel.CoachingNotes,
		Warnings:       warnings,
		Biomechanics:   in.Biomechanics,
		Timestamp:      a.now().UTC(),
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
