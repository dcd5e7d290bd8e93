// Package feedback turns evaluated metrics into strengths, improvements,
// tips, drill picks and coaching notes for a tier persona. Every function is
// pure: same metrics in, same lists out.
package feedback

import (
	"sort"
	"strings"

	"github.com/baller70/shotform/internal/domain/evaluation"
	"github.com/baller70/shotform/internal/domain/profile"
	"github.com/baller70/shotform/internal/domain/tier"
)

// Selection caps and thresholds.
const (
	MaxStrengths    = 3
	MaxImprovements = 3
	MaxDrills       = 4
	MaxTips         = 2

	strengthDeviation = 5.0
	weakAreaFraction  = 0.15
	defaultRanking    = "excellent"
)

// ProcessedFeedback is one rendered strength or improvement line.
type ProcessedFeedback struct {
	Metric  string `json:"metric"`
	Area    string `json:"area"`
	Message string `json:"message"`
}

// DrillRecommendation is a catalog drill picked for a weak area.
type DrillRecommendation struct {
	tier.Drill
	Reason string `json:"reason"`
}

// Selection bundles everything the selector produces for one analysis.
type Selection struct {
	Strengths     []ProcessedFeedback   `json:"strengths"`
	Improvements  []ProcessedFeedback   `json:"improvements"`
	Tips          []string              `json:"tips"`
	Drills        []DrillRecommendation `json:"drills"`
	CoachingNotes string                `json:"coachingNotes"`
}

// Select runs every selector over metrics.
func Select(c tier.Criteria, metrics []evaluation.ProcessedMetric, p profile.Profile) Selection {
	weak := WeakAreas(metrics)
	return Selection{
		Strengths:     Strengths(c, metrics),
		Improvements:  Improvements(c, metrics),
		Tips:          Tips(c, weak),
		Drills:        Drills(c, weak),
		CoachingNotes: CoachingNotes(c, p),
	}
}

// Strengths returns up to three optimal metrics within 5 units of the
// optimum, in metric order.
func Strengths(c tier.Criteria, metrics []evaluation.ProcessedMetric) []ProcessedFeedback {
	out := []ProcessedFeedback{}
	for _, m := range metrics {
		if len(out) == MaxStrengths {
			break
		}
		if !m.IsOptimal || m.Deviation >= strengthDeviation {
			continue
		}
		ranking := m.Ranking
		if ranking == "" {
			ranking = defaultRanking
		}
		out = append(out, ProcessedFeedback{
			Metric:  m.Name,
			Area:    m.Label,
			Message: render(c.Persona.StrengthTemplate, m, ranking),
		})
	}
	return out
}

// Improvements returns up to three non-optimal metrics, largest deviation
// first. Equal deviations keep metric order.
func Improvements(c tier.Criteria, metrics []evaluation.ProcessedMetric) []ProcessedFeedback {
	off := make([]evaluation.ProcessedMetric, 0, len(metrics))
	for _, m := range metrics {
		if !m.IsOptimal {
			off = append(off, m)
		}
	}
	byDeviation(off)
	out := []ProcessedFeedback{}
	for _, m := range off {
		if len(out) == MaxImprovements {
			break
		}
		out = append(out, ProcessedFeedback{
			Metric:  m.Name,
			Area:    m.Label,
			Message: render(c.Persona.ImprovementTemplate, m, m.Ranking),
		})
	}
	return out
}

// WeakAreas returns metrics deviating by more than 15% of their tier range,
// largest deviation first.
func WeakAreas(metrics []evaluation.ProcessedMetric) []evaluation.ProcessedMetric {
	out := make([]evaluation.ProcessedMetric, 0, len(metrics))
	for _, m := range metrics {
		if m.Deviation > weakAreaFraction*m.Range().Span() {
			out = append(out, m)
		}
	}
	byDeviation(out)
	return out
}

// Drills picks catalog drills whose target area or name contains a weak
// area's focus keyword, case-insensitively. Each drill appears once and at
// most four are returned.
func Drills(c tier.Criteria, weak []evaluation.ProcessedMetric) []DrillRecommendation {
	out := []DrillRecommendation{}
	seen := make(map[string]bool)
	for _, m := range weak {
		focus := tier.FocusArea(m.Name)
		for _, d := range c.Drills {
			if len(out) == MaxDrills {
				return out
			}
			if seen[d.Name] || !matches(d, focus) {
				continue
			}
			seen[d.Name] = true
			out = append(out, DrillRecommendation{Drill: d, Reason: m.Label})
		}
	}
	return out
}

func matches(d tier.Drill, focus string) bool {
	return strings.Contains(strings.ToLower(d.TargetArea), focus) ||
		strings.Contains(strings.ToLower(d.Name), focus)
}

var tipsByFocus = map[string]string{ //nolint:gochecknoglobals // static tip table
	"elbow":    "Keep your elbow directly under the ball and pointed at the rim.",
	"knee":     "Bend your knees as you catch so the power comes from your legs, not your arms.",
	"shoulder": "Square your shoulders to the basket before you start your shot.",
	"hip":      "Keep your hips stacked under your shoulders through the whole shot.",
	"release":  "Let the ball go near the top of your jump with one smooth snap of the wrist.",
	"follow":   "Hold your follow-through with a relaxed wrist until the ball reaches the rim.",
	"arc":      "Shoot up and over the front of the rim to give the ball a softer arc.",
	"balance":  "Land where you took off; a balanced base makes every shot repeatable.",
}

// Tips returns one tip for each of the first two weak areas, falling back to
// the persona tip template when the table has no entry. Duplicate tips are
// dropped.
func Tips(c tier.Criteria, weak []evaluation.ProcessedMetric) []string {
	out := []string{}
	seen := make(map[string]bool)
	for i, m := range weak {
		if i == MaxTips {
			break
		}
		tip, ok := tipsByFocus[tier.FocusArea(m.Name)]
		if !ok {
			tip = strings.ReplaceAll(c.Persona.TipTemplate, tier.PlaceholderArea, strings.ToLower(m.Label))
		}
		if seen[tip] {
			continue
		}
		seen[tip] = true
		out = append(out, tip)
	}
	return out
}

func render(tmpl string, m evaluation.ProcessedMetric, ranking string) string {
	return strings.NewReplacer(
		tier.PlaceholderArea, m.Label,
		tier.PlaceholderValue, evaluation.FormatNumber(m.Value),
		tier.PlaceholderUnit, m.Unit,
		tier.PlaceholderRanking, ranking,
		tier.PlaceholderTarget, evaluation.FormatNumber(m.Optimal),
		tier.PlaceholderAmount, evaluation.FormatNumber(m.Deviation),
	).Replace(tmpl)
}

func byDeviation(ms []evaluation.ProcessedMetric) {
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].Deviation > ms[j].Deviation })
}
