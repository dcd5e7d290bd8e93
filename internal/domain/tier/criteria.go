package tier

import "strings"

// Metric names evaluated for every tier.
const (
	MetricElbowAngle             = "elbowAngle"
	MetricKneeAngle              = "kneeAngle"
	MetricShoulderAngle          = "shoulderAngle"
	MetricHipAngle               = "hipAngle"
	MetricReleaseAngle           = "releaseAngle"
	MetricReleaseHeight          = "releaseHeight"
	MetricFollowThroughExtension = "followThroughExtension"
	MetricShotArc                = "shotArc"
	MetricReleaseTime            = "releaseTime"
	MetricBalanceScore           = "balanceScore"
)

// MetricNames lists the evaluated metrics in report order.
func MetricNames() []string {
	return []string{
		MetricElbowAngle, MetricKneeAngle, MetricShoulderAngle, MetricHipAngle,
		MetricReleaseAngle, MetricReleaseHeight, MetricFollowThroughExtension,
		MetricShotArc, MetricReleaseTime, MetricBalanceScore,
	}
}

// Units.
const (
	UnitDegrees = "degrees"
	UnitInches  = "inches"
	UnitPercent = "%"
	UnitSeconds = "seconds"
	UnitPoints  = "points"
)

// metricInfo carries presentation metadata for a metric.
type metricInfo struct {
	label string
	focus string
}

var metricCatalog = map[string]metricInfo{ //nolint:gochecknoglobals // static metric metadata
	MetricElbowAngle:             {"Elbow Angle", "elbow"},
	MetricKneeAngle:              {"Knee Bend", "knee"},
	MetricShoulderAngle:          {"Shoulder Alignment", "shoulder"},
	MetricHipAngle:               {"Hip Alignment", "hip"},
	MetricReleaseAngle:           {"Release Angle", "release"},
	MetricReleaseHeight:          {"Release Height", "release"},
	MetricFollowThroughExtension: {"Follow-Through", "follow"},
	MetricShotArc:                {"Shot Arc", "arc"},
	MetricReleaseTime:            {"Release Time", "release"},
	MetricBalanceScore:           {"Balance", "balance"},
}

// Label returns the human readable name of a metric.
func Label(metric string) string {
	if info, ok := metricCatalog[metric]; ok {
		return info.label
	}
	return metric
}

// FocusArea returns the keyword used to match drills and tips for a metric.
func FocusArea(metric string) string {
	if info, ok := metricCatalog[metric]; ok {
		return info.focus
	}
	return strings.ToLower(metric)
}

// LowerIsBetter reports whether smaller values of a benchmarked metric are
// better. Timing and variance metrics are; everything else is not.
func LowerIsBetter(metric string) bool {
	return strings.Contains(metric, "Variance") || strings.Contains(metric, "Time")
}

// MetricRange is the acceptable and ideal band of one metric for a tier.
type MetricRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Optimal float64 `json:"optimal"`
	Unit    string  `json:"unit"`
}

// Span returns max - min.
func (r MetricRange) Span() float64 { return r.Max - r.Min }

// Contains reports whether v lies within [min, max].
func (r MetricRange) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Benchmark holds peer percentile thresholds for a metric.
type Benchmark struct {
	Metric  string  `json:"metric"`
	Average float64 `json:"average"`
	Top25   float64 `json:"top25"`
	Top10   float64 `json:"top10"`
	Top5    float64 `json:"top5"`
	Unit    string  `json:"unit"`
}

// Drill is one practice exercise in a tier's catalog.
type Drill struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TargetArea  string `json:"targetArea"`
	Duration    string `json:"duration"`
	Difficulty  string `json:"difficulty"`
	Frequency   string `json:"frequency"`
}

// ScoreCategory buckets an overall score.
type ScoreCategory string

// Score categories, best first.
const (
	CategoryExcellent  ScoreCategory = "excellent"
	CategoryGood       ScoreCategory = "good"
	CategoryDeveloping ScoreCategory = "developing"
	CategoryNeedsWork  ScoreCategory = "needsWork"
)

// ScoreThresholds are the inclusive lower bounds of each category.
type ScoreThresholds struct {
	Excellent  int `json:"excellent"`
	Good       int `json:"good"`
	Developing int `json:"developing"`
}

// Persona is the tone, vocabulary and feature flags used when talking to a
// shooter of a given tier.
type Persona struct {
	Name                string                   `json:"name"`
	Tone                string                   `json:"tone"`
	ShowPeerComparison  bool                     `json:"showPeerComparison"`
	Opening             string                   `json:"opening"`
	Closing             string                   `json:"closing"`
	StrengthTemplate    string                   `json:"strengthTemplate"`
	ImprovementTemplate string                   `json:"improvementTemplate"`
	TipTemplate         string                   `json:"tipTemplate"`
	Thresholds          ScoreThresholds          `json:"thresholds"`
	CategoryLabels      map[ScoreCategory]string `json:"categoryLabels"`
}

// Criteria is the full analysis configuration of one tier.
type Criteria struct {
	Tier           Tier                   `json:"tier"`
	Label          string                 `json:"label"`
	AgeRange       string                 `json:"ageRange"`
	Metrics        map[string]MetricRange `json:"metrics"`
	Benchmarks     []Benchmark            `json:"benchmarks"`
	Drills         []Drill                `json:"drills"`
	AnalysisDepth  string                 `json:"analysisDepth"`
	ReportSections []string               `json:"reportSections"`
	Persona        Persona                `json:"persona"`
}

// Metric returns the range configured for a metric.
func (c Criteria) Metric(name string) (MetricRange, bool) {
	r, ok := c.Metrics[name]
	return r, ok
}

// Benchmark returns the benchmark with an exactly matching metric name.
func (c Criteria) Benchmark(name string) (Benchmark, bool) {
	for _, b := range c.Benchmarks {
		if b.Metric == name {
			return b, true
		}
	}
	return Benchmark{}, false
}

// Category buckets an overall score using the persona thresholds.
func (c Criteria) Category(score int) ScoreCategory {
	th := c.Persona.Thresholds
	switch {
	case score >= th.Excellent:
		return CategoryExcellent
	case score >= th.Good:
		return CategoryGood
	case score >= th.Developing:
		return CategoryDeveloping
	default:
		return CategoryNeedsWork
	}
}

// CategoryLabel returns the persona's wording for a category.
func (c Criteria) CategoryLabel(cat ScoreCategory) string {
	if l, ok := c.Persona.CategoryLabels[cat]; ok {
		return l
	}
	return string(cat)
}

func (c Criteria) clone() Criteria {
	out := c
	out.Metrics = make(map[string]MetricRange, len(c.Metrics))
	for k, v := range c.Metrics {
		out.Metrics[k] = v
	}
	out.Benchmarks = append([]Benchmark(nil), c.Benchmarks...)
	out.Drills = append([]Drill(nil), c.Drills...)
	out.ReportSections = append([]string(nil), c.ReportSections...)
	out.Persona.CategoryLabels = make(map[ScoreCategory]string, len(c.Persona.CategoryLabels))
	for k, v := range c.Persona.CategoryLabels {
		out.Persona.CategoryLabels[k] = v
	}
	return out
}
