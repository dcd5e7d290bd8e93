package report

import (
	"fmt"
	"strings"

	"github.com/baller70/shotform/internal/domain/evaluation"
)

// Level selects how much of the analysis the Markdown report shows.
type Level string

// Report levels.
const (
	LevelSummary  Level = "summary"
	LevelDetailed Level = "detailed"
	// LevelFull currently renders the same as LevelDetailed.
	LevelFull Level = "full"
)

// ParseLevel validates a report level string.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case LevelSummary, LevelDetailed, LevelFull:
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// Markdown renders the analysis at the given level. Summary shows counts
// only; detailed and full list every section.
func Markdown(a ProcessedAnalysis, level Level) string {
	var b strings.Builder
	b.WriteString("# Shooting Form Analysis\n\n")
	fmt.Fprintf(&b, "**Tier:** %s  \n", a.TierLabel)
	fmt.Fprintf(&b, "**Overall Score:** %d/100 (%s)\n\n", a.OverallScore, a.ScoreLabel)

	if level == LevelSummary {
		fmt.Fprintf(&b, "- Metrics evaluated: %d\n", len(a.Metrics))
		fmt.Fprintf(&b, "- Strengths: %d\n", len(a.Strengths))
		fmt.Fprintf(&b, "- Areas to improve: %d\n", len(a.Improvements))
		fmt.Fprintf(&b, "- Recommended drills: %d\n", len(a.Drills))
		return b.String()
	}

	if len(a.Strengths) > 0 {
		b.WriteString("## Strengths\n\n")
		for _, s := range a.Strengths {
			fmt.Fprintf(&b, "- %s\n", s.Message)
		}
		b.WriteString("\n")
	}
	if len(a.Improvements) > 0 {
		b.WriteString("## Areas to Improve\n\n")
		for _, s := range a.Improvements {
			fmt.Fprintf(&b, "- %s\n", s.Message)
		}
		b.WriteString("\n")
	}
	if len(a.Tips) > 0 {
		b.WriteString("## Tips\n\n")
		for _, t := range a.Tips {
			fmt.Fprintf(&b, "- %s\n", t)
		}
		b.WriteString("\n")
	}
	if len(a.Comparisons) > 0 {
		b.WriteString("## Peer Comparison\n\n")
		b.WriteString("| Metric | Value | Peer Average | Percentile | Ranking |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, c := range a.Comparisons {
			fmt.Fprintf(&b, "| %s | %s %s | %s %s | %s | %s |\n",
				c.Label,
				evaluation.FormatNumber(c.Value), c.Unit,
				evaluation.FormatNumber(c.PeerAverage), c.Unit,
				c.Percentile, c.Ranking)
		}
		b.WriteString("\n")
	}
	if len(a.Drills) > 0 {
		b.WriteString("## Recommended Drills\n\n")
		for _, d := range a.Drills {
			fmt.Fprintf(&b, "### %s\n\n%s\n\n- Focus: %s\n- Duration: %s\n- Frequency: %s\n\n",
				d.Name, d.Description, d.TargetArea, d.Duration, d.Frequency)
		}
	}
	if a.CoachingNotes != "" {
		fmt.Fprintf(&b, "## Coaching Notes\n\n%s\n", a.CoachingNotes)
	}
	return b.String()
}
