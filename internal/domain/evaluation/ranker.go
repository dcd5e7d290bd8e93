package evaluation

import "github.com/baller70/shotform/internal/domain/tier"

// Ranking is a metric's percentile bracket among tier peers.
type Ranking struct {
	Percentile string `json:"percentile"`
	Label      string `json:"label"`
}

// Percentile brackets, best first.
var (
	RankTop5         = Ranking{Percentile: "Top 5%", Label: "Elite"}
	RankTop10        = Ranking{Percentile: "Top 10%", Label: "Excellent"}
	RankTop25        = Ranking{Percentile: "Top 25%", Label: "Above Average"}
	RankTop50        = Ranking{Percentile: "Top 50%", Label: "Average"}
	RankBelowAverage = Ranking{Percentile: "Below Average", Label: "Needs Work"}
)

// Rank buckets value against the tier benchmark for metric. It reports false
// when the tier has no benchmark with that exact name; that means no ranking
// is available, not that something went wrong.
func Rank(c tier.Criteria, metric string, value float64) (Ranking, bool) {
	b, ok := c.Benchmark(metric)
	if !ok {
		return Ranking{}, false
	}
	atLeast := func(threshold float64) bool { return value >= threshold }
	if tier.LowerIsBetter(metric) {
		atLeast = func(threshold float64) bool { return value <= threshold }
	}
	switch {
	case atLeast(b.Top5):
		return RankTop5, true
	case atLeast(b.Top10):
		return RankTop10, true
	case atLeast(b.Top25):
		return RankTop25, true
	case atLeast(b.Average):
		return RankTop50, true
	default:
		return RankBelowAverage, true
	}
}

// Comparison sets one evaluated metric against the tier peer average.
type Comparison struct {
	Metric      string  `json:"metric"`
	Label       string  `json:"label"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	PeerAverage float64 `json:"peerAverage"`
	Percentile  string  `json:"percentile"`
	Ranking     string  `json:"ranking"`
}

// Compare builds peer comparisons for every ranked metric. It returns nil
// when the tier persona hides peer comparison.
func Compare(c tier.Criteria, metrics []ProcessedMetric) []Comparison {
	if !c.Persona.ShowPeerComparison {
		return nil
	}
	var out []Comparison
	for _, m := range metrics {
		b, ok := c.Benchmark(m.Name)
		if !ok || m.Ranking == "" {
			continue
		}
		out = append(out, Comparison{
			Metric:      m.Name,
			Label:       m.Label,
			Value:       m.Value,
			Unit:        m.Unit,
			PeerAverage: b.Average,
			Percentile:  m.Percentile,
			Ranking:     m.Ranking,
		})
	}
	return out
}
