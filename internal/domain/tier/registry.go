package tier

import (
	"errors"
	"fmt"
)

// Registry is the read-only catalog of tier criteria. Build it once at
// start-up and pass it to whatever needs it; it is safe for concurrent use.
type Registry struct {
	criteria map[Tier]Criteria
}

// NewRegistry builds the registry from the static tier definitions.
func NewRegistry() *Registry {
	r := &Registry{criteria: make(map[Tier]Criteria, len(All()))}
	for _, t := range All() {
		r.criteria[t] = definition(t)
	}
	return r
}

// Tiers returns the registered tiers in ascending order.
func (r *Registry) Tiers() []Tier {
	return All()
}

// Criteria returns a copy of the criteria for t. An invalid tier is a
// programming error and panics.
func (r *Registry) Criteria(t Tier) Criteria {
	c, ok := r.criteria[t]
	if !ok {
		panic(fmt.Sprintf("tier registry: %v", fmt.Errorf("%w: %d", ErrUnknownTier, int(t))))
	}
	return c.clone()
}

// Lookup is the non-panicking variant of Criteria.
func (r *Registry) Lookup(t Tier) (Criteria, error) {
	c, ok := r.criteria[t]
	if !ok {
		return Criteria{}, fmt.Errorf("%w: %d", ErrUnknownTier, int(t))
	}
	return c.clone(), nil
}

// Validate checks every tier definition: all metrics present with
// min <= optimal <= max, ordered benchmark thresholds and non-empty catalogs.
func (r *Registry) Validate() error {
	var errs []error
	for _, t := range All() {
		c, ok := r.criteria[t]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: %w", t, ErrMissingTier))
			continue
		}
		for _, name := range MetricNames() {
			m, ok := c.Metrics[name]
			if !ok {
				errs = append(errs, fmt.Errorf("%s.%s: %w", t, name, ErrMissingMetric))
				continue
			}
			if m.Min > m.Optimal || m.Optimal > m.Max || m.Min == m.Max {
				errs = append(errs, fmt.Errorf("%s.%s: %w", t, name, ErrInvalidRange))
			}
		}
		for _, b := range c.Benchmarks {
			ordered := b.Average < b.Top25 && b.Top25 < b.Top10 && b.Top10 < b.Top5
			if LowerIsBetter(b.Metric) {
				ordered = b.Average > b.Top25 && b.Top25 > b.Top10 && b.Top10 > b.Top5
			}
			if !ordered {
				errs = append(errs, fmt.Errorf("%s.%s: %w", t, b.Metric, ErrInvalidBenchmark))
			}
		}
		if len(c.Drills) == 0 || len(c.ReportSections) == 0 {
			errs = append(errs, fmt.Errorf("%s: %w", t, ErrEmptyCatalog))
		}
	}
	return errors.Join(errs...)
}
