package tier

import "errors"

// Sentinel kinds for tier lookups and registry validation.
var (
	ErrUnknownTier      = errors.New("unknown coaching tier")
	ErrMissingTier      = errors.New("tier not registered")
	ErrMissingMetric    = errors.New("metric range missing")
	ErrInvalidRange     = errors.New("metric range must satisfy min <= optimal <= max")
	ErrInvalidBenchmark = errors.New("benchmark thresholds out of order")
	ErrEmptyCatalog     = errors.New("tier has no drills or report sections")
)
