// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults and Load(ctx) to layer
//   file and environment overrides on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/baller70/shotform/internal/domain/report"
)

// Entry angle modes.
const (
	EntryAngleMidpoint = "midpoint"
	EntryAngleRandom   = "random"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// WorkerCount sets the number of analysis workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size"`

	// MaxBatchSize caps the items accepted by one batch request.
	MaxBatchSize int `koanf:"max_batch_size"`

	// EntryAngleMode picks the entry angle offset: midpoint or random.
	EntryAngleMode string `koanf:"entry_angle_mode"`

	// EntryAngleSeed seeds the random entry angle offset.
	EntryAngleSeed int64 `koanf:"entry_angle_seed"`

	// RateLimitRPS is the sustained request rate per second. Zero disables limiting.
	RateLimitRPS float64 `koanf:"rate_limit_rps"`

	// RateLimitBurst is the token bucket size.
	RateLimitBurst int `koanf:"rate_limit_burst"`

	// MinMeanConfidence is the mean keypoint confidence below which a pose
	// is rejected as LOW_CONFIDENCE.
	MinMeanConfidence float64 `koanf:"min_mean_confidence"`

	// DefaultReportLevel is used when a request does not pick a markdown level.
	// Empty means no markdown unless requested.
	DefaultReportLevel string `koanf:"default_report_level"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		WorkerCount:       runtime.NumCPU(),
		QueueSize:         1024,
		MaxBatchSize:      32,
		EntryAngleMode:    EntryAngleMidpoint,
		EntryAngleSeed:    1,
		RateLimitRPS:      50,
		RateLimitBurst:    100,
		MinMeanConfidence: 0.3,
	}
}

// Validate reports every invalid field joined into one ErrInvalidConfig.
func (c *Config) Validate() error {
	var problems []string
	if c.Addr == "" {
		problems = append(problems, "addr must not be empty")
	}
	if c.WorkerCount <= 0 {
		problems = append(problems, "worker_count must be positive")
	}
	if c.QueueSize <= 0 {
		problems = append(problems, "queue_size must be positive")
	}
	if c.MaxBatchSize <= 0 {
		problems = append(problems, "max_batch_size must be positive")
	}
	switch c.EntryAngleMode {
	case EntryAngleMidpoint, EntryAngleRandom:
	default:
		problems = append(problems, fmt.Sprintf("entry_angle_mode %q must be midpoint or random", c.EntryAngleMode))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log_format %q must be text or json", c.LogFormat))
	}
	if c.RateLimitRPS < 0 {
		problems = append(problems, "rate_limit_rps must not be negative")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		problems = append(problems, "rate_limit_burst must be at least 1 when rate limiting is on")
	}
	if c.MinMeanConfidence <= 0 || c.MinMeanConfidence >= 1 {
		problems = append(problems, "min_mean_confidence must be within (0, 1)")
	}
	if c.DefaultReportLevel != "" {
		if _, err := report.ParseLevel(c.DefaultReportLevel); err != nil {
			problems = append(problems, fmt.Sprintf("default_report_level %q is unknown", c.DefaultReportLevel))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
