package loadtest

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/baller70/shotform/pkg/logger"
)

// Defaults for the command-line flags.
const (
	defaultBaseURL     = "http://localhost:9080"
	defaultRequests    = 1000
	defaultBatchSize   = 16
	defaultRejectRatio = 0.1
	defaultTimeout     = 30 * time.Second
	defaultJitter      = 0.005
	defaultSeed        = 1
	logFilePermission  = 0600
)

// ParseFlags builds a Config from command-line arguments. It returns
// flag.ErrHelp when -help was given.
func ParseFlags(args []string, output io.Writer) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("loadtest", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.BaseURL, "url", defaultBaseURL, "Base URL of the service")
	fs.IntVar(&cfg.Requests, "requests", defaultRequests, "Number of analysis requests to generate")
	fs.IntVar(&cfg.BatchSize, "batch", defaultBatchSize, "Items per batch call (0 submits individually)")
	fs.Float64Var(&cfg.RejectRatio, "reject-ratio", defaultRejectRatio, "Share of poses generated without a visible face")
	fs.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*2, "Number of concurrent submitters")
	fs.Float64Var(&cfg.RPS, "rps", 0, "Client-side request rate (0 = unpaced)")
	fs.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	fs.Uint64Var(&cfg.Seed, "seed", defaultSeed, "Generator seed")
	fs.Float64Var(&cfg.Jitter, "jitter", defaultJitter, "Max keypoint displacement (normalised units)")
	fs.StringVar(&cfg.OutputFile, "output", "", "Write generated scenarios to this JSON file")
	fs.StringVar(&cfg.LogFile, "log", "", "Also write logs to this file")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Log every failed verification")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the run parameters.
func (c *Config) Validate() error {
	var errs []error
	if c.BaseURL == "" {
		errs = append(errs, errors.New("url must not be empty"))
	}
	if c.Requests <= 0 {
		errs = append(errs, errors.New("requests must be positive"))
	}
	if c.BatchSize < 0 {
		errs = append(errs, errors.New("batch must not be negative"))
	}
	if c.Workers <= 0 {
		errs = append(errs, errors.New("workers must be positive"))
	}
	if c.RejectRatio < 0 || c.RejectRatio > 1 {
		errs = append(errs, errors.New("reject-ratio must be within [0, 1]"))
	}
	if c.RPS < 0 {
		errs = append(errs, errors.New("rps must not be negative"))
	}
	if c.Jitter < 0 {
		errs = append(errs, errors.New("jitter must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// SetupLogging initialises the global logger writing to stdout and, when
// logFile is set, to that file as well. The returned func closes the file.
func SetupLogging(logFile string) (func() error, error) {
	if logFile == "" {
		return func() error { return nil }, logger.Init()
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	if err := logger.Init(logger.WithOutput(io.MultiWriter(os.Stdout, file))); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return file.Close, nil
}
