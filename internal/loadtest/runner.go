package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/baller70/shotform/pkg/logger"

	"golang.org/x/time/rate"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// PercentageMultiplier converts ratios to percentages.
const PercentageMultiplier = 100

// unit is one call to the service: a single analysis or a batch.
type unit struct {
	scenarios []Scenario
	batch     bool
}

// tally aggregates outcomes across submitters.
type tally struct {
	submitted  atomic.Int64
	analyzed   atomic.Int64
	rejected   atomic.Int64
	failed     atomic.Int64
	throttled  atomic.Int64
	mismatched atomic.Int64
}

func (t *tally) add(o outcome, n int64) {
	switch o {
	case outcomeAnalyzed:
		t.analyzed.Add(n)
	case outcomeRejected:
		t.rejected.Add(n)
	case outcomeFailed:
		t.failed.Add(n)
	case outcomeThrottled:
		t.throttled.Add(n)
	}
}

// Run executes a complete load test and returns its statistics. It fails
// with ErrVerificationFailed when any response contradicts its scenario.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.Get()
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting shotform load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("requests", cfg.Requests),
		logger.Int("batchSize", cfg.BatchSize),
		logger.Int("workers", cfg.Workers),
		logger.Float64("rps", cfg.RPS),
		logger.Any("seed", cfg.Seed))

	c := newClient(cfg.BaseURL, cfg.Timeout)
	if err := checkServiceHealth(ctx, c); err != nil {
		return nil, err
	}

	scenarios, err := NewGenerator(cfg.Seed, cfg.Jitter, cfg.RejectRatio).Generate(ctx, cfg.Requests)
	if err != nil {
		return nil, fmt.Errorf("scenario generation failed: %w", err)
	}
	stats.Generated = len(scenarios)

	t := submit(ctx, cfg, c, plan(scenarios, cfg.BatchSize))

	if cfg.OutputFile != "" {
		if err := saveScenarios(ctx, cfg.OutputFile, scenarios); err != nil {
			log.Warn(ctx, "failed to save scenarios to file", logger.Error(err))
		}
	}

	stats.Submitted = int(t.submitted.Load())
	stats.Analyzed = int(t.analyzed.Load())
	stats.Rejected = int(t.rejected.Load())
	stats.Failed = int(t.failed.Load())
	stats.Throttled = int(t.throttled.Load())
	stats.Mismatched = int(t.mismatched.Load())
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if stats.Mismatched > 0 {
		return stats, fmt.Errorf("%w: %d of %d", ErrVerificationFailed, stats.Mismatched, stats.Submitted)
	}
	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("load test interrupted: %w", err)
	}
	log.Info(ctx, "load test completed successfully")
	return stats, nil
}

// plan splits scenarios into calls. With a positive batch size the first
// half is sent individually and the rest in batches.
func plan(scenarios []Scenario, batchSize int) []unit {
	singles := scenarios
	var batched []Scenario
	if batchSize > 0 {
		half := len(scenarios) / 2
		singles, batched = scenarios[:half], scenarios[half:]
	}

	units := make([]unit, 0, len(singles)+len(batched)/max(batchSize, 1)+1)
	for i := range singles {
		units = append(units, unit{scenarios: singles[i : i+1]})
	}
	for start := 0; start < len(batched); start += batchSize {
		end := min(start+batchSize, len(batched))
		units = append(units, unit{scenarios: batched[start:end], batch: true})
	}
	return units
}

// submit sends every unit through a fixed set of workers, paced by a
// shared limiter.
func submit(ctx context.Context, cfg *Config, c *client, units []unit) *tally {
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	limiter := rate.NewLimiter(limit, max(cfg.Workers, 1))

	var (
		t  tally
		wg sync.WaitGroup
	)
	work := make(chan unit, cfg.Workers*2)
	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range work {
				if err := limiter.Wait(ctx); err != nil {
					return
				}
				submitUnit(ctx, cfg, c, u, &t)
			}
		}()
	}

	go func() {
		defer close(work)
		for _, u := range units {
			select {
			case <-ctx.Done():
				return
			case work <- u:
			}
		}
	}()

	wg.Wait()
	return &t
}

func submitUnit(ctx context.Context, cfg *Config, c *client, u unit, t *tally) {
	log := logger.Get()
	n := int64(len(u.scenarios))
	t.submitted.Add(n)

	mismatch := func(err error) {
		t.mismatched.Add(1)
		if cfg.Verbose {
			log.Warn(ctx, "verification failed", logger.Error(err))
		}
	}

	if !u.batch {
		sc := u.scenarios[0]
		status, body, err := c.post(ctx, "/v1/analyses", sc.Request)
		if err != nil {
			t.add(outcomeFailed, 1)
			return
		}
		o, verr := verifySingle(sc, status, body)
		t.add(o, 1)
		if verr != nil {
			mismatch(verr)
		}
		return
	}

	items := make([]RequestBody, len(u.scenarios))
	for i, sc := range u.scenarios {
		items[i] = sc.Request
	}
	status, body, err := c.post(ctx, "/v1/analyses/batch", map[string]any{"items": items})
	switch {
	case err != nil:
		t.add(outcomeFailed, n)
		return
	case status == http.StatusTooManyRequests:
		t.add(outcomeThrottled, n)
		return
	case status != http.StatusOK:
		t.add(outcomeFailed, n)
		mismatch(fmt.Errorf("batch of %d: unexpected status %d", n, status))
		return
	}

	var resp batchResponse
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Items) != len(u.scenarios) {
		t.add(outcomeFailed, n)
		mismatch(fmt.Errorf("batch of %d: malformed response", n))
		return
	}
	for _, item := range resp.Items {
		if item.Index < 0 || item.Index >= len(u.scenarios) {
			t.add(outcomeFailed, 1)
			mismatch(fmt.Errorf("batch item index %d out of range", item.Index))
			continue
		}
		o, verr := verifyBatchItem(u.scenarios[item.Index], item)
		t.add(o, 1)
		if verr != nil {
			mismatch(verr)
		}
	}
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, c *client) error {
	status, _, err := c.get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, status)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveScenarios writes the generated scenarios to a JSON file.
func saveScenarios(ctx context.Context, filename string, scenarios []Scenario) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(scenarios, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scenarios: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	logger.Get().Info(ctx, "scenarios saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, requestsPerSecond float64
	if stats.Submitted > 0 {
		successRate = float64(stats.Analyzed+stats.Rejected) / float64(stats.Submitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("analyzed", stats.Analyzed),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
		logger.Int("throttled", stats.Throttled),
		logger.Int("mismatched", stats.Mismatched),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
