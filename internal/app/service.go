// Package service hosts the shooting-form pipeline: synchronous single
// analyses plus batch analyses fanned out over the job queue and worker
// pool. It implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/baller70/shotform/internal/adapters/mq/queue"
	workerpool "github.com/baller70/shotform/internal/adapters/mq/worker"
	"github.com/baller70/shotform/internal/domain/analysis"
	"github.com/baller70/shotform/internal/domain/model"
	"github.com/baller70/shotform/internal/domain/pose"
	"github.com/baller70/shotform/internal/domain/tier"
	"github.com/baller70/shotform/internal/domain/validation"
	"github.com/baller70/shotform/pkg/logger"
	"github.com/baller70/shotform/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize    = 1024
	defaultMaxBatchSize = 32
)

// Service implements the API dependencies for the analysis service.
type Service struct {
	mu sync.RWMutex

	// Core components
	registry *tier.Registry
	analyzer *analysis.Analyzer
	queue    *jobqueue.InMemoryQueue
	pool     *workerpool.Pool

	// Configuration
	workerCount  int
	queueSize    int
	maxBatchSize int
	analyzerOpts []analysis.Option

	// State
	started   bool
	startedAt time.Time
	analyzed  atomic.Int64
	rejected  atomic.Int64
	failed    atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMaxBatchSize caps the number of requests in one batch.
func WithMaxBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.maxBatchSize = size
		}
	}
}

// WithRegistry replaces the tier registry.
func WithRegistry(r *tier.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithAnalyzerOptions forwards options to the pipeline, e.g. a calculator
// with a different entry-angle offset source.
func WithAnalyzerOptions(opts ...analysis.Option) Option {
	return func(s *Service) {
		s.analyzerOpts = append(s.analyzerOpts, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Single analyses work immediately; batches need
// Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  runtime.NumCPU(),
		queueSize:    defaultQueueSize,
		maxBatchSize: defaultMaxBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = tier.NewRegistry()
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.analyzer = analysis.New(s.registry, s.analyzerOpts...)
	return s
}

// Start creates the job queue and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if err := s.registry.Validate(); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	s.logger.Info(ctx, "starting analysis service...")

	s.queue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
		jobqueue.WithBufferSize(s.queueSize),
	)
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s)
	s.pool.Start(ctx)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "analysis service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("maxBatchSize", s.maxBatchSize),
	)
	return nil
}

// Stop closes the queue and waits for queued jobs to drain or ctx to expire.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info(ctx, "stopping analysis service...")
	err := s.pool.Shutdown(ctx)
	s.started = false
	if err != nil {
		s.logger.Warn(ctx, "analysis service stopped before queue drained", logger.Error(err))
		return fmt.Errorf("stop: %w", err)
	}
	s.logger.Info(ctx, "analysis service stopped")
	return nil
}

// Analyze runs one pipeline call synchronously.
func (s *Service) Analyze(ctx context.Context, req analysis.Request) (analysis.Result, error) {
	if err := ctx.Err(); err != nil {
		return analysis.Result{}, fmt.Errorf("analyze: %w", err)
	}

	start := time.Now()
	res, err := s.analyzer.Analyze(req)
	latency := time.Since(start)
	tierName := req.Profile.CoachingTier.String()

	switch {
	case err != nil:
		s.failed.Add(1)
		metrics.RecordAnalysis(tierName, metrics.OutcomeError, 0, latency)
		metrics.RecordErrorByComponent("service", "analysis_error")
		return res, err
	case res.Analysis == nil:
		s.rejected.Add(1)
		metrics.RecordAnalysis(tierName, metrics.OutcomeRejected, 0, latency)
		for _, issue := range res.Validation.Errors {
			metrics.RecordValidationFailure(string(issue.Code))
		}
		s.logger.Debug(ctx, "pose rejected",
			logger.String("tier", tierName),
			logger.Int("errors", len(res.Validation.Errors)),
		)
	default:
		s.analyzed.Add(1)
		metrics.RecordAnalysis(tierName, metrics.OutcomeAnalyzed, res.Analysis.OverallScore, latency)
		s.logger.Debug(ctx, "pose analyzed",
			logger.String("id", res.Analysis.ID),
			logger.String("tier", tierName),
			logger.Int("score", res.Analysis.OverallScore),
			logger.Duration("latency", latency),
		)
	}
	return res, nil
}

// AnalyzeBatch runs every request through the worker pool and returns the
// outcomes in request order. Backpressure rejects the whole batch.
func (s *Service) AnalyzeBatch(ctx context.Context, reqs []analysis.Request) ([]model.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analyze batch: %w", err)
	}
	if len(reqs) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(reqs) > s.maxBatchSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(reqs), s.maxBatchSize)
	}

	s.mu.RLock()
	q, started := s.queue, s.started
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}

	metrics.RecordBatch(len(reqs))
	batchID := uuid.NewString()
	reply := make(chan model.Outcome, len(reqs))
	for i, req := range reqs {
		job := model.Job{
			ID:      batchID + "-" + strconv.Itoa(i),
			Index:   i,
			Request: req,
			Reply:   reply,
		}
		if !q.Enqueue(ctx, job) {
			metrics.RecordErrorByComponent("service", "backpressure")
			s.logger.Warn(ctx, "batch rejected by queue",
				logger.String("batchID", batchID),
				logger.Int("accepted", i),
				logger.Int("size", len(reqs)),
			)
			return nil, fmt.Errorf("%w: accepted %d of %d", ErrBackpressure, i, len(reqs))
		}
	}

	out := make([]model.Outcome, 0, len(reqs))
	for range reqs {
		select {
		case o := <-reply:
			out = append(out, o)
			switch {
			case o.Err != nil:
				metrics.RecordBatchItem(metrics.OutcomeError)
			case o.Analyzed():
				metrics.RecordBatchItem(metrics.OutcomeAnalyzed)
			default:
				metrics.RecordBatchItem(metrics.OutcomeRejected)
			}
		case <-ctx.Done():
			return nil, fmt.Errorf("batch %s: %w", batchID, ctx.Err())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

// Validate derives and validates a pose without analysing it.
func (s *Service) Validate(_ context.Context, p pose.Pose) validation.Result {
	res := s.analyzer.Validate(p)
	for _, issue := range res.Errors {
		metrics.RecordValidationFailure(string(issue.Code))
	}
	return res
}

// Tiers returns the criteria of every tier, youngest first.
func (s *Service) Tiers() []tier.Criteria {
	ts := s.registry.Tiers()
	out := make([]tier.Criteria, 0, len(ts))
	for _, t := range ts {
		out = append(out, s.registry.Criteria(t))
	}
	return out
}

// Tier returns the criteria of one tier.
func (s *Service) Tier(t tier.Tier) (tier.Criteria, error) {
	return s.registry.Lookup(t)
}

// TierForAge maps an age to a tier.
func (s *Service) TierForAge(age int) tier.Tier {
	return tier.ForAge(age)
}

// Stats is a snapshot of service activity.
type Stats struct {
	Started      bool             `json:"started"`
	Uptime       string           `json:"uptime,omitempty"`
	WorkerCount  int              `json:"workerCount"`
	QueueSize    int              `json:"queueSize"`
	QueueLength  int              `json:"queueLength"`
	MaxBatchSize int              `json:"maxBatchSize"`
	Analyzed     int64            `json:"analyzed"`
	Rejected     int64            `json:"rejected"`
	Failed       int64            `json:"failed"`
	Pool         workerpool.Stats `json:"pool"`
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		Started:      s.started,
		WorkerCount:  s.workerCount,
		QueueSize:    s.queueSize,
		MaxBatchSize: s.maxBatchSize,
		Analyzed:     s.analyzed.Load(),
		Rejected:     s.rejected.Load(),
		Failed:       s.failed.Load(),
	}
	if s.started {
		stats.Uptime = time.Since(s.startedAt).Truncate(time.Second).String()
		stats.QueueLength = s.queue.Len(ctx)
		stats.Pool = s.pool.Stats()
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	metrics.UpdateSystemMemoryUsage(mem.HeapAlloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	return stats
}
