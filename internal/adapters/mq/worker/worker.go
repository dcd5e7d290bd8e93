// Package worker runs queued analysis jobs on a fixed pool of goroutines.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/baller70/shotform/internal/domain/analysis"
	"github.com/baller70/shotform/internal/domain/model"
	"github.com/baller70/shotform/pkg/logger"
	"github.com/baller70/shotform/pkg/metrics"
)

// Default worker configuration constants.
const (
	metricsUpdateInterval = 5 * time.Second
)

// Job is what workers read off the queue.
type Job = model.Job

// Analyzer runs the pipeline for one request.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (analysis.Result, error)
}

// AnalyzerFunc adapts a function to Analyzer.
type AnalyzerFunc func(ctx context.Context, req analysis.Request) (analysis.Result, error)

// Analyze calls f.
func (f AnalyzerFunc) Analyze(ctx context.Context, req analysis.Request) (analysis.Result, error) {
	return f(ctx, req)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes jobs and replies with their outcomes.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue is drained.
	Run(ctx context.Context)

	// Shutdown stops the worker after its current job.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue    Queue
	analyzer Analyzer
	name     string

	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, analyzer Analyzer, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		analyzer: analyzer,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, job)
		}
	}
}

// Done is closed once Run has returned.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

// Shutdown stops the worker after its current job.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("%w: %w", ErrShutdownTimeout, ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, job Job) { //nolint:gocritic // hugeParam: Job arrives by value from the channel
	start := time.Now()
	result, err := w.analyzer.Analyze(ctx, job.Request)
	latency := time.Since(start)
	metrics.RecordWorkerProcessingLatency(float64(latency.Milliseconds()))

	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "analysis_error")
		metrics.RecordErrorByType("analysis_error", "medium")
		w.logger.Error(ctx, "analysis failed",
			logger.String("jobID", job.ID),
			logger.Int("index", job.Index),
			logger.Error(err),
		)
	}

	if job.Reply == nil {
		return
	}
	outcome := model.Outcome{JobID: job.ID, Index: job.Index, Result: result, Err: err, Latency: latency}
	select {
	case job.Reply <- outcome:
	case <-ctx.Done():
	}
}

// Stats is a snapshot of pool activity.
type Stats struct {
	Workers   int   `json:"workers"`
	Active    int64 `json:"active"`
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	shutdown chan struct{}

	active    atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
	window    atomic.Int64
	lastTick  time.Time

	logger logger.Logger
}

// NewPool creates a worker pool. A non-positive count falls back to the
// number of CPUs.
func NewPool(workerCount int, queue Queue, analyzer Analyzer) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    queue,
		shutdown: make(chan struct{}),
		lastTick: time.Now(),
		logger:   logger.Get().Named("worker-pool"),
	}

	tracked := AnalyzerFunc(func(ctx context.Context, req analysis.Request) (analysis.Result, error) {
		active := p.active.Add(1)
		metrics.UpdateWorkerActiveCount(int(active))
		metrics.UpdateWorkerIdleCount(workerCount - int(active))
		defer func() {
			active := p.active.Add(-1)
			metrics.UpdateWorkerActiveCount(int(active))
			metrics.UpdateWorkerIdleCount(workerCount - int(active))
		}()

		res, err := analyzer.Analyze(ctx, req)
		p.processed.Add(1)
		p.window.Add(1)
		if err != nil {
			p.failed.Add(1)
		}
		return res, err
	})

	for i := 0; i < workerCount; i++ {
		p.workers[i] = NewInMemoryWorker(queue, tracked, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(0)
	metrics.UpdateWorkerIdleCount(workerCount)
	metrics.UpdateWorkerMessagesPerSecond(0.0)

	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	go p.startMetricsUpdater(ctx)
}

// Stats returns a snapshot of pool activity.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:   len(p.workers),
		Active:    p.active.Load(),
		Processed: p.processed.Load(),
		Failed:    p.failed.Load(),
	}
}

func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case now := <-ticker.C:
			if elapsed := now.Sub(p.lastTick).Seconds(); elapsed > 0 {
				metrics.UpdateWorkerMessagesPerSecond(float64(p.window.Swap(0)) / elapsed)
			}
			p.lastTick = now
		}
	}
}

// Shutdown closes the queue and lets workers drain what is already queued.
// When ctx expires first the remaining workers are stopped after their
// current job and ErrShutdownTimeout is returned.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	defer close(p.shutdown)

	for i, w := range p.workers {
		select {
		case <-w.Done():
		case <-ctx.Done():
			p.logger.Warn(ctx, "worker drain timed out", logger.Int("worker_id", i))
			for _, rest := range p.workers {
				_ = rest.Shutdown(context.Background()) //nolint:contextcheck // stopping is unconditional once the drain deadline passed
			}
			return fmt.Errorf("%w: %w", ErrShutdownTimeout, ctx.Err())
		}
	}
	return nil
}
