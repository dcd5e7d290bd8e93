package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/baller70/shotform/internal/adapters/mq/queue"
	worker "github.com/baller70/shotform/internal/adapters/mq/worker"
	"github.com/baller70/shotform/internal/domain/analysis"
	"github.com/baller70/shotform/internal/domain/model"
	"github.com/baller70/shotform/internal/domain/profile"
	"github.com/baller70/shotform/internal/domain/report"
	logging "github.com/baller70/shotform/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	jobs chan model.Job
	once sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan model.Job, 128)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan model.Job { return mq.jobs }

func (mq *mockQueue) Close() error {
	mq.once.Do(func() { close(mq.jobs) })
	return nil
}

type mockAnalyzer struct {
	mu    sync.Mutex
	fail  map[string]error
	calls int
	delay time.Duration
}

func (ma *mockAnalyzer) Analyze(_ context.Context, req analysis.Request) (analysis.Result, error) {
	if ma.delay > 0 {
		time.Sleep(ma.delay)
	}
	ma.mu.Lock()
	defer ma.mu.Unlock()
	ma.calls++
	if err, ok := ma.fail[req.Profile.Bio]; ok {
		return analysis.Result{}, err
	}
	return analysis.Result{Analysis: &report.ProcessedAnalysis{ID: req.Profile.Bio}}, nil
}

func (ma *mockAnalyzer) callCount() int {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	return ma.calls
}

func job(id string, index int, reply chan model.Outcome) model.Job {
	return model.Job{
		ID:      id,
		Index:   index,
		Request: analysis.Request{Profile: profile.Profile{Bio: id}},
		Reply:   reply,
	}
}

func receive(t *testing.T, reply <-chan model.Outcome) model.Outcome {
	t.Helper()
	select {
	case o := <-reply:
		return o
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outcome")
		return model.Outcome{}
	}
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a running InMemoryWorker", t, func() {
		_ = logging.Init()

		mq := newMockQueue()
		analyzer := &mockAnalyzer{fail: map[string]error{"bad": errors.New("pipeline exploded")}}
		w := worker.NewInMemoryWorker(mq, analyzer, worker.WithName("test-worker"))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When a job is processed", func() {
			reply := make(chan model.Outcome, 1)
			mq.jobs <- job("good", 3, reply)
			o := receive(t, reply)

			convey.Convey("Then the outcome carries the result and index", func() {
				convey.So(o.Err, convey.ShouldBeNil)
				convey.So(o.JobID, convey.ShouldEqual, "good")
				convey.So(o.Index, convey.ShouldEqual, 3)
				convey.So(o.Analyzed(), convey.ShouldBeTrue)
				convey.So(o.Result.Analysis.ID, convey.ShouldEqual, "good")
			})
		})

		convey.Convey("When the analysis fails", func() {
			reply := make(chan model.Outcome, 1)
			mq.jobs <- job("bad", 0, reply)
			o := receive(t, reply)

			convey.Convey("Then the error is returned in the outcome", func() {
				convey.So(o.Err, convey.ShouldNotBeNil)
				convey.So(o.Err.Error(), convey.ShouldEqual, "pipeline exploded")
				convey.So(o.Analyzed(), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When a job has no reply channel", func() {
			mq.jobs <- job("fire-and-forget", 0, nil)
			reply := make(chan model.Outcome, 1)
			mq.jobs <- job("after", 1, reply)
			o := receive(t, reply)

			convey.Convey("Then the worker keeps going", func() {
				convey.So(o.JobID, convey.ShouldEqual, "after")
				convey.So(analyzer.callCount(), convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When shutting down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()

			err := w.Shutdown(shutdownCtx)

			convey.Convey("Then it stops and a second shutdown is harmless", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given a worker whose context is cancelled", t, func() {
		_ = logging.Init()
		w := worker.NewInMemoryWorker(newMockQueue(), &mockAnalyzer{})
		ctx, cancel := context.WithCancel(context.Background())
		go w.Run(ctx)
		cancel()

		convey.Convey("Then Run returns", func() {
			select {
			case <-w.Done():
				convey.So(true, convey.ShouldBeTrue)
			case <-time.After(2 * time.Second):
				convey.So("worker still running", convey.ShouldBeEmpty)
			}
		})
	})
}

func TestWorkerPool(t *testing.T) {
	convey.Convey("Given a started worker pool", t, func() {
		_ = logging.Init()

		mq := newMockQueue()
		analyzer := &mockAnalyzer{fail: map[string]error{"job-3": errors.New("nope")}}
		pool := worker.NewPool(4, mq, analyzer)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("When processing a batch of jobs", func() {
			const n = 20
			reply := make(chan model.Outcome, n)
			for i := 0; i < n; i++ {
				mq.jobs <- job(fmt.Sprintf("job-%d", i), i, reply)
			}
			seen := make(map[int]bool, n)
			failed := 0
			for i := 0; i < n; i++ {
				o := receive(t, reply)
				seen[o.Index] = true
				if o.Err != nil {
					failed++
				}
			}

			convey.Convey("Then every job replies exactly once", func() {
				convey.So(len(seen), convey.ShouldEqual, n)
				convey.So(failed, convey.ShouldEqual, 1)
			})

			convey.Convey("Then stats count processed and failed jobs", func() {
				stats := pool.Stats()
				convey.So(stats.Workers, convey.ShouldEqual, 4)
				convey.So(stats.Processed, convey.ShouldEqual, n)
				convey.So(stats.Failed, convey.ShouldEqual, 1)
				convey.So(stats.Active, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When shutting down with queued work", func() {
			reply := make(chan model.Outcome, 5)
			for i := 0; i < 5; i++ {
				mq.jobs <- job(fmt.Sprintf("drain-%d", i), i, reply)
			}
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shutdownCancel()

			err := pool.Shutdown(shutdownCtx)

			convey.Convey("Then queued jobs are drained before workers stop", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(reply), convey.ShouldEqual, 5)
			})
		})
	})

	convey.Convey("Given a pool with a non-positive worker count", t, func() {
		_ = logging.Init()
		pool := worker.NewPool(0, newMockQueue(), &mockAnalyzer{})

		convey.Convey("Then it falls back to at least one worker", func() {
			convey.So(pool.Stats().Workers, convey.ShouldBeGreaterThan, 0)
		})
	})

	convey.Convey("Given a pool whose jobs outlive the shutdown deadline", t, func() {
		_ = logging.Init()
		mq := newMockQueue()
		pool := worker.NewPool(1, mq, &mockAnalyzer{delay: 200 * time.Millisecond})
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)
		for i := 0; i < 3; i++ {
			mq.jobs <- job(fmt.Sprintf("slow-%d", i), i, nil)
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer shutdownCancel()
		err := pool.Shutdown(shutdownCtx)

		convey.Convey("Then ErrShutdownTimeout is returned", func() {
			convey.So(errors.Is(err, worker.ErrShutdownTimeout), convey.ShouldBeTrue)
		})
	})
}

func TestPoolWithInMemoryQueue(t *testing.T) {
	convey.Convey("Given a pool fed by the in-memory queue", t, func() {
		_ = logging.Init()

		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		analyzer := &mockAnalyzer{}
		pool := worker.NewPool(2, q, analyzer)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("When jobs are enqueued", func() {
			reply := make(chan model.Outcome, 3)
			for i := 0; i < 3; i++ {
				convey.So(q.Enqueue(ctx, job(fmt.Sprintf("q-%d", i), i, reply)), convey.ShouldBeTrue)
			}
			for i := 0; i < 3; i++ {
				receive(t, reply)
			}

			convey.Convey("Then the analyzer saw each of them", func() {
				convey.So(analyzer.callCount(), convey.ShouldEqual, 3)
				convey.So(pool.Shutdown(context.Background()), convey.ShouldBeNil)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})
}
