// Package model contains the values passed between the service and the
// worker pool.
package model

import (
	"time"

	"github.com/baller70/shotform/internal/domain/analysis"
)

// Job is one analysis travelling through the queue.
type Job struct {
	ID       string           // unique id, also logged by workers
	Index    int              // position inside its batch
	Request  analysis.Request // pipeline input
	Enqueued time.Time

	// Reply receives exactly one Outcome. Submitters size it so that a
	// worker never blocks on it.
	Reply chan<- Outcome
}

// Outcome is the result of one Job.
type Outcome struct {
	JobID   string
	Index   int
	Result  analysis.Result
	Err     error
	Latency time.Duration
}

// Analyzed reports whether the job produced a full analysis.
func (o Outcome) Analyzed() bool {
	return o.Err == nil && o.Result.Analysis != nil
}
