package model

import "errors"

// Sentinel kinds shared by the service and its transports.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrEmptyBatch    = errors.New("batch is empty")
	ErrBatchTooLarge = errors.New("batch too large")
	ErrBackpressure  = errors.New("job queue full")
)
