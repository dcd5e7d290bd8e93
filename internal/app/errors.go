package service

import "github.com/baller70/shotform/internal/domain/model"

// Sentinel kinds for service errors. They alias the model kinds so that
// transports can match them without importing this package.
var (
	ErrNotStarted    = model.ErrNotStarted
	ErrEmptyBatch    = model.ErrEmptyBatch
	ErrBatchTooLarge = model.ErrBatchTooLarge
	ErrBackpressure  = model.ErrBackpressure
)
