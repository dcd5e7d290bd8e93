package report

import "errors"

// ErrUnknownLevel is returned for report levels other than summary, detailed
// or full.
var ErrUnknownLevel = errors.New("unknown report level")
