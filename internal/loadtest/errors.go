package loadtest

import "errors"

// Sentinel kinds.
var (
	ErrInvalidConfig      = errors.New("invalid load test config")
	ErrUnhealthy          = errors.New("service unhealthy")
	ErrVerificationFailed = errors.New("responses failed verification")
)
