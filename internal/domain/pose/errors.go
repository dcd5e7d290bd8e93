package pose

import "errors"

// Sentinel kinds for pose construction errors.
var (
	ErrDuplicateKeypoint = errors.New("duplicate keypoint name")
	ErrUnnamedKeypoint   = errors.New("keypoint without a name")
)
