package ballistics

import "errors"

var (
	// ErrInvalidInput marks non-finite coordinates or non-physical
	// projectile parameters, rejected before any integration begins.
	ErrInvalidInput = errors.New("ballistics: invalid input")

	// ErrNoConvergence is returned by RecommendFreeSpeed when every
	// optimizer start failed to produce a usable result.
	ErrNoConvergence = errors.New("ballistics: no optimizer start converged")

	// ErrOutOfRange is returned by RecommendFreeSpeed when the target
	// lies beyond the maximum theoretical range for the speed bounds.
	ErrOutOfRange = errors.New("ballistics: target beyond maximum theoretical range")
)
