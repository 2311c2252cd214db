package scheduler

import "errors"

var (
	// ErrInvalidRunAt is returned when a run time is not a valid HH:MM clock value
	ErrInvalidRunAt = errors.New("run time must be HH:MM")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrRunnerMissing is returned when a scheduler is built without its job
	ErrRunnerMissing = errors.New("scheduler job runner is nil")
)
