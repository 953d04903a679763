package tasks

import "errors"

var (
	// ErrNotFound is returned when no task has the requested id.
	ErrNotFound = errors.New("task not found")
	// ErrInvalidTask is returned for tasks that would break store invariants.
	ErrInvalidTask = errors.New("invalid task")
)
