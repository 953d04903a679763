package notifications

import "time"

// Timer is a cancellable scheduled call.
type Timer interface {
	// Stop cancels the call and reports whether it had not yet started.
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type runtimeScheduler struct{}

func (runtimeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
