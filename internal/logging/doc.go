// Package logging assembles structured slog loggers and formatting helpers used
// across netdo.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes attribute helpers so components tag log lines with the same
// keys (component, task_id, notification_id, event_type). The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
