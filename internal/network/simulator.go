package network

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"netdo/internal/logging"
	"netdo/internal/notifications"
	"netdo/internal/tasks"
)

// Notifier receives network changes and reminder candidates.
type Notifier interface {
	NotifyNetworkChange(isHomeNetwork bool, ssid string) notifications.Notification
	NotifyTaskReminder(task tasks.Task, isHomeNetwork bool) (notifications.Notification, bool)
}

// TaskSource lists the tasks that may need a reminder.
type TaskSource interface {
	Incomplete(ctx context.Context) []tasks.Task
}

// Change is the outcome of one observed status.
type Change struct {
	Status        Status                       `json:"status"`
	Notifications []notifications.Notification `json:"notifications"`
}

// Reminders counts the task reminders in the change.
func (c Change) Reminders() int {
	count := 0
	for _, n := range c.Notifications {
		if n.Type == notifications.TypeTaskReminder {
			count++
		}
	}
	return count
}

// Simulator holds the current status. It has no loop of its own; callers
// invoke Trigger or Apply.
type Simulator struct {
	detector Detector
	notifier Notifier
	tasks    TaskSource
	logger   *slog.Logger

	mu      sync.Mutex
	current Status
}

// NewSimulator starts from InitialStatus.
func NewSimulator(detector Detector, notifier Notifier, source TaskSource, logger *slog.Logger) *Simulator {
	return &Simulator{
		detector: detector,
		notifier: notifier,
		tasks:    source,
		logger:   logging.NewComponentLogger(logger, "network"),
		current:  InitialStatus(),
	}
}

// Current returns the latest status.
func (s *Simulator) Current() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Trigger asks the detector for a status, marks it connected, and applies it.
func (s *Simulator) Trigger(ctx context.Context) (Change, error) {
	status, err := s.detector.Detect(ctx)
	if err != nil {
		return Change{}, fmt.Errorf("detect network: %w", err)
	}
	status.Connected = true
	return s.Apply(ctx, status), nil
}

// Apply records status and emits the network-change notification followed by
// one reminder per matching incomplete task. A disconnected status is
// recorded without notifying.
func (s *Simulator) Apply(ctx context.Context, status Status) Change {
	s.mu.Lock()
	s.current = status
	s.mu.Unlock()

	change := Change{Status: status, Notifications: []notifications.Notification{}}
	if !status.Connected {
		s.logger.Info("network disconnected")
		return change
	}

	s.logger.Info("network changed",
		logging.String("ssid", status.SSID),
		logging.String("network", status.Label()),
	)
	change.Notifications = append(change.Notifications, s.notifier.NotifyNetworkChange(status.IsHomeNetwork, status.SSID))
	for _, task := range s.tasks.Incomplete(ctx) {
		if n, ok := s.notifier.NotifyTaskReminder(task, status.IsHomeNetwork); ok {
			change.Notifications = append(change.Notifications, n)
		}
	}
	return change
}
