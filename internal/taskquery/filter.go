package taskquery

import (
	"fmt"
	"slices"
	"strings"

	"netdo/internal/tasks"
)

// Status restricts tasks by completion.
type Status string

const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Network restricts tasks by trigger.
type Network string

const (
	NetworkAll  Network = "all"
	NetworkHome Network = "home"
	NetworkAway Network = "away"
)

// Priority restricts tasks by priority.
type Priority string

const (
	PriorityAll    Priority = "all"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Filter combines the three restrictions with logical AND. Empty fields
// behave like "all".
type Filter struct {
	Status   Status   `json:"status"`
	Network  Network  `json:"network"`
	Priority Priority `json:"priority"`
}

// All returns the filter that keeps every task.
func All() Filter {
	return Filter{Status: StatusAll, Network: NetworkAll, Priority: PriorityAll}
}

// IsZero reports whether f imposes no restriction.
func (f Filter) IsZero() bool {
	return isAll(string(f.Status)) && isAll(string(f.Network)) && isAll(string(f.Priority))
}

// Labels describes the active restrictions, e.g. "Status: active".
func (f Filter) Labels() []string {
	labels := []string{}
	if !isAll(string(f.Status)) {
		labels = append(labels, "Status: "+string(f.Status))
	}
	if !isAll(string(f.Network)) {
		labels = append(labels, "Network: "+string(f.Network))
	}
	if !isAll(string(f.Priority)) {
		labels = append(labels, "Priority: "+string(f.Priority))
	}
	return labels
}

// Match reports whether task passes every restriction in f.
func (f Filter) Match(task tasks.Task) bool {
	switch f.Status {
	case StatusActive:
		if task.Completed {
			return false
		}
	case StatusCompleted:
		if !task.Completed {
			return false
		}
	}
	switch f.Network {
	case NetworkHome:
		if task.NetworkTrigger != tasks.TriggerHome {
			return false
		}
	case NetworkAway:
		if task.NetworkTrigger != tasks.TriggerAway {
			return false
		}
	}
	if !isAll(string(f.Priority)) && string(task.Priority) != string(f.Priority) {
		return false
	}
	return true
}

// FilterAndSort returns the tasks matching f in display order.
func FilterAndSort(list []tasks.Task, f Filter) []tasks.Task {
	out := make([]tasks.Task, 0, len(list))
	for _, task := range list {
		if f.Match(task) {
			out = append(out, task.Clone())
		}
	}
	Sort(out)
	return out
}

// Sort orders list in place: incomplete first, then by priority rank.
// The sort is stable.
func Sort(list []tasks.Task) {
	slices.SortStableFunc(list, compare)
}

func compare(a, b tasks.Task) int {
	if a.Completed != b.Completed {
		if a.Completed {
			return 1
		}
		return -1
	}
	return a.Priority.Rank() - b.Priority.Rank()
}

func isAll(value string) bool {
	return value == "" || value == "all"
}

// ParseStatus validates a status flag value.
func ParseStatus(raw string) (Status, error) {
	value := Status(normalizeFlag(raw))
	switch value {
	case StatusAll, StatusActive, StatusCompleted:
		return value, nil
	}
	return "", fmt.Errorf("invalid status %q (want all, active, or completed)", raw)
}

// ParseNetwork validates a network flag value.
func ParseNetwork(raw string) (Network, error) {
	value := Network(normalizeFlag(raw))
	switch value {
	case NetworkAll, NetworkHome, NetworkAway:
		return value, nil
	}
	return "", fmt.Errorf("invalid network %q (want all, home, or away)", raw)
}

// ParsePriority validates a priority flag value.
func ParsePriority(raw string) (Priority, error) {
	value := Priority(normalizeFlag(raw))
	switch value {
	case PriorityAll, PriorityHigh, PriorityMedium, PriorityLow:
		return value, nil
	}
	return "", fmt.Errorf("invalid priority %q (want all, high, medium, or low)", raw)
}

func normalizeFlag(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return "all"
	}
	return value
}
