package taskquery

import (
	"fmt"
	"strings"
)

// Metric names one of the summary counts that double as quick filters.
type Metric string

const (
	MetricTotal        Metric = "total"
	MetricCompleted    Metric = "completed"
	MetricHighPriority Metric = "high"
	MetricHome         Metric = "home"
	MetricAway         Metric = "away"
)

// QuickFilter returns the preset filter for a summary metric.
func QuickFilter(metric Metric) (Filter, error) {
	f := All()
	switch Metric(strings.ToLower(strings.TrimSpace(string(metric)))) {
	case MetricTotal:
	case MetricCompleted:
		f.Status = StatusCompleted
	case MetricHighPriority:
		f.Status = StatusActive
		f.Priority = PriorityHigh
	case MetricHome:
		f.Network = NetworkHome
	case MetricAway:
		f.Network = NetworkAway
	default:
		return Filter{}, fmt.Errorf("unknown quick filter %q (want total, completed, high, home, or away)", metric)
	}
	return f, nil
}

// EmptyMessage is shown when a query returns nothing.
func EmptyMessage(total int) string {
	if total == 0 {
		return "No tasks yet. Add a task to get started!"
	}
	return "No tasks match the selected filters."
}
