package tasks

import (
	"strings"
	"time"
)

// Priority ranks a task. Unknown values are preserved as stored.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank orders priorities for sorting: high=0, medium=1, low=2. Unrecognized
// priorities rank as medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ParsePriority accepts a known priority, case-insensitively.
func ParsePriority(raw string) (Priority, bool) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	return p, p.Valid()
}

// Trigger selects the network classification that surfaces a reminder.
// The empty trigger means none.
type Trigger string

const (
	TriggerNone Trigger = ""
	TriggerHome Trigger = "home"
	TriggerAway Trigger = "away"
)

// Matches reports whether a reminder should fire for the given network class.
func (t Trigger) Matches(isHomeNetwork bool) bool {
	switch t {
	case TriggerHome:
		return isHomeNetwork
	case TriggerAway:
		return !isHomeNetwork
	default:
		return false
	}
}

// Valid reports whether t is empty or a known trigger.
func (t Trigger) Valid() bool {
	switch t {
	case TriggerNone, TriggerHome, TriggerAway:
		return true
	}
	return false
}

// ParseTrigger accepts home, away, or none/empty.
func ParseTrigger(raw string) (Trigger, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "none" {
		return TriggerNone, true
	}
	t := Trigger(value)
	return t, t.Valid()
}

// DefaultCategory is assigned when a task is added without one.
const DefaultCategory = "general"

// Task is a user-created to-do item. The JSON shape is the persisted format.
type Task struct {
	ID             string     `json:"id" yaml:"id"`
	Title          string     `json:"title" yaml:"title"`
	Description    string     `json:"description,omitempty" yaml:"description,omitempty"`
	Category       string     `json:"category" yaml:"category"`
	Priority       Priority   `json:"priority" yaml:"priority"`
	NetworkTrigger Trigger    `json:"networkTrigger,omitempty" yaml:"networkTrigger,omitempty"`
	Completed      bool       `json:"completed" yaml:"completed"`
	DueDate        *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}

// Due reports whether t is incomplete with a due date at or before now.
func (t Task) Due(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && !t.DueDate.After(now)
}

// Draft carries the fields of a task being added.
type Draft struct {
	Title          string
	Description    string
	Category       string
	Priority       Priority
	NetworkTrigger Trigger
	DueDate        *time.Time
}

// Patch describes an in-place update; nil fields are left unchanged.
type Patch struct {
	Title          *string
	Description    *string
	Category       *string
	Priority       *Priority
	NetworkTrigger *Trigger
	Completed      *bool
	DueDate        *time.Time
	ClearDueDate   bool
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Category == nil &&
		p.Priority == nil && p.NetworkTrigger == nil && p.Completed == nil &&
		p.DueDate == nil && !p.ClearDueDate
}

func cloneAll(list []Task) []Task {
	out := make([]Task, len(list))
	for i, task := range list {
		out[i] = task.Clone()
	}
	return out
}
