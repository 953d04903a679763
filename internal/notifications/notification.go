package notifications

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"netdo/internal/tasks"
)

// Type classifies a notification.
type Type string

const (
	TypeNetworkChange Type = "network-change"
	TypeTaskReminder  Type = "task-reminder"
	TypeTaskDue       Type = "task-due"
)

// DeliveryStatus tracks the external delivery of a notification.
type DeliveryStatus string

const (
	StatusPending DeliveryStatus = "pending"
	StatusSent    DeliveryStatus = "sent"
	StatusFailed  DeliveryStatus = "failed"
)

// Notification is an ephemeral event record. Task, when set, is a copy of
// the task that triggered it.
type Notification struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Task      *tasks.Task    `json:"task,omitempty"`
	Status    DeliveryStatus `json:"whatsappStatus"`
}

func (n Notification) clone() Notification {
	if n.Task != nil {
		task := n.Task.Clone()
		n.Task = &task
	}
	return n
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func networkLabel(isHomeNetwork bool) string {
	if isHomeNetwork {
		return "home"
	}
	return "away"
}

func networkChange(now time.Time, isHomeNetwork bool, ssid string) Notification {
	return Notification{
		ID:        newID(),
		Type:      TypeNetworkChange,
		Title:     "Network Changed",
		Message:   fmt.Sprintf("Connected to %s network: %s", networkLabel(isHomeNetwork), ssid),
		Timestamp: now,
		Status:    StatusPending,
	}
}

func taskReminder(now time.Time, task tasks.Task) Notification {
	ref := task.Clone()
	return Notification{
		ID:        newID(),
		Type:      TypeTaskReminder,
		Title:     "Task Reminder",
		Message:   "Don't forget: " + task.Title,
		Timestamp: now,
		Task:      &ref,
		Status:    StatusPending,
	}
}

func taskDue(now time.Time, task tasks.Task) Notification {
	ref := task.Clone()
	return Notification{
		ID:        newID(),
		Type:      TypeTaskDue,
		Title:     "Task Due",
		Message:   "Due now: " + task.Title,
		Timestamp: now,
		Task:      &ref,
		Status:    StatusPending,
	}
}
