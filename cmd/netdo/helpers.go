package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"netdo/internal/tasks"
	"netdo/internal/tracker"
)

const shortIDLength = 8

var titleCaser = cases.Title(language.English)

// titleCase renders stored lowercase values ("home", "high") for display.
func titleCase(value string) string {
	if value == "" {
		return ""
	}
	return titleCaser.String(value)
}

// shortID returns the trailing characters of a task id. UUIDv7 ids share
// their leading timestamp bits, so the random tail is the useful part.
func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[len(id)-shortIDLength:]
}

// resolveTaskID accepts a full id or a unique suffix of at least four
// characters, as printed by "netdo list".
func resolveTaskID(ctx context.Context, tr *tracker.Tracker, arg string) (string, error) {
	ref := strings.TrimSpace(arg)
	if ref == "" {
		return "", errors.New("task id is required")
	}
	list := tr.Tasks(ctx)
	for _, task := range list {
		if task.ID == ref {
			return task.ID, nil
		}
	}
	if len(ref) < 4 {
		return "", fmt.Errorf("task %q: %w", ref, tasks.ErrNotFound)
	}
	var matches []string
	for _, task := range list {
		if strings.HasSuffix(task.ID, ref) {
			matches = append(matches, task.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("task %q: %w", ref, tasks.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("task %q is ambiguous (%d matches); use more characters", ref, len(matches))
	}
}

var dueLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseDue accepts an absolute timestamp in local time, or a duration
// relative to now prefixed with "+", e.g. "+2h".
func parseDue(raw string, now time.Time) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, errors.New("due date is empty")
	}
	if rest, ok := strings.CutPrefix(value, "+"); ok {
		d, err := time.ParseDuration(rest)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse relative due date %q: %w", value, err)
		}
		return now.Add(d).UTC(), nil
	}
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse due date %q: expected YYYY-MM-DD, YYYY-MM-DD HH:MM, RFC3339, or +duration", value)
}

func formatDue(due *time.Time) string {
	if due == nil {
		return ""
	}
	local := due.Local()
	if local.Hour() == 0 && local.Minute() == 0 {
		return local.Format("2006-01-02")
	}
	return local.Format("2006-01-02 15:04")
}

func triggerLabel(trigger tasks.Trigger) string {
	if trigger == tasks.TriggerNone {
		return "-"
	}
	return titleCase(string(trigger))
}

func parsePriorityFlag(raw string) (tasks.Priority, error) {
	p, ok := tasks.ParsePriority(raw)
	if !ok {
		return "", fmt.Errorf("invalid priority %q (want high, medium, or low): %w", raw, tasks.ErrInvalidTask)
	}
	return p, nil
}

func parseTriggerFlag(raw string) (tasks.Trigger, error) {
	t, ok := tasks.ParseTrigger(raw)
	if !ok {
		return "", fmt.Errorf("invalid network trigger %q (want home, away, or none): %w", raw, tasks.ErrInvalidTask)
	}
	return t, nil
}
