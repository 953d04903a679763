package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"netdo/internal/config"
	"netdo/internal/tasks"
)

const userAgent = "netdo/0.1.0"

// Ntfy posts notifications to an ntfy topic URL.
type Ntfy struct {
	endpoint string
	client   *http.Client
}

// NewNtfy builds a channel for the topic URL. A nil client uses
// http.DefaultClient.
func NewNtfy(endpoint string, client *http.Client) *Ntfy {
	if client == nil {
		client = http.DefaultClient
	}
	return &Ntfy{endpoint: endpoint, client: client}
}

func (n *Ntfy) Name() string { return config.ChannelNtfy }

func (n *Ntfy) Deliver(ctx context.Context, note Notification) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(note.Message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if note.Title != "" {
		req.Header.Set("Title", note.Title)
	}
	req.Header.Set("Tags", strings.Join(ntfyTags(note), ","))
	if priority := ntfyPriority(note); priority != "" {
		req.Header.Set("Priority", priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func ntfyTags(note Notification) []string {
	tags := []string{"netdo", string(note.Type)}
	if note.Task != nil && note.Task.NetworkTrigger != tasks.TriggerNone {
		tags = append(tags, string(note.Task.NetworkTrigger))
	}
	return tags
}

func ntfyPriority(note Notification) string {
	switch {
	case note.Type == TypeTaskDue:
		return "high"
	case note.Task != nil && note.Task.Priority == tasks.PriorityHigh:
		return "high"
	case note.Type == TypeNetworkChange:
		return "low"
	}
	return ""
}
