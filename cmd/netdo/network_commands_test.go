package main

import (
	"encoding/json"
	"testing"

	"netdo/internal/notifications"
	"netdo/internal/tasks"
	"netdo/internal/testsupport"
)

func TestNetworkStatus(t *testing.T) {
	env := setupCLITestEnv(t)
	out := mustRunCLI(t, env, "network", "status")
	requireContains(t, out, "Home Network")
	requireContains(t, out, "Home")

	out = mustRunCLI(t, env, "--json", "network", "status")
	requireContains(t, out, `"isHomeNetwork": true`)
}

func TestNetworkSimulateHomeSendsReminder(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedTasks(t, env.cfg, []tasks.Task{
		{ID: "milk", Title: "Buy milk", Category: "general", Priority: tasks.PriorityHigh, NetworkTrigger: tasks.TriggerHome},
		{ID: "bank", Title: "Call bank", Category: "general", Priority: tasks.PriorityMedium, NetworkTrigger: tasks.TriggerAway},
		{ID: "done", Title: "Old chore", Category: "general", Priority: tasks.PriorityLow, NetworkTrigger: tasks.TriggerHome, Completed: true},
	})

	out := mustRunCLI(t, env, "network", "simulate", "--home")
	requireContains(t, out, "Network Changed: Connected to home network: Home Network (pending)")
	requireContains(t, out, "Task Reminder: Don't forget: Buy milk (sent)")
	requireContains(t, out, "1 reminders sent via simulated")
}

func TestNetworkSimulateAwayJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.SeedTasks(t, env.cfg, []tasks.Task{
		{ID: "bank", Title: "Call bank", Category: "general", Priority: tasks.PriorityMedium, NetworkTrigger: tasks.TriggerAway},
	})

	out := mustRunCLI(t, env, "--json", "network", "simulate", "--away", "--ssid", "Coffee Shop")
	var result struct {
		Status struct {
			SSID          string `json:"ssid"`
			IsHomeNetwork bool   `json:"isHomeNetwork"`
		} `json:"status"`
		Notifications []notifications.Notification `json:"notifications"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode simulate output %q: %v", out, err)
	}
	if result.Status.SSID != "Coffee Shop" || result.Status.IsHomeNetwork {
		t.Fatalf("unexpected status %+v", result.Status)
	}
	if len(result.Notifications) != 2 {
		t.Fatalf("expected network change and reminder, got %+v", result.Notifications)
	}
	for _, n := range result.Notifications {
		if n.Status != notifications.StatusSent {
			t.Fatalf("expected delivered notification, got %+v", n)
		}
	}
	if result.Notifications[1].Message != "Don't forget: Call bank" {
		t.Fatalf("unexpected reminder %q", result.Notifications[1].Message)
	}
}

func TestNetworkSimulateRandom(t *testing.T) {
	env := setupCLITestEnv(t)
	out := mustRunCLI(t, env, "network", "simulate")
	requireContains(t, out, "Network Changed")
	requireContains(t, out, "0 reminders sent")
}

func TestNetworkSimulateRejectsConflictingFlags(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"network", "simulate", "--home", "--away"}, env.configPath); err == nil {
		t.Fatal("expected --home with --away to fail")
	}
	if _, _, err := runCLI(t, []string{"network", "simulate", "--ssid", "x"}, env.configPath); err == nil {
		t.Fatal("expected --ssid alone to fail")
	}
}
