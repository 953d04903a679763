package network_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"netdo/internal/logging"
	"netdo/internal/network"
	"netdo/internal/notifications"
	"netdo/internal/tasks"
)

type staticTasks []tasks.Task

func (s staticTasks) Incomplete(context.Context) []tasks.Task {
	out := []tasks.Task{}
	for _, task := range s {
		if !task.Completed {
			out = append(out, task)
		}
	}
	return out
}

func newDispatcher(t *testing.T) *notifications.Dispatcher {
	t.Helper()
	d := notifications.New(notifications.WithLogger(logging.NewNop()))
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestRandomDetectorPicksCannedNetworks(t *testing.T) {
	detector := network.NewRandomDetectorFromSource(rand.NewPCG(7, 7))
	canned := map[network.Status]int{}
	for _, status := range network.CannedNetworks() {
		canned[status] = 0
	}
	for i := 0; i < 300; i++ {
		status, err := detector.Detect(context.Background())
		if err != nil {
			t.Fatalf("Detect: %v", err)
		}
		if _, ok := canned[status]; !ok {
			t.Fatalf("unexpected status %+v", status)
		}
		canned[status]++
	}
	for status, count := range canned {
		if count == 0 {
			t.Fatalf("status %+v never picked", status)
		}
	}
}

func TestRandomDetectorSeedIsDeterministic(t *testing.T) {
	a := network.NewRandomDetector(42)
	b := network.NewRandomDetector(42)
	for i := 0; i < 20; i++ {
		sa, _ := a.Detect(context.Background())
		sb, _ := b.Detect(context.Background())
		if sa != sb {
			t.Fatalf("pick %d differs: %+v vs %+v", i, sa, sb)
		}
	}
}

func TestInitialStatus(t *testing.T) {
	sim := network.NewSimulator(network.StaticDetector{}, newDispatcher(t), staticTasks{}, nil)
	if got := sim.Current(); got != network.InitialStatus() {
		t.Fatalf("expected initial status, got %+v", got)
	}
	if got := network.InitialStatus(); !got.Connected || got.SSID != "Home Network" || !got.IsHomeNetwork {
		t.Fatalf("unexpected initial status %+v", got)
	}
}

func TestTriggerNotifiesMatchingIncompleteTasks(t *testing.T) {
	d := newDispatcher(t)
	source := staticTasks{
		{ID: "1", Title: "Buy milk", NetworkTrigger: tasks.TriggerHome},
		{ID: "2", Title: "Print slides", NetworkTrigger: tasks.TriggerAway},
		{ID: "3", Title: "Water plants", NetworkTrigger: tasks.TriggerHome, Completed: true},
		{ID: "4", Title: "Anywhere"},
	}
	detector := network.StaticDetector{SSID: "Home Network", IsHomeNetwork: true}
	sim := network.NewSimulator(detector, d, source, logging.NewNop())

	change, err := sim.Trigger(context.Background())
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if !change.Status.Connected {
		t.Fatal("expected Trigger to force connected")
	}
	if sim.Current() != change.Status {
		t.Fatalf("current status not updated: %+v", sim.Current())
	}
	if len(change.Notifications) != 2 || change.Reminders() != 1 {
		t.Fatalf("expected network change plus one reminder, got %+v", change.Notifications)
	}
	if change.Notifications[0].Type != notifications.TypeNetworkChange {
		t.Fatalf("expected network change first, got %s", change.Notifications[0].Type)
	}
	if reminder := change.Notifications[1]; reminder.Task == nil || reminder.Task.ID != "1" {
		t.Fatalf("expected reminder for Buy milk, got %+v", reminder)
	}
	if got := len(d.Notifications()); got != 2 {
		t.Fatalf("expected dispatcher to hold 2 notifications, got %d", got)
	}
}

func TestApplyAwayStatus(t *testing.T) {
	d := newDispatcher(t)
	source := staticTasks{
		{ID: "1", Title: "Buy milk", NetworkTrigger: tasks.TriggerHome},
		{ID: "2", Title: "Print slides", NetworkTrigger: tasks.TriggerAway},
	}
	sim := network.NewSimulator(network.StaticDetector{}, d, source, nil)
	change := sim.Apply(context.Background(), network.Status{Connected: true, SSID: "Coffee Shop"})
	if change.Reminders() != 1 || change.Notifications[1].Task.ID != "2" {
		t.Fatalf("expected reminder for away task, got %+v", change.Notifications)
	}
	if change.Notifications[0].Message != "Connected to away network: Coffee Shop" {
		t.Fatalf("unexpected message %q", change.Notifications[0].Message)
	}
}

func TestApplyDisconnectedRecordsWithoutNotifying(t *testing.T) {
	d := newDispatcher(t)
	sim := network.NewSimulator(network.StaticDetector{}, d, staticTasks{{ID: "1", Title: "x", NetworkTrigger: tasks.TriggerAway}}, nil)
	change := sim.Apply(context.Background(), network.Status{})
	if len(change.Notifications) != 0 || len(d.Notifications()) != 0 {
		t.Fatalf("expected no notifications, got %+v", change.Notifications)
	}
	if sim.Current().Connected {
		t.Fatal("expected disconnected current status")
	}
}

func TestTriggerHonoursCancelledContext(t *testing.T) {
	sim := network.NewSimulator(network.NewRandomDetector(1), newDispatcher(t), staticTasks{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := sim.Trigger(ctx); err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if sim.Current() != network.InitialStatus() {
		t.Fatal("expected status unchanged after failed detection")
	}
}
