package tracker_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"netdo/internal/config"
	"netdo/internal/kvstore"
	"netdo/internal/logging"
	"netdo/internal/network"
	"netdo/internal/notifications"
	"netdo/internal/taskquery"
	"netdo/internal/tasks"
	"netdo/internal/testsupport"
	"netdo/internal/tracker"
)

func newTracker(t *testing.T, opts ...tracker.Option) *tracker.Tracker {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.DeliveryDelayMS = 20
	base := []tracker.Option{tracker.WithBackend(kvstore.NewMemory())}
	tr, err := tracker.New(context.Background(), cfg, logging.NewNop(), append(base, opts...)...)
	if err != nil {
		t.Fatalf("tracker.New: %v", err)
	}
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}

func TestBuyMilkScenario(t *testing.T) {
	ctx := context.Background()
	home := network.StaticDetector{SSID: "Home Network", IsHomeNetwork: true}
	tr := newTracker(t, tracker.WithDetector(home))

	var (
		mu   sync.Mutex
		seen []notifications.Notification
	)
	unsubscribe := tr.Subscribe(func(n notifications.Notification) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, n)
	})
	defer unsubscribe()

	if _, err := tr.AddTask(ctx, tasks.Draft{Title: "Buy milk", Priority: tasks.PriorityHigh, NetworkTrigger: tasks.TriggerHome}); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	change, err := tr.SimulateNetworkChange(ctx)
	if err != nil {
		t.Fatalf("SimulateNetworkChange: %v", err)
	}
	if len(change.Notifications) != 2 {
		t.Fatalf("expected two notifications, got %+v", change.Notifications)
	}
	if change.Notifications[0].Type != notifications.TypeNetworkChange {
		t.Fatalf("expected network change first, got %s", change.Notifications[0].Type)
	}
	reminder := change.Notifications[1]
	if reminder.Type != notifications.TypeTaskReminder || reminder.Task == nil || reminder.Task.Title != "Buy milk" {
		t.Fatalf("expected reminder for Buy milk, got %+v", reminder)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := tr.WaitIdle(waitCtx); err != nil {
		t.Fatalf("WaitIdle: %v", err)
	}
	for _, n := range tr.Notifications() {
		if n.Status != notifications.StatusSent {
			t.Fatalf("expected %s to be sent, got %s", n.Type, n.Status)
		}
	}
	// Subscribers see every notification once pending and once sent.
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 4 {
		t.Fatalf("expected 4 broadcasts, got %d", len(seen))
	}
}

func TestQueryAndSummary(t *testing.T) {
	ctx := context.Background()
	tr := newTracker(t)
	low, _ := tr.AddTask(ctx, tasks.Draft{Title: "low", Priority: tasks.PriorityLow})
	high, _ := tr.AddTask(ctx, tasks.Draft{Title: "high", Priority: tasks.PriorityHigh, NetworkTrigger: tasks.TriggerAway})

	got := tr.Query(ctx, taskquery.All())
	if len(got) != 2 || got[0].ID != high.ID || got[1].ID != low.ID {
		t.Fatalf("expected [high low], got %+v", got)
	}

	if _, err := tr.ToggleTask(ctx, high.ID); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	got = tr.Query(ctx, taskquery.All())
	if got[0].ID != low.ID || got[1].ID != high.ID {
		t.Fatalf("expected [low high], got %+v", got)
	}

	summary := tr.Summary(ctx)
	if summary.Total != 2 || summary.Completed != 1 || summary.Away != 1 || summary.HighPriorityActive != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestCheckDueNotifiesOncePerDueDate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	tr := newTracker(t, tracker.WithClock(func() time.Time { return now }))

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	due, _ := tr.AddTask(ctx, tasks.Draft{Title: "Pay rent", DueDate: &past})
	if _, err := tr.AddTask(ctx, tasks.Draft{Title: "Later", DueDate: &future}); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	first := tr.CheckDue(ctx)
	if len(first) != 1 || first[0].Task.ID != due.ID || first[0].Message != "Due now: Pay rent" {
		t.Fatalf("expected one due notification, got %+v", first)
	}
	if again := tr.CheckDue(ctx); len(again) != 0 {
		t.Fatalf("expected no repeat, got %+v", again)
	}

	moved := now.Add(-time.Minute)
	if _, err := tr.UpdateTask(ctx, due.ID, tasks.Patch{DueDate: &moved}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if rescheduled := tr.CheckDue(ctx); len(rescheduled) != 1 {
		t.Fatalf("expected notification for new due date, got %+v", rescheduled)
	}
}

func TestNewOpensConfiguredStore(t *testing.T) {
	ctx := context.Background()
	cfg := testsupport.NewConfig(t)

	tr, err := tracker.New(ctx, cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("tracker.New: %v", err)
	}
	if tr.StoreBackend() != "sqlite" {
		t.Fatalf("expected sqlite store, got %s", tr.StoreBackend())
	}
	if _, err := tr.AddTask(ctx, tasks.Draft{Title: "persist me"}); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	_ = tr.Close()

	reopened, err := tracker.New(ctx, cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if list := reopened.Tasks(ctx); len(list) != 1 || list[0].Title != "persist me" {
		t.Fatalf("expected persisted task, got %+v", list)
	}
}

func TestTasksPersistUnderStorageKey(t *testing.T) {
	ctx := context.Background()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	tr, err := tracker.New(ctx, cfg, logging.NewNop(), tracker.WithBackend(store))
	if err != nil {
		t.Fatalf("tracker.New: %v", err)
	}
	defer tr.Close()
	if _, err := tr.AddTask(ctx, tasks.Draft{Title: "Buy milk", NetworkTrigger: tasks.TriggerHome}); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	raw, ok, err := store.Load(ctx, tasks.StorageKey)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	for _, want := range []string{`"title":"Buy milk"`, `"networkTrigger":"home"`, `"priority":"medium"`} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("expected %s in stored value %s", want, raw)
		}
	}
}

func TestNewRejectsBrokenChannel(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.Channel = config.ChannelNtfy
	cfg.Notifications.NtfyTopic = ""
	if _, err := tracker.New(context.Background(), cfg, logging.NewNop(), tracker.WithBackend(kvstore.NewMemory())); err == nil {
		t.Fatal("expected error for ntfy without topic")
	}
}

func TestDismissAndClearNotifications(t *testing.T) {
	ctx := context.Background()
	tr := newTracker(t, tracker.WithDetector(network.StaticDetector{SSID: "Coffee Shop"}))
	change, err := tr.SimulateNetworkChange(ctx)
	if err != nil {
		t.Fatalf("SimulateNetworkChange: %v", err)
	}
	if !tr.DismissNotification(change.Notifications[0].ID) {
		t.Fatal("expected dismiss to succeed")
	}
	if len(tr.Notifications()) != 0 {
		t.Fatal("expected empty notification list")
	}
	if tr.NetworkStatus().IsHomeNetwork {
		t.Fatal("expected away status")
	}
	if _, err := tr.SimulateNetworkChange(ctx); err != nil {
		t.Fatalf("SimulateNetworkChange: %v", err)
	}
	tr.ClearNotifications()
	if len(tr.Notifications()) != 0 || tr.Dispatcher().Pending() != 0 {
		t.Fatal("expected clear to remove everything")
	}
}
