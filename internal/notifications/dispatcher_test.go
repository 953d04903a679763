package notifications_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"netdo/internal/logging"
	"netdo/internal/notifications"
	"netdo/internal/tasks"
)

type fakeTimer struct {
	mu      *sync.Mutex
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
	delays []time.Duration
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) notifications.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer := &fakeTimer{mu: &s.mu, f: f}
	s.timers = append(s.timers, timer)
	s.delays = append(s.delays, d)
	return timer
}

// fireAll runs every timer that is neither stopped nor already fired.
func (s *fakeScheduler) fireAll() {
	s.mu.Lock()
	var due []func()
	for _, timer := range s.timers {
		if !timer.stopped && !timer.fired {
			timer.fired = true
			due = append(due, timer.f)
		}
	}
	s.mu.Unlock()
	for _, f := range due {
		f()
	}
}

type recorder struct {
	mu  sync.Mutex
	got []notifications.Notification
}

func (r *recorder) record(n notifications.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *recorder) all() []notifications.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notifications.Notification(nil), r.got...)
}

func newDispatcher(t *testing.T, opts ...notifications.Option) (*notifications.Dispatcher, *fakeScheduler) {
	t.Helper()
	sched := &fakeScheduler{}
	base := []notifications.Option{
		notifications.WithScheduler(sched),
		notifications.WithLogger(logging.NewNop()),
	}
	d := notifications.New(append(base, opts...)...)
	t.Cleanup(func() { _ = d.Close() })
	return d, sched
}

func TestNetworkChangeIsPendingThenSent(t *testing.T) {
	d, sched := newDispatcher(t)
	rec := &recorder{}
	d.Subscribe(rec.record)

	n := d.NotifyNetworkChange(true, "Home Network")
	if n.Type != notifications.TypeNetworkChange || n.Title != "Network Changed" {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if n.Message != "Connected to home network: Home Network" {
		t.Fatalf("unexpected message %q", n.Message)
	}
	if n.Status != notifications.StatusPending {
		t.Fatalf("expected pending, got %s", n.Status)
	}
	if got := rec.all(); len(got) != 1 || got[0].ID != n.ID {
		t.Fatalf("expected one synchronous broadcast, got %+v", got)
	}
	if len(sched.delays) != 1 || sched.delays[0] != notifications.DefaultDeliveryDelay {
		t.Fatalf("expected one delivery scheduled at default delay, got %v", sched.delays)
	}

	sched.fireAll()

	got := rec.all()
	if len(got) != 2 || got[1].ID != n.ID || got[1].Status != notifications.StatusSent {
		t.Fatalf("expected updated copy broadcast, got %+v", got)
	}
	if list := d.Notifications(); len(list) != 1 || list[0].Status != notifications.StatusSent {
		t.Fatalf("expected stored copy to be sent, got %+v", list)
	}
	if d.Pending() != 0 {
		t.Fatalf("expected no pending deliveries, got %d", d.Pending())
	}
}

func TestAwayMessage(t *testing.T) {
	d, _ := newDispatcher(t)
	if n := d.NotifyNetworkChange(false, "Coffee Shop"); n.Message != "Connected to away network: Coffee Shop" {
		t.Fatalf("unexpected message %q", n.Message)
	}
}

func TestTaskReminderMatchesTrigger(t *testing.T) {
	cases := []struct {
		trigger tasks.Trigger
		home    bool
		emit    bool
	}{
		{tasks.TriggerHome, true, true},
		{tasks.TriggerHome, false, false},
		{tasks.TriggerAway, false, true},
		{tasks.TriggerAway, true, false},
		{tasks.TriggerNone, true, false},
		{tasks.TriggerNone, false, false},
	}
	for _, tc := range cases {
		d, _ := newDispatcher(t)
		task := tasks.Task{ID: "t1", Title: "Buy milk", NetworkTrigger: tc.trigger}
		n, ok := d.NotifyTaskReminder(task, tc.home)
		if ok != tc.emit {
			t.Fatalf("trigger=%q home=%v: emitted=%v, want %v", tc.trigger, tc.home, ok, tc.emit)
		}
		if got := len(d.Notifications()); (got == 1) != tc.emit {
			t.Fatalf("trigger=%q home=%v: list has %d entries", tc.trigger, tc.home, got)
		}
		if ok {
			if n.Title != "Task Reminder" || n.Message != "Don't forget: Buy milk" {
				t.Fatalf("unexpected reminder %+v", n)
			}
			if n.Task == nil || n.Task.ID != "t1" {
				t.Fatalf("expected task reference, got %+v", n.Task)
			}
		}
	}
}

func TestTaskDue(t *testing.T) {
	d, _ := newDispatcher(t)
	due := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	if _, ok := d.NotifyTaskDue(tasks.Task{ID: "a", Title: "no date"}); ok {
		t.Fatal("expected no notification without due date")
	}
	if _, ok := d.NotifyTaskDue(tasks.Task{ID: "b", Title: "done", DueDate: &due, Completed: true}); ok {
		t.Fatal("expected no notification for completed task")
	}
	n, ok := d.NotifyTaskDue(tasks.Task{ID: "c", Title: "Pay rent", DueDate: &due})
	if !ok || n.Type != notifications.TypeTaskDue || n.Title != "Task Due" || n.Message != "Due now: Pay rent" {
		t.Fatalf("unexpected due notification %+v ok=%v", n, ok)
	}
}

func TestDismissCancelsDelivery(t *testing.T) {
	d, sched := newDispatcher(t)
	rec := &recorder{}
	d.Subscribe(rec.record)

	first := d.NotifyNetworkChange(true, "Home Network")
	second := d.NotifyNetworkChange(false, "Office Network")

	if !d.Dismiss(first.ID) {
		t.Fatal("expected dismiss to succeed")
	}
	if d.Dismiss(first.ID) {
		t.Fatal("expected second dismiss to report missing")
	}
	if d.Pending() != 1 {
		t.Fatalf("expected one pending delivery, got %d", d.Pending())
	}

	sched.fireAll()

	for _, n := range rec.all() {
		if n.ID == first.ID && n.Status == notifications.StatusSent {
			t.Fatal("dismissed notification was delivered")
		}
	}
	list := d.Notifications()
	if len(list) != 1 || list[0].ID != second.ID || list[0].Status != notifications.StatusSent {
		t.Fatalf("unexpected list after delivery: %+v", list)
	}
	// Dismissal is a pure removal: nothing is broadcast for it.
	if got := len(rec.all()); got != 3 {
		t.Fatalf("expected 3 broadcasts (2 emits + 1 delivery), got %d", got)
	}
}

func TestClearAllCancelsEverything(t *testing.T) {
	d, sched := newDispatcher(t)
	d.NotifyNetworkChange(true, "Home Network")
	d.NotifyTaskReminder(tasks.Task{ID: "t", Title: "x", NetworkTrigger: tasks.TriggerHome}, true)

	d.ClearAll()
	if len(d.Notifications()) != 0 || d.Pending() != 0 {
		t.Fatalf("expected empty dispatcher, got %d notifications %d pending", len(d.Notifications()), d.Pending())
	}
	sched.fireAll()
	if len(d.Notifications()) != 0 {
		t.Fatal("cleared notifications reappeared")
	}
}

func TestUnsubscribeFromInsideCallback(t *testing.T) {
	d, _ := newDispatcher(t)
	var calls int
	var unsubscribe func()
	unsubscribe = d.Subscribe(func(notifications.Notification) {
		calls++
		unsubscribe()
	})
	other := &recorder{}
	d.Subscribe(other.record)

	d.NotifyNetworkChange(true, "Home Network")
	d.NotifyNetworkChange(true, "Home Network")

	if calls != 1 {
		t.Fatalf("expected self-unsubscribing callback to run once, got %d", calls)
	}
	if got := len(other.all()); got != 2 {
		t.Fatalf("expected other subscriber to see both, got %d", got)
	}
	unsubscribe()
}

func TestDismissFromInsideCallbackSkipsDelivery(t *testing.T) {
	d, sched := newDispatcher(t)
	d.Subscribe(func(n notifications.Notification) {
		if n.Status == notifications.StatusPending {
			d.Dismiss(n.ID)
		}
	})
	d.NotifyNetworkChange(true, "Home Network")
	if len(sched.timers) != 0 {
		t.Fatalf("expected no delivery scheduled, got %d", len(sched.timers))
	}
}

type failingChannel struct{}

func (failingChannel) Deliver(context.Context, notifications.Notification) error {
	return errors.New("channel down")
}

func (failingChannel) Name() string { return "failing" }

func TestChannelErrorMarksFailed(t *testing.T) {
	d, sched := newDispatcher(t, notifications.WithChannel(failingChannel{}))
	n := d.NotifyNetworkChange(true, "Home Network")
	sched.fireAll()
	list := d.Notifications()
	if len(list) != 1 || list[0].ID != n.ID || list[0].Status != notifications.StatusFailed {
		t.Fatalf("expected failed status, got %+v", list)
	}
}

func TestWaitIdleWithRealTimers(t *testing.T) {
	d := notifications.New(
		notifications.WithDeliveryDelay(10*time.Millisecond),
		notifications.WithLogger(logging.NewNop()),
	)
	defer d.Close()

	d.NotifyNetworkChange(true, "Home Network")
	d.NotifyTaskReminder(tasks.Task{ID: "t", Title: "Buy milk", NetworkTrigger: tasks.TriggerHome}, true)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.WaitIdle(ctx); err != nil {
		t.Fatalf("WaitIdle: %v", err)
	}
	for _, n := range d.Notifications() {
		if n.Status != notifications.StatusSent {
			t.Fatalf("expected all sent, got %+v", n)
		}
	}
}

func TestWaitIdleHonoursContext(t *testing.T) {
	d, _ := newDispatcher(t)
	d.NotifyNetworkChange(true, "Home Network")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.WaitIdle(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCloseStopsDeliveries(t *testing.T) {
	d, sched := newDispatcher(t)
	d.NotifyNetworkChange(true, "Home Network")
	_ = d.Close()
	sched.fireAll()
	if list := d.Notifications(); list[0].Status != notifications.StatusPending {
		t.Fatalf("expected pending after close, got %s", list[0].Status)
	}
	d.NotifyNetworkChange(false, "Coffee Shop")
	if d.Pending() != 0 {
		t.Fatalf("expected no deliveries after close, got %d", d.Pending())
	}
}

type fakePresenter struct {
	supported bool
	grant     bool
	requests  int
	shown     []notifications.Notification
}

func (p *fakePresenter) Supported() bool { return p.supported }

func (p *fakePresenter) RequestPermission() bool {
	p.requests++
	return p.grant
}

func (p *fakePresenter) Present(n notifications.Notification) { p.shown = append(p.shown, n) }

func TestPresenterPermissionRequestedOnce(t *testing.T) {
	granted := &fakePresenter{supported: true, grant: true}
	d, _ := newDispatcher(t, notifications.WithPresenter(granted))
	d.NotifyNetworkChange(true, "Home Network")
	d.NotifyNetworkChange(true, "Home Network")
	if granted.requests != 1 {
		t.Fatalf("expected one permission request, got %d", granted.requests)
	}
	if !d.PresenterPermitted() || len(granted.shown) != 2 {
		t.Fatalf("expected presenter to receive both notifications, got %d", len(granted.shown))
	}

	denied := &fakePresenter{supported: true, grant: false}
	d2, _ := newDispatcher(t, notifications.WithPresenter(denied))
	d2.NotifyNetworkChange(true, "Home Network")
	if denied.requests != 1 || len(denied.shown) != 0 {
		t.Fatalf("denied presenter: requests=%d shown=%d", denied.requests, len(denied.shown))
	}

	unsupported := &fakePresenter{supported: false, grant: true}
	newDispatcher(t, notifications.WithPresenter(unsupported))
	if unsupported.requests != 0 {
		t.Fatalf("expected no request for unsupported presenter, got %d", unsupported.requests)
	}
}

func TestNotificationsReturnsCopies(t *testing.T) {
	d, _ := newDispatcher(t)
	d.NotifyTaskReminder(tasks.Task{ID: "t", Title: "Buy milk", NetworkTrigger: tasks.TriggerHome}, true)
	list := d.Notifications()
	list[0].Task.Title = "changed"
	list[0].Message = "changed"
	again := d.Notifications()
	if again[0].Task.Title != "Buy milk" || again[0].Message != "Don't forget: Buy milk" {
		t.Fatalf("dispatcher state leaked: %+v", again[0])
	}
}
