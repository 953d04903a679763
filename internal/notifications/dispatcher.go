package notifications

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"netdo/internal/logging"
	"netdo/internal/tasks"
)

// DefaultDeliveryDelay is the time between emission and delivery.
const DefaultDeliveryDelay = 2000 * time.Millisecond

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithDeliveryDelay overrides DefaultDeliveryDelay. Negative values are
// treated as zero.
func WithDeliveryDelay(d time.Duration) Option {
	return func(disp *Dispatcher) {
		if d < 0 {
			d = 0
		}
		disp.delay = d
	}
}

// WithScheduler replaces the runtime timer scheduler.
func WithScheduler(s Scheduler) Option {
	return func(disp *Dispatcher) {
		if s != nil {
			disp.scheduler = s
		}
	}
}

// WithChannel sets the delivery channel. The default is Simulated.
func WithChannel(c Channel) Option {
	return func(disp *Dispatcher) {
		if c != nil {
			disp.channel = c
		}
	}
}

// WithLogger sets the dispatcher logger.
func WithLogger(logger *slog.Logger) Option {
	return func(disp *Dispatcher) {
		disp.logger = logger
	}
}

// WithClock replaces time.Now for notification timestamps.
func WithClock(now func() time.Time) Option {
	return func(disp *Dispatcher) {
		if now != nil {
			disp.now = now
		}
	}
}

// WithPresenter attaches a presenter that is asked for permission once at
// construction and, when permitted, receives every notification.
func WithPresenter(p Presenter) Option {
	return func(disp *Dispatcher) {
		disp.presenter = p
	}
}

type subscriber struct {
	id uint64
	fn func(Notification)
}

// Dispatcher owns the notification list and the pending deliveries.
type Dispatcher struct {
	delay     time.Duration
	scheduler Scheduler
	channel   Channel
	logger    *slog.Logger
	now       func() time.Time
	presenter Presenter

	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	notifications []Notification
	subscribers   []subscriber
	nextSubID     uint64
	pending       map[string]Timer
	idle          chan struct{}
	closed        bool

	permitted bool
}

// New constructs a dispatcher.
func New(opts ...Option) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		delay:     DefaultDeliveryDelay,
		scheduler: runtimeScheduler{},
		channel:   Simulated{},
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
		pending:   make(map[string]Timer),
		idle:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logging.NewComponentLogger(d.logger, "dispatcher")

	if d.presenter != nil && d.presenter.Supported() {
		d.permitted = d.presenter.RequestPermission()
		d.logger.Debug("presenter permission requested", logging.Bool("granted", d.permitted))
		if d.permitted {
			d.Subscribe(d.presenter.Present)
		}
	}
	return d
}

// PresenterPermitted reports whether the construction-time permission
// request was granted.
func (d *Dispatcher) PresenterPermitted() bool {
	return d.permitted
}

// Channel returns the delivery channel name.
func (d *Dispatcher) Channel() string {
	return d.channel.Name()
}

// Subscribe registers fn for every new or updated notification. The returned
// function removes the registration; calling it more than once is harmless.
func (d *Dispatcher) Subscribe(fn func(Notification)) func() {
	if fn == nil {
		return func() {}
	}
	d.mu.Lock()
	d.nextSubID++
	id := d.nextSubID
	d.subscribers = append(d.subscribers, subscriber{id: id, fn: fn})
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			for i, sub := range d.subscribers {
				if sub.id == id {
					d.subscribers = append(d.subscribers[:i:i], d.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}

// NotifyNetworkChange emits a network-change notification.
func (d *Dispatcher) NotifyNetworkChange(isHomeNetwork bool, ssid string) Notification {
	return d.emit(networkChange(d.now(), isHomeNetwork, ssid))
}

// NotifyTaskReminder emits a reminder when the task's trigger matches the
// network class. It reports whether a notification was emitted.
func (d *Dispatcher) NotifyTaskReminder(task tasks.Task, isHomeNetwork bool) (Notification, bool) {
	if !task.NetworkTrigger.Matches(isHomeNetwork) {
		return Notification{}, false
	}
	return d.emit(taskReminder(d.now(), task)), true
}

// NotifyTaskDue emits a due notification for an incomplete task with a due
// date. Whether the date has passed is the caller's decision.
func (d *Dispatcher) NotifyTaskDue(task tasks.Task) (Notification, bool) {
	if task.Completed || task.DueDate == nil {
		return Notification{}, false
	}
	return d.emit(taskDue(d.now(), task)), true
}

// Notifications returns the list in emission order.
func (d *Dispatcher) Notifications() []Notification {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Notification, len(d.notifications))
	for i, n := range d.notifications {
		out[i] = n.clone()
	}
	return out
}

// Dismiss removes the notification and cancels its pending delivery.
func (d *Dispatcher) Dismiss(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	idx := d.indexLocked(id)
	if idx < 0 {
		return false
	}
	d.notifications = append(d.notifications[:idx:idx], d.notifications[idx+1:]...)
	d.cancelLocked(id)
	d.logger.Debug("notification dismissed", logging.String(logging.FieldNotificationID, id))
	return true
}

// ClearAll removes every notification and cancels all pending deliveries.
func (d *Dispatcher) ClearAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notifications = nil
	for id := range d.pending {
		d.cancelLocked(id)
	}
}

// Pending returns the number of deliveries not yet completed.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// WaitIdle blocks until no delivery is pending or ctx is done.
func (d *Dispatcher) WaitIdle(ctx context.Context) error {
	for {
		d.mu.Lock()
		if len(d.pending) == 0 {
			d.mu.Unlock()
			return nil
		}
		idle := d.idle
		d.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close cancels pending deliveries. Later emissions are recorded and
// broadcast but never delivered.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	d.closed = true
	for id := range d.pending {
		d.cancelLocked(id)
	}
	d.mu.Unlock()
	d.cancel()
	return nil
}

func (d *Dispatcher) emit(n Notification) Notification {
	d.mu.Lock()
	d.notifications = append(d.notifications, n)
	d.mu.Unlock()

	d.logger.Info("notification emitted",
		logging.String(logging.FieldNotificationID, n.ID),
		logging.String(logging.FieldEventType, string(n.Type)),
		logging.String("message", n.Message),
	)
	d.broadcast(n)
	d.schedule(n.ID)
	return n.clone()
}

func (d *Dispatcher) schedule(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	// A subscriber may have dismissed it during the first broadcast.
	if d.closed || d.indexLocked(id) < 0 {
		return
	}
	d.pending[id] = d.scheduler.AfterFunc(d.delay, func() { d.deliver(id) })
}

func (d *Dispatcher) deliver(id string) {
	d.mu.Lock()
	idx := d.indexLocked(id)
	if _, ok := d.pending[id]; !ok || idx < 0 {
		d.mu.Unlock()
		return
	}
	n := d.notifications[idx].clone()
	d.mu.Unlock()

	status := StatusSent
	if err := d.channel.Deliver(d.ctx, n); err != nil {
		status = StatusFailed
		logging.WarnWithContext(d.logger, "notification delivery failed", "delivery_failed",
			logging.String(logging.FieldNotificationID, id),
			logging.String("channel", d.channel.Name()),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the notifications channel settings"),
			logging.String(logging.FieldImpact, "notification marked failed"),
		)
	}

	d.mu.Lock()
	if _, ok := d.pending[id]; !ok {
		// Dismissed or cleared while the channel was busy.
		d.mu.Unlock()
		return
	}
	idx = d.indexLocked(id)
	if idx < 0 {
		d.releaseLocked(id)
		d.mu.Unlock()
		return
	}
	d.notifications[idx].Status = status
	updated := d.notifications[idx].clone()
	d.mu.Unlock()

	d.logger.Debug("notification delivered",
		logging.String(logging.FieldNotificationID, id),
		logging.String("status", string(status)),
	)
	d.broadcast(updated)

	// Released only after the broadcast so WaitIdle observes it.
	d.mu.Lock()
	if _, ok := d.pending[id]; ok {
		d.releaseLocked(id)
	}
	d.mu.Unlock()
}

func (d *Dispatcher) broadcast(n Notification) {
	d.mu.Lock()
	subs := make([]subscriber, len(d.subscribers))
	copy(subs, d.subscribers)
	d.mu.Unlock()

	for _, sub := range subs {
		sub.fn(n.clone())
	}
}

func (d *Dispatcher) cancelLocked(id string) {
	if timer, ok := d.pending[id]; ok {
		timer.Stop()
		d.releaseLocked(id)
	}
}

func (d *Dispatcher) releaseLocked(id string) {
	delete(d.pending, id)
	close(d.idle)
	d.idle = make(chan struct{})
}

func (d *Dispatcher) indexLocked(id string) int {
	for i, n := range d.notifications {
		if n.ID == id {
			return i
		}
	}
	return -1
}
