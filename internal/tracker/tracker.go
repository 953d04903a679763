package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"netdo/internal/config"
	"netdo/internal/kvstore"
	"netdo/internal/logging"
	"netdo/internal/network"
	"netdo/internal/notifications"
	"netdo/internal/taskquery"
	"netdo/internal/tasks"
)

// Option customizes tracker construction.
type Option func(*options)

type options struct {
	backend      kvstore.Backend
	detector     network.Detector
	channel      notifications.Channel
	dispatchOpts []notifications.Option
	now          func() time.Time
}

// WithBackend uses backend instead of opening one from config.
func WithBackend(backend kvstore.Backend) Option {
	return func(o *options) { o.backend = backend }
}

// WithDetector replaces the configured network detector.
func WithDetector(detector network.Detector) Option {
	return func(o *options) { o.detector = detector }
}

// WithChannel replaces the configured delivery channel.
func WithChannel(channel notifications.Channel) Option {
	return func(o *options) { o.channel = channel }
}

// WithDispatcherOptions appends dispatcher options, applied after the ones
// derived from config.
func WithDispatcherOptions(opts ...notifications.Option) Option {
	return func(o *options) { o.dispatchOpts = append(o.dispatchOpts, opts...) }
}

// WithClock replaces time.Now for due checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Tracker owns every core component.
type Tracker struct {
	cfg        *config.Config
	logger     *slog.Logger
	backend    kvstore.Backend
	tasks      *tasks.Store
	dispatcher *notifications.Dispatcher
	simulator  *network.Simulator
	now        func() time.Time

	dueMu    sync.Mutex
	notified map[string]time.Time
}

// New builds a tracker from cfg. Storage problems degrade to an in-memory
// store; a misconfigured delivery channel is an error.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Tracker, error) {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	backend := o.backend
	if backend == nil {
		opened, err := kvstore.Open(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		backend = opened
	}

	channel := o.channel
	if channel == nil {
		built, err := notifications.NewChannel(cfg, logger)
		if err != nil {
			_ = backend.Close()
			return nil, fmt.Errorf("build delivery channel: %w", err)
		}
		channel = built
	}

	dispatchOpts := []notifications.Option{
		notifications.WithDeliveryDelay(cfg.DeliveryDelay()),
		notifications.WithChannel(channel),
		notifications.WithLogger(logger),
	}
	dispatcher := notifications.New(append(dispatchOpts, o.dispatchOpts...)...)

	detector := o.detector
	if detector == nil {
		detector = network.NewRandomDetector(cfg.Network.Seed)
	}

	store := tasks.NewStore(backend, logger)
	t := &Tracker{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "tracker"),
		backend:    backend,
		tasks:      store,
		dispatcher: dispatcher,
		simulator:  network.NewSimulator(detector, dispatcher, store, logger),
		now:        o.now,
		notified:   make(map[string]time.Time),
	}
	t.logger.Debug("tracker ready",
		logging.String("store", backend.Name()),
		logging.String("channel", channel.Name()),
	)
	return t, nil
}

// Config returns the configuration the tracker was built with.
func (t *Tracker) Config() *config.Config { return t.cfg }

// StoreBackend names the persistence backend in use.
func (t *Tracker) StoreBackend() string { return t.backend.Name() }

// Dispatcher exposes the notification dispatcher.
func (t *Tracker) Dispatcher() *notifications.Dispatcher { return t.dispatcher }

// Simulator exposes the network simulator, e.g. for a netlink watcher.
func (t *Tracker) Simulator() *network.Simulator { return t.simulator }

// Tasks returns every task in stored order.
func (t *Tracker) Tasks(ctx context.Context) []tasks.Task { return t.tasks.List(ctx) }

// Task returns one task.
func (t *Tracker) Task(ctx context.Context, id string) (tasks.Task, error) {
	return t.tasks.Get(ctx, id)
}

// Query filters and sorts the task list for display.
func (t *Tracker) Query(ctx context.Context, filter taskquery.Filter) []tasks.Task {
	return taskquery.FilterAndSort(t.tasks.List(ctx), filter)
}

// Summary counts the task list.
func (t *Tracker) Summary(ctx context.Context) tasks.Summary {
	return tasks.Summarize(t.tasks.List(ctx))
}

func (t *Tracker) AddTask(ctx context.Context, draft tasks.Draft) (tasks.Task, error) {
	return t.tasks.Add(ctx, draft)
}

func (t *Tracker) ToggleTask(ctx context.Context, id string) (tasks.Task, error) {
	return t.tasks.Toggle(ctx, id)
}

func (t *Tracker) UpdateTask(ctx context.Context, id string, patch tasks.Patch) (tasks.Task, error) {
	return t.tasks.Update(ctx, id, patch)
}

func (t *Tracker) DeleteTask(ctx context.Context, id string) error {
	return t.tasks.Delete(ctx, id)
}

func (t *Tracker) ReplaceTasks(ctx context.Context, list []tasks.Task) error {
	return t.tasks.ReplaceAll(ctx, list)
}

// Subscribe registers fn for every new or updated notification.
func (t *Tracker) Subscribe(fn func(notifications.Notification)) func() {
	return t.dispatcher.Subscribe(fn)
}

func (t *Tracker) Notifications() []notifications.Notification {
	return t.dispatcher.Notifications()
}

func (t *Tracker) DismissNotification(id string) bool { return t.dispatcher.Dismiss(id) }

func (t *Tracker) ClearNotifications() { t.dispatcher.ClearAll() }

// NetworkStatus returns the current network status.
func (t *Tracker) NetworkStatus() network.Status { return t.simulator.Current() }

// SimulateNetworkChange detects a new status and notifies.
func (t *Tracker) SimulateNetworkChange(ctx context.Context) (network.Change, error) {
	return t.simulator.Trigger(ctx)
}

// ApplyNetworkStatus feeds an externally observed status through the simulator.
func (t *Tracker) ApplyNetworkStatus(ctx context.Context, status network.Status) network.Change {
	return t.simulator.Apply(ctx, status)
}

// CheckDue emits a due notification for every incomplete task whose due date
// has passed. Each task is notified once per due date.
func (t *Tracker) CheckDue(ctx context.Context) []notifications.Notification {
	now := t.now()
	emitted := []notifications.Notification{}

	t.dueMu.Lock()
	defer t.dueMu.Unlock()
	for _, task := range t.tasks.Incomplete(ctx) {
		if !task.Due(now) {
			continue
		}
		if last, ok := t.notified[task.ID]; ok && last.Equal(*task.DueDate) {
			continue
		}
		if n, ok := t.dispatcher.NotifyTaskDue(task); ok {
			t.notified[task.ID] = *task.DueDate
			emitted = append(emitted, n)
		}
	}
	return emitted
}

// Reload re-reads the task list from the store on next access.
func (t *Tracker) Reload() { t.tasks.Reload() }

// WaitIdle blocks until every scheduled delivery has completed.
func (t *Tracker) WaitIdle(ctx context.Context) error {
	return t.dispatcher.WaitIdle(ctx)
}

// Close stops deliveries and closes the store.
func (t *Tracker) Close() error {
	return errors.Join(t.dispatcher.Close(), t.backend.Close())
}
