package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"netdo/internal/config"
	"netdo/internal/logging"
	"netdo/internal/network"
	"netdo/internal/tracker"
)

// Daemon schedules background checks for a tracker and enforces
// single-instance execution.
type Daemon struct {
	cfg       *config.Config
	tracker   *tracker.Tracker
	logger    *slog.Logger
	sessionID string

	lockPath string
	lock     *flock.Flock

	mu      sync.Mutex
	cron    *cron.Cron
	watcher *network.NetlinkWatcher
	cancel  context.CancelFunc
	jobs    []Job

	running atomic.Bool
}

// Job describes a scheduled entry.
type Job struct {
	Name     string
	Schedule string
}

// Status represents daemon runtime information.
type Status struct {
	Running        bool
	SessionID      string
	LockFilePath   string
	Jobs           []Job
	NetlinkRunning bool
}

// New constructs a daemon for the given tracker.
func New(cfg *config.Config, tr *tracker.Tracker, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || tr == nil {
		return nil, errors.New("daemon requires config and tracker")
	}
	sessionID := uuid.NewString()
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:       cfg,
		tracker:   tr,
		logger:    logging.NewComponentLogger(logger, "daemon").With(logging.String(logging.FieldSessionID, sessionID)),
		sessionID: sessionID,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}, nil
}

// SessionID identifies this daemon run in logs.
func (d *Daemon) SessionID() string {
	return d.sessionID
}

// Start acquires the lock, runs an initial due check, and starts the
// scheduler and the netlink watcher.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another netdo watch instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	scheduler := cron.New()
	var jobs []Job

	if spec := d.cfg.Notifications.DueCheckSchedule; spec != "" {
		if _, err := scheduler.AddFunc(spec, func() { d.RunDueCheck(runCtx) }); err != nil {
			cancel()
			_ = d.lock.Unlock()
			return fmt.Errorf("schedule due check %q: %w", spec, err)
		}
		jobs = append(jobs, Job{Name: "due-check", Schedule: spec})
	}
	if spec := d.cfg.Network.SimulateSchedule; spec != "" {
		if _, err := scheduler.AddFunc(spec, func() { d.RunSimulation(runCtx) }); err != nil {
			cancel()
			_ = d.lock.Unlock()
			return fmt.Errorf("schedule network simulation %q: %w", spec, err)
		}
		jobs = append(jobs, Job{Name: "simulate-network", Schedule: spec})
	}

	var watcher *network.NetlinkWatcher
	if d.cfg.Network.Detector == config.DetectorNetlink {
		watcher = network.NewNetlinkWatcher(d.cfg.Network.HomeInterfaces, reloadingApplier{d.tracker}, d.logger)
		if err := watcher.Start(runCtx); err != nil {
			cancel()
			_ = d.lock.Unlock()
			return fmt.Errorf("start netlink watcher: %w", err)
		}
	}

	d.mu.Lock()
	d.cron = scheduler
	d.watcher = watcher
	d.cancel = cancel
	d.jobs = jobs
	d.mu.Unlock()

	d.RunDueCheck(runCtx)
	scheduler.Start()
	d.running.Store(true)

	d.logger.Info("netdo watch started",
		logging.String(logging.FieldEventType, "daemon_started"),
		logging.String("lock", d.lockPath),
		logging.Int("jobs", len(jobs)),
		logging.String("detector", d.cfg.Network.Detector),
		logging.String("channel", d.tracker.Dispatcher().Channel()),
	)
	return nil
}

// Stop halts the scheduler and watcher, waits for running jobs, and
// releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	d.mu.Lock()
	scheduler, watcher, cancel := d.cron, d.watcher, d.cancel
	d.cron, d.watcher, d.cancel, d.jobs = nil, nil, nil, nil
	d.mu.Unlock()

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	watcher.Stop()
	if cancel != nil {
		cancel()
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock",
			logging.Error(err),
			logging.String(logging.FieldEventType, "daemon_unlock_failed"),
			logging.String(logging.FieldErrorHint, "remove the lock file if no watcher is running"),
			logging.String(logging.FieldImpact, "next start may report an existing instance"),
		)
	}
	d.running.Store(false)
	d.logger.Info("netdo watch stopped", logging.String(logging.FieldEventType, "daemon_stopped"))
}

// Run starts the daemon and blocks until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	d.Stop()
	return nil
}

// RunDueCheck emits due notifications for overdue tasks.
func (d *Daemon) RunDueCheck(ctx context.Context) {
	d.tracker.Reload()
	emitted := d.tracker.CheckDue(ctx)
	if len(emitted) == 0 {
		d.logger.Debug("due check found nothing new")
		return
	}
	d.logger.Info("due check emitted notifications",
		logging.String(logging.FieldEventType, "due_check"),
		logging.Int("count", len(emitted)),
	)
}

// RunSimulation triggers one simulated network change.
func (d *Daemon) RunSimulation(ctx context.Context) {
	d.tracker.Reload()
	change, err := d.tracker.SimulateNetworkChange(ctx)
	if err != nil {
		logging.WarnWithContext(d.logger, "network simulation failed", "simulation_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "reminders for this change were skipped"),
		)
		return
	}
	d.logger.Info("simulated network change",
		logging.String(logging.FieldEventType, "network_simulated"),
		logging.String("network", change.Status.Label()),
		logging.Int("reminders", change.Reminders()),
	)
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	jobs := make([]Job, len(d.jobs))
	copy(jobs, d.jobs)
	return Status{
		Running:        d.running.Load(),
		SessionID:      d.sessionID,
		LockFilePath:   d.lockPath,
		Jobs:           jobs,
		NetlinkRunning: d.watcher.Running(),
	}
}

// reloadingApplier refreshes the task list before each observed change so
// reminders cover tasks added by other netdo processes.
type reloadingApplier struct {
	tracker *tracker.Tracker
}

func (a reloadingApplier) Apply(ctx context.Context, status network.Status) network.Change {
	a.tracker.Reload()
	return a.tracker.ApplyNetworkStatus(ctx, status)
}
