package network

import (
	"context"
	"log/slog"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"netdo/internal/logging"
)

// Applier receives statuses observed by a watcher.
type Applier interface {
	Apply(ctx context.Context, status Status) Change
}

// NetlinkWatcher listens for kernel uevents on network interfaces and applies
// a new status whenever the home/away classification changes. An interface
// listed in homeInterfaces makes the network "home"; any other interface
// that is up makes it "away".
type NetlinkWatcher struct {
	logger  *slog.Logger
	applier Applier
	home    map[string]struct{}

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
	up      map[string]struct{}
	last    *Status
}

// NewNetlinkWatcher creates a watcher. Interface names are matched exactly.
func NewNetlinkWatcher(homeInterfaces []string, applier Applier, logger *slog.Logger) *NetlinkWatcher {
	home := make(map[string]struct{}, len(homeInterfaces))
	for _, name := range homeInterfaces {
		if name = strings.TrimSpace(name); name != "" {
			home[name] = struct{}{}
		}
	}
	return &NetlinkWatcher{
		logger:  logging.NewComponentLogger(logger, "netlink-watcher"),
		applier: applier,
		home:    home,
		up:      make(map[string]struct{}),
	}
}

// Start begins listening for udev netlink events. Failing to open the
// socket is logged, not returned; the daemon keeps running without
// automatic detection.
func (w *NetlinkWatcher) Start(ctx context.Context) error {
	if w == nil {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		w.logger.Warn("failed to connect to netlink socket; network changes must be simulated",
			logging.Error(err),
			logging.String(logging.FieldEventType, "netlink_connect_failed"),
			logging.String(logging.FieldErrorHint, "ensure the process may open netlink sockets"),
			logging.String(logging.FieldImpact, "automatic network detection unavailable"),
		)
		return nil
	}

	w.conn = conn
	w.quit = make(chan struct{})
	w.running = true

	quit := w.quit
	go w.monitorLoop(ctx, conn, quit)

	w.logger.Info("netlink watcher started",
		logging.String(logging.FieldEventType, "netlink_watcher_started"),
		logging.Int("home_interfaces", len(w.home)),
	)
	return nil
}

// Stop shuts down the watcher.
func (w *NetlinkWatcher) Stop() {
	if w == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	if w.quit != nil {
		close(w.quit)
		w.quit = nil
	}
	if w.conn != nil {
		_ = w.conn.Close()
		w.conn = nil
	}
	w.running = false

	w.logger.Info("netlink watcher stopped",
		logging.String(logging.FieldEventType, "netlink_watcher_stopped"),
	)
}

// Running reports whether the watcher is active.
func (w *NetlinkWatcher) Running() bool {
	if w == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *NetlinkWatcher) monitorLoop(ctx context.Context, conn *netlink.UEventConn, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	monitorQuit := conn.Monitor(queue, errs, buildMatcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			w.handleEvent(ctx, uevent)
		case err := <-errs:
			logging.WarnWithContext(w.logger, "netlink watcher error", "netlink_watcher_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check kernel netlink subsystem"),
				logging.String(logging.FieldImpact, "network changes may be missed"),
			)
		}
	}
}

// buildMatcher matches interface lifecycle events: SUBSYSTEM=net with
// ACTION add, remove, change, move, online, or offline.
func buildMatcher() netlink.Matcher {
	action := "add|remove|change|move|online|offline"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "net",
		},
	})
	return rules
}

func (w *NetlinkWatcher) handleEvent(ctx context.Context, uevent netlink.UEvent) {
	iface := interfaceName(uevent)
	if iface == "" || iface == "lo" {
		w.logger.Debug("ignoring event without usable interface",
			logging.String("action", string(uevent.Action)),
			logging.String("kobj", uevent.KObj),
		)
		return
	}

	w.mu.Lock()
	switch string(uevent.Action) {
	case "remove", "offline":
		delete(w.up, iface)
	default:
		w.up[iface] = struct{}{}
	}
	status := w.classifyLocked()
	if w.last != nil && *w.last == status {
		w.mu.Unlock()
		return
	}
	w.last = &status
	w.mu.Unlock()

	w.logger.Info("network classification changed",
		logging.String(logging.FieldEventType, "netlink_network_changed"),
		logging.String("interface", iface),
		logging.String("action", string(uevent.Action)),
		logging.String("network", status.Label()),
		logging.Bool("connected", status.Connected),
	)
	if w.applier != nil {
		w.applier.Apply(ctx, status)
	}
}

// classifyLocked prefers a home interface; otherwise any up interface is
// away. Names are sorted so the reported interface is stable.
func (w *NetlinkWatcher) classifyLocked() Status {
	names := make([]string, 0, len(w.up))
	for name := range w.up {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if _, ok := w.home[name]; ok {
			return Status{Connected: true, SSID: name, IsHomeNetwork: true}
		}
	}
	if len(names) > 0 {
		return Status{Connected: true, SSID: names[0], IsHomeNetwork: false}
	}
	return Status{}
}

// interfaceName reads INTERFACE, falling back to the last DEVPATH element.
func interfaceName(uevent netlink.UEvent) string {
	if name := strings.TrimSpace(uevent.Env["INTERFACE"]); name != "" {
		return name
	}
	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		devpath = uevent.KObj
	}
	if devpath == "" {
		return ""
	}
	return path.Base(devpath)
}
