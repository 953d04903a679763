// Package daemon runs the long-lived "netdo watch" process.
//
// A Daemon holds a flock on the configured lock file so only one watcher
// runs per data directory, schedules due-date checks and optional simulated
// network changes with cron expressions, and starts the netlink watcher when
// the netlink detector is configured. All work is delegated to the tracker;
// the daemon only owns lifecycle and scheduling.
package daemon
