// Package preflight provides readiness checks for the directories and
// delivery channels netdo depends on.
//
// The CLI "netdo config validate" prints every result, and the watch daemon
// runs RunAll before taking its lock so a broken setup is reported up front.
// Channel checks only run for the channel selected in config.
package preflight
