// Package main hosts the netdo CLI entrypoint and command graph.
//
// Each invocation loads the TOML configuration, opens the tracker against
// the configured store, performs one operation, and exits. "netdo watch" is
// the exception: it runs the daemon until interrupted, delivering due-date
// reminders and scheduled network changes. Task mutation, filtering, and
// notification logic live in internal packages; commands here only parse
// flags and render output.
package main
