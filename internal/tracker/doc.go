// Package tracker wires the task store, notification dispatcher, and network
// simulator into one explicitly owned instance.
//
// Tracker is the presentation boundary: the CLI and the watch daemon call it
// for task mutations, queries, summaries, network changes, due checks, and
// notification subscriptions. Nothing in the tree holds process-wide state.
package tracker
