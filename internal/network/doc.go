// Package network classifies the current network as home or away and fans
// each change out to the notification dispatcher.
//
// Detection is a strategy: RandomDetector picks one of three canned networks,
// and NetlinkWatcher derives the status from kernel interface events.
// Simulator holds the current status and, on every change, emits one
// network-change notification plus a reminder for each incomplete task whose
// trigger matches.
package network
