// Package notifications emits reminder records and tracks their delivery.
//
// A Dispatcher keeps the in-memory notification list, fans every new or
// updated notification out to subscribers, and schedules one delivery per
// notification through a Channel (simulated, ntfy, or Telegram). Deliveries
// are keyed by notification id and cancelled when the notification is
// dismissed, cleared, or the dispatcher is closed.
//
// Subscribers are never invoked while the dispatcher lock is held, so a
// callback may subscribe, unsubscribe, or dismiss freely. Delivery updates
// arrive on timer goroutines.
package notifications
