// Package kvstore persists whole JSON values under string keys.
//
// A Backend stores raw bytes; Value wraps one key with typed, cached access
// that falls back to a default when the key is absent, the backend fails, or
// the stored JSON does not decode. Open picks the SQLite backend configured
// for the data directory and degrades to an in-memory backend when storage is
// unavailable.
package kvstore
