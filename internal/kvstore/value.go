package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"netdo/internal/logging"
)

// Value gives typed access to one key. The first Get reads and caches the
// stored value; later reads are served from the cache until Set replaces it.
type Value[T any] struct {
	backend  Backend
	key      string
	fallback func() T
	logger   *slog.Logger

	mu     sync.Mutex
	loaded bool
	cached T
}

// NewValue binds key on backend. fallback produces the value returned when
// nothing usable is stored; it is called on every miss so callers never share
// mutable defaults.
func NewValue[T any](backend Backend, key string, fallback func() T, logger *slog.Logger) *Value[T] {
	if fallback == nil {
		fallback = func() T {
			var zero T
			return zero
		}
	}
	return &Value[T]{
		backend:  backend,
		key:      key,
		fallback: fallback,
		logger:   logging.NewComponentLogger(logger, "kvstore"),
	}
}

// Key returns the bound key.
func (v *Value[T]) Key() string { return v.key }

// Get returns the current value. Absence, backend errors, and undecodable JSON
// all yield the fallback; the latter two are logged and never returned.
func (v *Value[T]) Get(ctx context.Context) T {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.loaded {
		return v.cached
	}
	v.cached = v.load(ctx)
	v.loaded = true
	return v.cached
}

// Set serializes value and overwrites the key. The cache reflects value even
// when the backend write fails.
func (v *Value[T]) Set(ctx context.Context, value T) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cached = value
	v.loaded = true

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", v.key, err)
	}
	if err := v.backend.Save(ctx, v.key, payload); err != nil {
		logging.WarnWithContext(v.logger, "value not persisted", "store_write_failed",
			logging.String("key", v.key),
			logging.String("backend", v.backend.Name()),
			logging.Error(err),
			logging.String(logging.FieldImpact, "change kept in memory until exit"),
		)
		return err
	}
	return nil
}

// Reset drops the cache so the next Get reads the backend again.
func (v *Value[T]) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	var zero T
	v.cached = zero
	v.loaded = false
}

func (v *Value[T]) load(ctx context.Context) T {
	raw, ok, err := v.backend.Load(ctx, v.key)
	if err != nil {
		logging.WarnWithContext(v.logger, "stored value unreadable; using default", "store_read_failed",
			logging.String("key", v.key),
			logging.String("backend", v.backend.Name()),
			logging.Error(err),
			logging.String(logging.FieldImpact, "starting from an empty value"),
		)
		return v.fallback()
	}
	if !ok {
		return v.fallback()
	}
	var decoded T
	if err := json.Unmarshal(raw, &decoded); err != nil {
		logging.WarnWithContext(v.logger, "stored value malformed; using default", "store_decode_failed",
			logging.String("key", v.key),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "the next save overwrites the malformed value"),
		)
		return v.fallback()
	}
	return decoded
}
