package kvstore

import (
	"context"
	"errors"
	"log/slog"

	"netdo/internal/config"
	"netdo/internal/logging"
)

// Open returns the backend selected by cfg. A memory backend is returned when
// configured, and also when the SQLite file cannot be opened; the latter is
// logged rather than returned so the tracker stays usable without storage.
// ErrSchemaMismatch is the exception: it is returned so an incompatible
// database is never silently ignored.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Backend, error) {
	logger = logging.NewComponentLogger(logger, "kvstore")
	if cfg == nil || cfg.Store.Backend == config.StoreBackendMemory {
		logger.Debug("using in-memory store")
		return NewMemory(), nil
	}

	path := cfg.StorePath()
	store, err := OpenSQLite(ctx, path)
	if err != nil {
		if errors.Is(err, ErrSchemaMismatch) {
			return nil, err
		}
		logging.WarnWithContext(logger, "storage unavailable; using in-memory store", "store_fallback",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that data_dir is writable"),
			logging.String(logging.FieldImpact, "tasks will not persist after exit"),
		)
		return NewMemory(), nil
	}
	logger.Debug("opened sqlite store", logging.String("path", path))
	return store, nil
}
