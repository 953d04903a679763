package kvstore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stored in PRAGMA user_version. A fresh file reports 0.
const schemaVersion = 1

// ErrSchemaMismatch is returned when netdo.db was written by an incompatible
// netdo release.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// migrate stamps a fresh database and refuses any other version.
func (s *SQLite) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	switch version {
	case schemaVersion:
		return nil
	case 0:
	default:
		return fmt.Errorf("%w: %s is at version %d, this build expects %d; move it aside or point paths.data_dir elsewhere",
			ErrSchemaMismatch, s.path, version, schemaVersion)
	}

	// PRAGMA statements cannot take bind parameters.
	stmt := schemaSQL + fmt.Sprintf("\nPRAGMA user_version = %d;", schemaVersion)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create kv table: %w", err)
	}
	return nil
}
