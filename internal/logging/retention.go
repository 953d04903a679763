package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// maxLogBytes is the size at which netdo.log is rotated on startup.
const maxLogBytes = 5 << 20

const archivePattern = "netdo-*.log"

// rotateLog renames path to a timestamped archive when it has grown past
// limit. It reports the archive path, or "" when nothing was rotated.
func rotateLog(path string, limit int64, now time.Time) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("stat log: %w", err)
	}
	if info.Size() < limit {
		return "", nil
	}
	archive := filepath.Join(filepath.Dir(path), "netdo-"+now.UTC().Format("20060102T150405")+".log")
	if err := os.Rename(path, archive); err != nil {
		return "", fmt.Errorf("rotate log: %w", err)
	}
	return archive, nil
}

// PruneArchives removes rotated logs in dir whose modification time is older
// than retentionDays. Zero or negative retention keeps everything. It returns
// the number of files removed.
func PruneArchives(logger *slog.Logger, dir string, retentionDays int, now time.Time) int {
	dir = strings.TrimSpace(dir)
	if retentionDays <= 0 || dir == "" {
		return 0
	}
	matches, err := filepath.Glob(filepath.Join(dir, archivePattern))
	if err != nil {
		return 0
	}
	cutoff := now.AddDate(0, 0, -retentionDays)

	removed := 0
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "log retention remove failed; file remains", "log_retention_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check file permissions and log_dir ownership"),
				String(FieldImpact, "old log file remains on disk"),
			)
			continue
		}
		removed++
		if logger != nil {
			logger.Debug("log pruned", String("path", path), String(FieldEventType, "log_pruned"))
		}
	}
	return removed
}
