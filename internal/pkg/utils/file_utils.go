package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TimestampLayout formats timestamps embedded in artifact names.
const TimestampLayout = "20060102_150405"

// SuffixedPath returns path + "." + kind + "_" + timestamp, e.g. scores.csv.backup_20250101_120000.
func SuffixedPath(path, kind string, at time.Time) string {
	return fmt.Sprintf("%s.%s_%s", path, kind, at.Format(TimestampLayout))
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
