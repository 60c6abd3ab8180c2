package utils

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSleepContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := SleepContext(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSleepContextZero(t *testing.T) {
	assert.NoError(t, SleepContext(context.Background(), 0))
	assert.NoError(t, SleepContext(context.Background(), time.Millisecond))
}

func TestSuffixedPath(t *testing.T) {
	at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.Equal(t, "out/scores.csv.backup_20250304_050607", SuffixedPath("out/scores.csv", "backup", at))
}

func TestEnsureParentDirAndFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "file.csv")
	require.NoError(t, EnsureParentDir(path))
	assert.False(t, FileExists(path))

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	assert.True(t, FileExists(path))
	assert.False(t, FileExists(filepath.Dir(path)))
	assert.NoError(t, EnsureParentDir("local.csv"))
}

func TestPreview(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	head, rest := Preview(items, 5)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, head)
	assert.Equal(t, 2, rest)

	head, rest = Preview(items[:3], 5)
	assert.Equal(t, []int{1, 2, 3}, head)
	assert.Zero(t, rest)
}
