package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	z, s := ParseLevel("debug")
	assert.Equal(t, zapcore.DebugLevel, z)
	assert.Equal(t, slog.LevelDebug, s)

	z, s = ParseLevel(" Warning ")
	assert.Equal(t, zapcore.WarnLevel, z)
	assert.Equal(t, slog.LevelWarn, s)

	z, s = ParseLevel("nonsense")
	assert.Equal(t, zapcore.InfoLevel, z)
	assert.Equal(t, slog.LevelInfo, s)
}

func TestAdapterWith(t *testing.T) {
	var buf bytes.Buffer
	l := NewAdapter(slog.New(slog.NewJSONHandler(&buf, nil)))

	l.With("wallet", "0xabc").Info("scored", "score", 475)

	out := buf.String()
	assert.Contains(t, out, `"wallet":"0xabc"`)
	assert.Contains(t, out, `"score":475`)
	assert.Contains(t, out, `"msg":"scored"`)
}

func TestSetupWritesToFile(t *testing.T) {
	prev := slog.Default()
	prevGlobal := globalLogger
	t.Cleanup(func() {
		slog.SetDefault(prev)
		globalLogger = prevGlobal
	})

	path := filepath.Join(t.TempDir(), "logs", "run.log")
	zl, err := Setup(Options{Level: "info", File: path})
	require.NoError(t, err)

	Info("file sink check", "n", 1)
	Debug("filtered out")
	_ = zl.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "file sink check")
	assert.NotContains(t, string(data), "filtered out")
}
