package configloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	t.Setenv(EnvAPIKey, "")

	cfg, err := Parse([]byte("logging:\n  level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "https://api.covalenthq.com/v1", cfg.Covalent.BaseURL)
	assert.Equal(t, uint64(1), cfg.Covalent.ChainID)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout())
	assert.Equal(t, "WalletRiskScorer/1.0", cfg.Covalent.UserAgent)
	assert.Equal(t, 3, cfg.Fetcher.MaxAttempts)
	assert.Equal(t, 30, cfg.Fetcher.BackoffCapSeconds)
	assert.Equal(t, 10, cfg.Fetcher.RateLimitWaitSeconds)
	assert.Equal(t, 1, cfg.Batch.MaxConcurrentWallets)
	assert.True(t, *cfg.Files.BackupExisting)

	base, jitter := cfg.PolitenessDelay()
	assert.Equal(t, 200*time.Millisecond, base)
	assert.Equal(t, 300*time.Millisecond, jitter)
}

func TestParseKeepsExplicitZeroDelay(t *testing.T) {
	cfg, err := Parse([]byte(`
batch:
  politenessDelayMillis: 0
  politenessJitterMillis: 0
  maxConcurrentWallets: 4
files:
  backupExisting: false
`))
	require.NoError(t, err)

	base, jitter := cfg.PolitenessDelay()
	assert.Zero(t, base)
	assert.Zero(t, jitter)
	assert.Equal(t, 4, cfg.Batch.MaxConcurrentWallets)
	assert.False(t, *cfg.Files.BackupExisting)
}

func TestParseEnvOverridesAPIKey(t *testing.T) {
	t.Setenv(EnvAPIKey, "env-key")

	cfg, err := Parse([]byte("covalent:\n  apiKey: file-key\n  chainID: 137\n"))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Covalent.APIKey)
	assert.Equal(t, uint64(137), cfg.Covalent.ChainID)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	_, err := Parse([]byte("fetcher:\n  maxAttempts: -2\nbatch:\n  politenessDelayMillis: -5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetcher.maxAttempts")
	assert.Contains(t, err.Error(), "politeness")

	_, err = Parse([]byte("covalent: [not, a, map]"))
	require.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("covalent:\n  apiKey: abc\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.Covalent.APIKey)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}
