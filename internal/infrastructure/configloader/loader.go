package configloader

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvAPIKey overrides covalent.apiKey when set (also read from .env).
const EnvAPIKey = "COVALENT_API_KEY"

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
	Dir   string `yaml:"dir"` // per-run log file directory, used when file is empty
}

// CovalentConfig holds balance-data API specific configurations.
type CovalentConfig struct {
	BaseURL              string  `yaml:"baseURL"`
	APIKey               string  `yaml:"apiKey"`
	ChainID              uint64  `yaml:"chainID"`
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	UserAgent            string  `yaml:"userAgent"`
	RateLimitPerSecond   float64 `yaml:"rateLimitPerSecond"` // 0 disables the client-side limiter
	BurstLimit           int     `yaml:"burstLimit"`
}

// FetcherConfig holds retry settings for one wallet fetch.
type FetcherConfig struct {
	MaxAttempts          int `yaml:"maxAttempts"`
	BackoffCapSeconds    int `yaml:"backoffCapSeconds"`
	RateLimitWaitSeconds int `yaml:"rateLimitWaitSeconds"` // multiplied by the attempt number
}

// BatchConfig holds batch runner settings. Nil delays take defaults; zero disables them.
type BatchConfig struct {
	PolitenessDelayMillis  *int `yaml:"politenessDelayMillis"`
	PolitenessJitterMillis *int `yaml:"politenessJitterMillis"`
	MaxConcurrentWallets   int  `yaml:"maxConcurrentWallets"`
}

// FilesConfig holds input and output artifact paths.
type FilesConfig struct {
	Input          string `yaml:"input"`
	Output         string `yaml:"output"`
	Final          string `yaml:"final"`
	BackupExisting *bool  `yaml:"backupExisting"`
}

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port           string `yaml:"port"`
	ReadTimeout    int    `yaml:"readTimeout"`
	WriteTimeout   int    `yaml:"writeTimeout"`
	IdleTimeout    int    `yaml:"idleTimeout"`
	SwaggerEnabled bool   `yaml:"swaggerEnabled"`
	MaxBatchSize   int    `yaml:"maxBatchSize"`
}

// CacheConfig holds configuration for the on-demand score cache.
type CacheConfig struct {
	ScoreTTLMinutes        int `yaml:"scoreTTLMinutes"`
	CleanupIntervalMinutes int `yaml:"cleanupIntervalMinutes"`
}

// Config is the top-level configuration structure.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Covalent CovalentConfig `yaml:"covalent"`
	Fetcher  FetcherConfig  `yaml:"fetcher"`
	Batch    BatchConfig    `yaml:"batch"`
	Files    FilesConfig    `yaml:"files"`
	Server   ServerConfig   `yaml:"server"`
	Cache    CacheConfig    `yaml:"cache"`
}

// Load reads the YAML configuration file from the given path, applies defaults and
// environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse is Load without the file read.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}

	cfg.applyDefaults()

	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		cfg.Covalent.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Covalent.BaseURL == "" {
		cfg.Covalent.BaseURL = "https://api.covalenthq.com/v1"
	}
	if cfg.Covalent.ChainID == 0 {
		cfg.Covalent.ChainID = 1 // Ethereum mainnet
	}
	if cfg.Covalent.RequestTimeoutMillis == 0 {
		cfg.Covalent.RequestTimeoutMillis = 15000
	}
	if cfg.Covalent.UserAgent == "" {
		cfg.Covalent.UserAgent = "WalletRiskScorer/1.0"
	}
	if cfg.Covalent.RateLimitPerSecond > 0 && cfg.Covalent.BurstLimit <= 0 {
		cfg.Covalent.BurstLimit = 1
	}

	if cfg.Fetcher.MaxAttempts == 0 {
		cfg.Fetcher.MaxAttempts = 3
	}
	if cfg.Fetcher.BackoffCapSeconds == 0 {
		cfg.Fetcher.BackoffCapSeconds = 30
	}
	if cfg.Fetcher.RateLimitWaitSeconds == 0 {
		cfg.Fetcher.RateLimitWaitSeconds = 10
	}

	if cfg.Batch.PolitenessDelayMillis == nil {
		cfg.Batch.PolitenessDelayMillis = intPtr(200)
	}
	if cfg.Batch.PolitenessJitterMillis == nil {
		cfg.Batch.PolitenessJitterMillis = intPtr(300)
	}
	if cfg.Batch.MaxConcurrentWallets <= 0 {
		cfg.Batch.MaxConcurrentWallets = 1 // sequential
	}

	if cfg.Files.Input == "" {
		cfg.Files.Input = "data/wallets.csv"
	}
	if cfg.Files.Output == "" {
		cfg.Files.Output = "output/wallet_risk_scores.csv"
	}
	if cfg.Files.Final == "" {
		cfg.Files.Final = "output/final_results.csv"
	}
	if cfg.Files.BackupExisting == nil {
		backup := true
		cfg.Files.BackupExisting = &backup
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.ReadTimeout <= 0 {
		cfg.Server.ReadTimeout = 10
	}
	if cfg.Server.WriteTimeout <= 0 {
		cfg.Server.WriteTimeout = 300 // batch requests run the full retry schedule
	}
	if cfg.Server.IdleTimeout <= 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Server.MaxBatchSize <= 0 {
		cfg.Server.MaxBatchSize = 100
	}

	if cfg.Cache.ScoreTTLMinutes == 0 {
		cfg.Cache.ScoreTTLMinutes = 30
	}
	if cfg.Cache.CleanupIntervalMinutes == 0 {
		cfg.Cache.CleanupIntervalMinutes = 10
	}
}

// Validate checks values defaults cannot repair.
func (cfg *Config) Validate() error {
	var errs []error
	if cfg.Fetcher.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("fetcher.maxAttempts must be >= 1, got %d", cfg.Fetcher.MaxAttempts))
	}
	if cfg.Fetcher.BackoffCapSeconds < 0 {
		errs = append(errs, fmt.Errorf("fetcher.backoffCapSeconds must be >= 0, got %d", cfg.Fetcher.BackoffCapSeconds))
	}
	if cfg.Fetcher.RateLimitWaitSeconds < 0 {
		errs = append(errs, fmt.Errorf("fetcher.rateLimitWaitSeconds must be >= 0, got %d", cfg.Fetcher.RateLimitWaitSeconds))
	}
	if *cfg.Batch.PolitenessDelayMillis < 0 || *cfg.Batch.PolitenessJitterMillis < 0 {
		errs = append(errs, errors.New("batch politeness delay and jitter must be >= 0"))
	}
	if cfg.Covalent.RequestTimeoutMillis < 0 {
		errs = append(errs, fmt.Errorf("covalent.requestTimeoutMillis must be >= 0, got %d", cfg.Covalent.RequestTimeoutMillis))
	}
	if cfg.Covalent.RateLimitPerSecond < 0 {
		errs = append(errs, fmt.Errorf("covalent.rateLimitPerSecond must be >= 0, got %v", cfg.Covalent.RateLimitPerSecond))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// RequestTimeout is the per-request HTTP timeout.
func (cfg *Config) RequestTimeout() time.Duration {
	return time.Duration(cfg.Covalent.RequestTimeoutMillis) * time.Millisecond
}

// PolitenessDelay returns the base delay and jitter range between wallets.
func (cfg *Config) PolitenessDelay() (base, jitter time.Duration) {
	return time.Duration(*cfg.Batch.PolitenessDelayMillis) * time.Millisecond,
		time.Duration(*cfg.Batch.PolitenessJitterMillis) * time.Millisecond
}

func intPtr(v int) *int {
	return &v
}
