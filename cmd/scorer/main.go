package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wallet_risk_scorer/internal/app/port"
	"wallet_risk_scorer/internal/app/service"
	"wallet_risk_scorer/internal/client"
	"wallet_risk_scorer/internal/domain/entity"
	"wallet_risk_scorer/internal/infrastructure/configloader"
	networkdefinition "wallet_risk_scorer/internal/infrastructure/network/definition"
	"wallet_risk_scorer/internal/infrastructure/resultwriter"
	"wallet_risk_scorer/internal/infrastructure/walletloader"
	"wallet_risk_scorer/internal/pkg/logger"
	"wallet_risk_scorer/internal/pkg/utils"

	"github.com/joho/godotenv"
)

const (
	defaultConfigPath  = "config/config.yml"
	failurePreviewSize = 5
	exitInterrupted    = 130
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "WARNING: failed to load .env: %v\n", err)
	}

	// Загрузка конфигурации
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}
	cfg, err := configloader.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: %v\n", err)
		return 1
	}

	zapLogger, err := logger.Setup(logger.Options{
		Level: cfg.Logging.Level,
		File:  cfg.Logging.File,
		Dir:   cfg.Logging.Dir,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() { _ = zapLogger.Sync() }()

	appLogger := logger.NewSlogAdapter()
	logger.Info("Wallet risk scorer starting", "config", configPath)

	if cfg.Covalent.APIKey == "" {
		logger.Warn("No API key configured, requests will most likely be rejected", "env", configloader.EnvAPIKey)
	}

	chain := networkdefinition.NewChainProvider(appLogger, cfg.Covalent.ChainID).Active()

	wallets, err := walletloader.NewWalletCSVLoader(cfg.Files.Input, appLogger).GetWallets()
	if err != nil {
		logger.Error("Failed to load wallets", "path", cfg.Files.Input, "error", err)
		return 1
	}

	balanceClient := client.NewCovalentClient(client.CovalentOptions{
		BaseURL:            cfg.Covalent.BaseURL,
		APIKey:             cfg.Covalent.APIKey,
		UserAgent:          cfg.Covalent.UserAgent,
		Timeout:            cfg.RequestTimeout(),
		RateLimitPerSecond: cfg.Covalent.RateLimitPerSecond,
		BurstLimit:         cfg.Covalent.BurstLimit,
	}, zapLogger)

	fetcher := service.NewBalanceFetcher(balanceClient, service.FetcherOptions{
		ChainID:       chain.ChainID,
		MaxAttempts:   cfg.Fetcher.MaxAttempts,
		BackoffCap:    time.Duration(cfg.Fetcher.BackoffCapSeconds) * time.Second,
		RateLimitWait: time.Duration(cfg.Fetcher.RateLimitWaitSeconds) * time.Second,
	}, nil, appLogger)

	base, jitter := cfg.PolitenessDelay()
	runner := service.NewRiskScoringService(fetcher, service.NewFeatureExtractor(appLogger), service.RiskServiceOptions{
		PolitenessDelay:      base,
		PolitenessJitter:     jitter,
		MaxConcurrentWallets: cfg.Batch.MaxConcurrentWallets,
	}, nil, appLogger)

	writer := resultwriter.NewCSVResultWriter(cfg.Files.Output, cfg.Files.Final, appLogger)
	if err := backupPreviousResults(writer, *cfg.Files.BackupExisting); err != nil {
		logger.Error("Refusing to overwrite previous results", "path", cfg.Files.Output, "error", err)
		return 1
	}

	// Ctrl+C прерывает обработку, уже готовые результаты сохраняются в .partial
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Processing wallets", "count", len(wallets), "chain", chain.Name, "chain_id", chain.ChainID)
	report, runErr := runner.Run(ctx, wallets)

	if runErr != nil {
		logger.Warn("Process interrupted, saving partial results", "processed", len(report.Results), "total", len(wallets))
		savePartial(writer, report)
		logSummary(appLogger, report, len(wallets))
		return exitInterrupted
	}

	if err := writer.WriteResults(report); err != nil {
		logger.Error("Failed to write results", "error", err)
		savePartial(writer, report)
		return 1
	}

	logSummary(appLogger, report, len(wallets))
	return 0
}

// backupPreviousResults moves the last run's results aside. A failed backup must stop the run,
// otherwise WriteResults would overwrite them.
func backupPreviousResults(writer port.ResultWriter, enabled bool) error {
	if !enabled {
		return nil
	}
	_, err := writer.BackupExisting()
	return err
}

func savePartial(writer port.ResultWriter, report *entity.BatchReport) {
	if len(report.Results) == 0 {
		return
	}
	path, err := writer.WritePartial(report)
	if err != nil {
		logger.Error("Failed to save partial results", "error", err)
		return
	}
	logger.Info("Partial results saved", "path", path)
}

func logSummary(log port.Logger, report *entity.BatchReport, total int) {
	processed := len(report.Results)
	var avg time.Duration
	if processed > 0 {
		avg = report.Duration / time.Duration(processed)
	}

	log.Info("Processing summary",
		"total_wallets", total,
		"processed", processed,
		"successful", report.Succeeded(),
		"failed", len(report.Failures),
		"success_rate_pct", fmt.Sprintf("%.1f", report.SuccessRate()),
		"duration", report.Duration.Round(time.Millisecond),
		"avg_per_wallet", avg.Round(time.Millisecond))

	if len(report.Failures) == 0 {
		return
	}
	shown, rest := utils.Preview(report.Failures, failurePreviewSize)
	for _, f := range shown {
		log.Warn("Failed wallet", "wallet", f.Wallet, "reason", f.Reason)
	}
	if rest > 0 {
		log.Warn(fmt.Sprintf("... and %d more", rest))
	}
}
