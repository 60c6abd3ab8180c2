package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wallet_risk_scorer/internal/app/service"
	"wallet_risk_scorer/internal/client"
	"wallet_risk_scorer/internal/infrastructure/configloader"
	networkdefinition "wallet_risk_scorer/internal/infrastructure/network/definition"
	"wallet_risk_scorer/internal/infrastructure/restapi"
	"wallet_risk_scorer/internal/pkg/logger"
	"wallet_risk_scorer/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	defaultConfigPath = "config/config.yml"
	swaggerSpecPath   = "./docs/swagger.yaml"
	shutdownTimeout   = 5 * time.Second
)

func main() {
	_ = godotenv.Load()

	// Загрузка конфигурации
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}
	cfg, err := configloader.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: %v\n", err)
		os.Exit(1)
	}

	// Инициализация zap и slog-zap адаптера на основе конфига
	zapLogger, err := logger.Setup(logger.Options{
		Level: cfg.Logging.Level,
		File:  cfg.Logging.File,
		Dir:   cfg.Logging.Dir,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zapLogger.Sync() }()

	appLogger := logger.NewSlogAdapter()
	metrics.MustRegisterMetrics()

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Covalent.APIKey == "" {
		logger.Warn("No API key configured, requests will most likely be rejected", "env", configloader.EnvAPIKey)
	}

	chain := networkdefinition.NewChainProvider(appLogger, cfg.Covalent.ChainID).Active()

	// Клиент, сервисы, кэш оценок
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

	scoringService := service.NewCachedRiskScoringService(runner,
		time.Duration(cfg.Cache.ScoreTTLMinutes)*time.Minute,
		time.Duration(cfg.Cache.CleanupIntervalMinutes)*time.Minute,
		appLogger)

	// HTTP сервер
	scoreHandler := restapi.NewScoreHandler(scoringService, chain, cfg.Server.MaxBatchSize, appLogger)
	router := restapi.SetupRouter(scoreHandler, zapLogger, restapi.RouterOptions{
		SwaggerEnabled:  cfg.Server.SwaggerEnabled,
		SwaggerSpecPath: swaggerSpecPath,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info("Server starting", zap.String("addr", srv.Addr), zap.String("chain", chain.Identifier))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting")
}
