package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"wallet_risk_scorer/internal/app/port"
	"wallet_risk_scorer/internal/domain/entity"
	"wallet_risk_scorer/internal/domain/scoring"
	"wallet_risk_scorer/internal/pkg/metrics"
	"wallet_risk_scorer/internal/pkg/utils"

	"golang.org/x/sync/errgroup"
)

// RiskServiceOptions holds batch runner settings.
type RiskServiceOptions struct {
	PolitenessDelay      time.Duration
	PolitenessJitter     time.Duration
	MaxConcurrentWallets int
}

// RiskScoringServiceImpl implements port.RiskScoringService.
type RiskScoringServiceImpl struct {
	fetcher   port.BalanceFetcher
	extractor port.FeatureExtractor
	policy    scoring.Policy
	opts      RiskServiceOptions
	sleep     port.Sleeper
	logger    port.Logger
}

// NewRiskScoringService creates a new instance of RiskScoringServiceImpl.
func NewRiskScoringService(
	fetcher port.BalanceFetcher,
	extractor port.FeatureExtractor,
	opts RiskServiceOptions,
	sleep port.Sleeper,
	l port.Logger,
) port.RiskScoringService {
	if opts.MaxConcurrentWallets <= 0 {
		opts.MaxConcurrentWallets = 1
	}
	if sleep == nil {
		sleep = utils.SleepContext
	}
	return &RiskScoringServiceImpl{
		fetcher:   fetcher,
		extractor: extractor,
		policy:    scoring.DefaultPolicy,
		opts:      opts,
		sleep:     sleep,
		logger:    l,
	}
}

type walletOutcome struct {
	result  entity.WalletResult
	failure *entity.FailureRecord
	done    bool
}

// Run scores every wallet and returns one result per wallet in input order. A wallet that
// cannot be fetched or scored gets score 0 and a failure record; it never stops the batch.
func (s *RiskScoringServiceImpl) Run(ctx context.Context, wallets []entity.Wallet) (*entity.BatchReport, error) {
	report := &entity.BatchReport{
		Results:   make([]entity.WalletResult, 0, len(wallets)),
		Failures:  make([]entity.FailureRecord, 0),
		StartedAt: time.Now(),
	}
	s.logger.Info("Starting risk scoring batch", "wallets", len(wallets), "workers", s.opts.MaxConcurrentWallets)

	outcomes := make([]walletOutcome, len(wallets))

	var eg errgroup.Group
	eg.SetLimit(s.opts.MaxConcurrentWallets)

	for i, wallet := range wallets {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if i > 0 {
				if err := s.sleep(ctx, s.politenessDelay()); err != nil {
					return nil
				}
			}
			outcomes[i] = s.processWallet(ctx, i, len(wallets), wallet)
			return nil
		})
	}
	_ = eg.Wait()

	for _, o := range outcomes {
		if !o.done {
			continue
		}
		report.Results = append(report.Results, o.result)
		if o.failure != nil {
			report.Failures = append(report.Failures, *o.failure)
		}
	}
	report.Duration = time.Since(report.StartedAt)

	if err := ctx.Err(); err != nil {
		s.logger.Warn("Risk scoring batch interrupted",
			"processed", len(report.Results),
			"total", len(wallets),
			"error", err)
		return report, err
	}

	s.logger.Info("Risk scoring batch complete",
		"processed", len(report.Results),
		"succeeded", report.Succeeded(),
		"failed", len(report.Failures),
		"duration", report.Duration)
	return report, nil
}

// ScoreWallet fetches, extracts and scores one wallet.
func (s *RiskScoringServiceImpl) ScoreWallet(ctx context.Context, wallet entity.Wallet) (entity.WalletResult, error) {
	payload, err := s.fetcher.Fetch(ctx, wallet.Address)
	if err != nil {
		return entity.FailedWalletResult(wallet.Address), err
	}

	features := s.extractor.Extract(payload)
	breakdown := s.policy.Explain(features)

	s.logger.Debug("Wallet scored",
		"wallet", wallet.Address,
		"total_usd", features.TotalUSD,
		"num_assets", features.NumAssets,
		"concentration", features.PortfolioConcentration,
		"size_score", breakdown.SizeScore,
		"diversity_score", breakdown.DiversityScore,
		"concentration_score", breakdown.ConcentrationScore,
		"score", breakdown.Score)

	return entity.WalletResult{
		Wallet:   wallet.Address,
		Score:    breakdown.Score,
		RiskBand: scoring.Band(breakdown.Score),
		Status:   entity.ResultStatusScored,
		Features: features,
	}, nil
}

func (s *RiskScoringServiceImpl) processWallet(ctx context.Context, index, total int, wallet entity.Wallet) (outcome walletOutcome) {
	log := s.logger.With("wallet", wallet.Address, "position", fmt.Sprintf("%d/%d", index+1, total))

	defer func() {
		if r := recover(); r != nil {
			log.Error("Wallet processing panicked", "panic", r)
			outcome = failedOutcome(wallet.Address, fmt.Sprint(r))
		}
		if outcome.done {
			metrics.WalletsProcessed.WithLabelValues(string(outcome.result.Status)).Inc()
		}
	}()

	result, err := s.ScoreWallet(ctx, wallet)
	switch {
	case err == nil:
		metrics.Scores.Observe(float64(result.Score))
		log.Info("Wallet scored", "score", result.Score, "band", result.RiskBand)
		return walletOutcome{result: result, done: true}

	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		// interrupted mid-fetch: not processed
		return walletOutcome{}

	default:
		log.Warn("Failed to fetch wallet data", "error", err)
		return failedOutcome(wallet.Address, entity.FailureReasonFetch)
	}
}

func failedOutcome(wallet, reason string) walletOutcome {
	return walletOutcome{
		result:  entity.FailedWalletResult(wallet),
		failure: &entity.FailureRecord{Wallet: wallet, Reason: reason},
		done:    true,
	}
}

func (s *RiskScoringServiceImpl) politenessDelay() time.Duration {
	if s.opts.PolitenessJitter <= 0 {
		return s.opts.PolitenessDelay
	}
	return s.opts.PolitenessDelay + rand.N(s.opts.PolitenessJitter)
}
