package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"wallet_risk_scorer/internal/app/port"
	"wallet_risk_scorer/internal/domain/entity"
	"wallet_risk_scorer/internal/pkg/metrics"
	"wallet_risk_scorer/internal/pkg/utils"
)

// FetcherOptions holds the retry schedule of one wallet fetch.
type FetcherOptions struct {
	ChainID       uint64
	MaxAttempts   int
	BackoffCap    time.Duration
	RateLimitWait time.Duration // multiplied by the 1-based attempt number
}

// BalanceFetcherImpl implements port.BalanceFetcher on top of a single-attempt client.
type BalanceFetcherImpl struct {
	client port.BalanceClient
	opts   FetcherOptions
	sleep  port.Sleeper
	logger port.Logger
}

// NewBalanceFetcher creates a new instance of BalanceFetcherImpl. A nil sleeper waits on the wall clock.
func NewBalanceFetcher(client port.BalanceClient, opts FetcherOptions, sleep port.Sleeper, l port.Logger) port.BalanceFetcher {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if sleep == nil {
		sleep = utils.SleepContext
	}
	return &BalanceFetcherImpl{
		client: client,
		opts:   opts,
		sleep:  sleep,
		logger: l,
	}
}

// Fetch returns the first usable payload for walletAddress. Each attempt index i is followed by
// either a rate-limit pause of RateLimitWait*(i+1) or, for other transient failures, a backoff of
// min(2^i seconds, BackoffCap) unless it was the last attempt.
func (f *BalanceFetcherImpl) Fetch(ctx context.Context, walletAddress string) (*entity.BalancePayload, error) {
	var lastErr error
	for attempt := 0; attempt < f.opts.MaxAttempts; attempt++ {
		payload, err := f.client.GetBalances(ctx, f.opts.ChainID, walletAddress)
		if err == nil {
			metrics.FetchAttempts.WithLabelValues(metrics.OutcomeSuccess).Inc()
			if attempt > 0 {
				f.logger.Info("Fetched balances after retry", "wallet", walletAddress, "attempt", attempt+1)
			}
			return payload, nil
		}
		lastErr = err

		switch entity.FetchErrorKindOf(err) {
		case entity.FetchFatal:
			metrics.FetchAttempts.WithLabelValues(metrics.OutcomeFatal).Inc()
			f.logger.Error("Fetch aborted", "wallet", walletAddress, "attempt", attempt+1, "error", err)
			return nil, fmt.Errorf("fetch balances for %s: %w", walletAddress, err)

		case entity.FetchRateLimited:
			metrics.FetchAttempts.WithLabelValues(metrics.OutcomeRateLimited).Inc()
			wait := f.opts.RateLimitWait * time.Duration(attempt+1)
			f.logger.Warn("Rate limited, pausing", "wallet", walletAddress, "attempt", attempt+1, "wait", wait)
			if err := f.sleep(ctx, wait); err != nil {
				return nil, fmt.Errorf("fetch balances for %s: %w", walletAddress, err)
			}
			continue

		default:
			outcome := metrics.OutcomeError
			if isTimeout(err) {
				outcome = metrics.OutcomeTimeout
			}
			metrics.FetchAttempts.WithLabelValues(outcome).Inc()
			f.logger.Warn("Fetch attempt failed",
				"wallet", walletAddress,
				"attempt", attempt+1,
				"max_attempts", f.opts.MaxAttempts,
				"error", err)
		}

		if attempt < f.opts.MaxAttempts-1 {
			if err := f.sleep(ctx, f.backoff(attempt)); err != nil {
				return nil, fmt.Errorf("fetch balances for %s: %w", walletAddress, err)
			}
		}
	}

	f.logger.Error("All fetch attempts failed", "wallet", walletAddress, "attempts", f.opts.MaxAttempts, "error", lastErr)
	return nil, fmt.Errorf("%w for %s after %d attempts: %v", entity.ErrNoData, walletAddress, f.opts.MaxAttempts, lastErr)
}

func (f *BalanceFetcherImpl) backoff(attempt int) time.Duration {
	seconds := math.Pow(2, float64(attempt))
	if f.opts.BackoffCap > 0 && seconds > f.opts.BackoffCap.Seconds() {
		return f.opts.BackoffCap
	}
	return time.Duration(seconds * float64(time.Second))
}

func isTimeout(err error) bool {
	var fe *entity.FetchError
	return errors.As(err, &fe) && fe.Timeout
}
