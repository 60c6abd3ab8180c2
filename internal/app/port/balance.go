package port

import (
	"context"
	"time"

	"wallet_risk_scorer/internal/domain/entity"
)

// BalanceClient performs a single balance-data request for one wallet.
// Failures are returned as *entity.FetchError.
type BalanceClient interface {
	GetBalances(ctx context.Context, chainID uint64, walletAddress string) (*entity.BalancePayload, error)
}

// BalanceFetcher fetches a usable payload for one wallet, retrying transient failures.
// It returns an error wrapping entity.ErrNoData when every attempt failed.
type BalanceFetcher interface {
	Fetch(ctx context.Context, walletAddress string) (*entity.BalancePayload, error)
}

// FeatureExtractor turns a payload into portfolio features. It never fails.
type FeatureExtractor interface {
	Extract(payload *entity.BalancePayload) entity.PortfolioFeatures
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error
