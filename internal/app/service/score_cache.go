package service

import (
	"context"
	"time"

	"wallet_risk_scorer/internal/app/port"
	"wallet_risk_scorer/internal/domain/entity"

	"github.com/patrickmn/go-cache"
)

// CachedRiskScoringService wraps a port.RiskScoringService with a TTL cache of scored wallets.
// Failed results are never cached.
type CachedRiskScoringService struct {
	inner  port.RiskScoringService
	scores *cache.Cache // wallet address -> entity.WalletResult
	logger port.Logger
}

// NewCachedRiskScoringService creates a new instance of CachedRiskScoringService.
func NewCachedRiskScoringService(inner port.RiskScoringService, ttl, cleanupInterval time.Duration, l port.Logger) *CachedRiskScoringService {
	return &CachedRiskScoringService{
		inner:  inner,
		scores: cache.New(ttl, cleanupInterval),
		logger: l,
	}
}

// ScoreWallet returns a cached result when one is still fresh.
func (s *CachedRiskScoringService) ScoreWallet(ctx context.Context, wallet entity.Wallet) (entity.WalletResult, error) {
	if cached, found := s.scores.Get(wallet.Address); found {
		if result, ok := cached.(entity.WalletResult); ok {
			s.logger.Debug("Score cache hit", "wallet", wallet.Address)
			return result, nil
		}
	}

	result, err := s.inner.ScoreWallet(ctx, wallet)
	if err != nil {
		return result, err
	}
	s.scores.Set(wallet.Address, result, cache.DefaultExpiration)
	return result, nil
}

// Run always fetches fresh data and refreshes the cache with the scored wallets.
func (s *CachedRiskScoringService) Run(ctx context.Context, wallets []entity.Wallet) (*entity.BatchReport, error) {
	report, err := s.inner.Run(ctx, wallets)
	if report != nil {
		for _, r := range report.Results {
			if r.Status == entity.ResultStatusScored {
				s.scores.Set(r.Wallet, r, cache.DefaultExpiration)
			}
		}
	}
	return report, err
}

// Cached reports how many wallet scores are currently held.
func (s *CachedRiskScoringService) Cached() int {
	return s.scores.ItemCount()
}
