package port

import (
	"context"

	"wallet_risk_scorer/internal/domain/entity"
)

// RiskScoringService scores batches of wallets.
type RiskScoringService interface {
	// Run scores wallets in input order. On cancellation it returns the partial report
	// together with the context error.
	Run(ctx context.Context, wallets []entity.Wallet) (*entity.BatchReport, error)

	// ScoreWallet scores a single wallet. The error wraps entity.ErrNoData when the
	// balance data could not be fetched.
	ScoreWallet(ctx context.Context, wallet entity.Wallet) (entity.WalletResult, error)
}

// ResultWriter persists the artifacts of a batch run.
type ResultWriter interface {
	// BackupExisting moves an existing full results file aside and returns its new path, or "".
	BackupExisting() (string, error)
	WriteResults(report *entity.BatchReport) error
	WritePartial(report *entity.BatchReport) (string, error)
}
