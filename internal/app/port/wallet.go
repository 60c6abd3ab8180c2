package port

import "wallet_risk_scorer/internal/domain/entity"

// WalletProvider defines the interface for fetching the wallets of a batch.
// Returned wallets are normalized, valid and unique, in source order.
type WalletProvider interface {
	GetWallets() ([]entity.Wallet, error)
}
