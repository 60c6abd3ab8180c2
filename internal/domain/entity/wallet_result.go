package entity

// Score bounds.
const (
	MinRiskScore = 0
	MaxRiskScore = 1000
)

// ResultStatus tells whether a wallet was scored from fetched data.
type ResultStatus string

const (
	ResultStatusScored ResultStatus = "scored"
	ResultStatusFailed ResultStatus = "failed"
)

// WalletResult is produced exactly once per input wallet. Failed wallets carry score 0.
type WalletResult struct {
	Wallet   string            `json:"wallet"`
	Score    int               `json:"score"`
	RiskBand string            `json:"riskBand,omitempty"`
	Status   ResultStatus      `json:"status"`
	Features PortfolioFeatures `json:"features"`
}

// FailedWalletResult is the placeholder result emitted for a wallet that could not be scored.
func FailedWalletResult(wallet string) WalletResult {
	return WalletResult{Wallet: wallet, Score: 0, Status: ResultStatusFailed}
}
