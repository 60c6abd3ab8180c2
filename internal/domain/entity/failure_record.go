package entity

// FailureReasonFetch is recorded when the fetcher gives up on a wallet.
const FailureReasonFetch = "Failed to fetch data"

// FailureRecord explains why a wallet was not scored from real data.
type FailureRecord struct {
	Wallet string `json:"wallet"`
	Reason string `json:"reason"`
}
