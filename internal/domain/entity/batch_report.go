package entity

import "time"

// BatchReport is the outcome of one batch run. Results are in input order.
type BatchReport struct {
	Results   []WalletResult  `json:"results"`
	Failures  []FailureRecord `json:"failures"`
	StartedAt time.Time       `json:"startedAt"`
	Duration  time.Duration   `json:"duration"`
}

// Succeeded is the number of wallets scored without a failure record.
func (r *BatchReport) Succeeded() int {
	return len(r.Results) - len(r.Failures)
}

// SuccessRate is Succeeded as a percentage of processed wallets.
func (r *BatchReport) SuccessRate() float64 {
	if len(r.Results) == 0 {
		return 0
	}
	return float64(r.Succeeded()) / float64(len(r.Results)) * 100
}
