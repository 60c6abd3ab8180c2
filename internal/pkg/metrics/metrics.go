package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Fetch attempt outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeRateLimited = "rate_limited"
	OutcomeTimeout     = "timeout"
	OutcomeError       = "error"
	OutcomeFatal       = "fatal"
)

var (
	FetchAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wallet_risk",
		Name:      "fetch_attempts_total",
		Help:      "Balance-data fetch attempts by outcome.",
	}, []string{"outcome"})

	FetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "wallet_risk",
		Name:      "fetch_request_duration_seconds",
		Help:      "Duration of single balance-data requests.",
		Buckets:   prometheus.DefBuckets,
	})

	WalletsProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wallet_risk",
		Name:      "wallets_processed_total",
		Help:      "Wallets processed by result status.",
	}, []string{"status"})

	Scores = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "wallet_risk",
		Name:      "score",
		Help:      "Distribution of risk scores of successfully scored wallets.",
		Buckets:   prometheus.LinearBuckets(100, 100, 10),
	})

	registerOnce sync.Once
)

// MustRegisterMetrics registers all collectors with the default registry. Safe to call twice.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(FetchAttempts, FetchDuration, WalletsProcessed, Scores)
	})
}
