package scoring

// Policy is the fixed table of weights and thresholds of the risk model.
// The values have no derivation beyond the model itself and are not tuned at runtime.
type Policy struct {
	SizeWeight          float64
	DiversityWeight     float64
	ConcentrationWeight float64

	MinPortfolioUSD float64 // at or below: size score 0
	MaxPortfolioUSD float64 // at or above: size score 1

	MinAssets int // at or below: diversification score 0
	MaxAssets int // at or above: diversification score 1

	MinConcentration float64 // at or below: concentration score 1
	MaxConcentration float64 // at or above: concentration score 0

	EmptyPortfolioScore int
}

// DefaultPolicy is the 35/35/30 model.
var DefaultPolicy = Policy{
	SizeWeight:          0.35,
	DiversityWeight:     0.35,
	ConcentrationWeight: 0.30,

	MinPortfolioUSD: 100,
	MaxPortfolioUSD: 1_000_000,

	MinAssets: 1,
	MaxAssets: 15,

	MinConcentration: 0.1,
	MaxConcentration: 1,

	EmptyPortfolioScore: 800,
}
