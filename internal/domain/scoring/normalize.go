package scoring

import "math"

// All normalizers map a raw metric to [0,1] where 0 is the riskiest and 1 the safest.

// NormalizeSize scores total portfolio value on a log10 scale between $100 and $1M.
func NormalizeSize(totalUSD float64) float64 {
	return DefaultPolicy.normalizeSize(totalUSD)
}

// NormalizeDiversification scores the number of valued assets linearly between 1 and 15.
func NormalizeDiversification(numAssets int) float64 {
	return DefaultPolicy.normalizeDiversification(numAssets)
}

// NormalizeConcentration scores the share held in the largest asset, inverted.
func NormalizeConcentration(concentration float64) float64 {
	return DefaultPolicy.normalizeConcentration(concentration)
}

func (p Policy) normalizeSize(totalUSD float64) float64 {
	if math.IsNaN(totalUSD) || totalUSD <= 0 {
		return 0
	}
	// exact at the thresholds, whatever Log10 rounds to
	if totalUSD <= p.MinPortfolioUSD {
		return 0
	}
	if totalUSD >= p.MaxPortfolioUSD {
		return 1
	}
	logValue := math.Log10(math.Max(totalUSD, 1))
	logMin := math.Log10(p.MinPortfolioUSD)
	logMax := math.Log10(p.MaxPortfolioUSD)
	return clamp01((logValue - logMin) / (logMax - logMin))
}

func (p Policy) normalizeDiversification(numAssets int) float64 {
	switch {
	case numAssets <= p.MinAssets:
		return 0
	case numAssets >= p.MaxAssets:
		return 1
	default:
		return float64(numAssets-p.MinAssets) / float64(p.MaxAssets-p.MinAssets)
	}
}

func (p Policy) normalizeConcentration(concentration float64) float64 {
	switch {
	case math.IsNaN(concentration):
		return 0
	case concentration >= p.MaxConcentration:
		return 0
	case concentration <= p.MinConcentration:
		return 1
	default:
		return 1 - concentration
	}
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
