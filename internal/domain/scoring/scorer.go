package scoring

import (
	"math"

	"wallet_risk_scorer/internal/domain/entity"
)

// Breakdown holds the intermediate values of one score computation.
type Breakdown struct {
	SizeScore          float64 `json:"sizeScore"`
	DiversityScore     float64 `json:"diversityScore"`
	ConcentrationScore float64 `json:"concentrationScore"`
	Weighted           float64 `json:"weighted"`
	Score              int     `json:"score"`
}

// Score returns the risk score of a portfolio in [0, 1000]; higher is riskier.
func Score(features entity.PortfolioFeatures) int {
	return DefaultPolicy.Explain(features).Score
}

// Explain computes the score together with its sub-scores.
func (p Policy) Explain(features entity.PortfolioFeatures) Breakdown {
	b := Breakdown{
		SizeScore:          p.normalizeSize(features.TotalUSD),
		DiversityScore:     p.normalizeDiversification(features.NumAssets),
		ConcentrationScore: p.normalizeConcentration(features.PortfolioConcentration),
	}
	// conversions keep each product rounded on its own, no fused multiply-add
	b.Weighted = float64(b.SizeScore*p.SizeWeight) +
		float64(b.DiversityScore*p.DiversityWeight) +
		float64(b.ConcentrationScore*p.ConcentrationWeight)

	// halves go to the even neighbour: 862.5 scores 862
	score := int(math.RoundToEven((1 - b.Weighted) * entity.MaxRiskScore))
	if features.IsEmpty() {
		score = p.EmptyPortfolioScore
	}
	b.Score = clampScore(score)
	return b
}

func clampScore(score int) int {
	if score < entity.MinRiskScore {
		return entity.MinRiskScore
	}
	if score > entity.MaxRiskScore {
		return entity.MaxRiskScore
	}
	return score
}
