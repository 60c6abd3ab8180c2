package entity

// PortfolioFeatures are the portfolio-level metrics derived from a balance payload.
// LargestHoldingUSD never exceeds TotalUSD, and PortfolioConcentration is
// LargestHoldingUSD/TotalUSD when TotalUSD > 0, otherwise 0.
type PortfolioFeatures struct {
	TotalUSD               float64 `json:"totalUSD"`
	NumAssets              int     `json:"numAssets"`
	LargestHoldingUSD      float64 `json:"largestHoldingUSD"`
	PortfolioConcentration float64 `json:"portfolioConcentration"`
}

// IsEmpty reports whether no valued holding was found.
func (f PortfolioFeatures) IsEmpty() bool {
	return f.TotalUSD == 0
}
