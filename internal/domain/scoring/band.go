package scoring

// Risk bands over the 0-1000 score.
const (
	BandVeryLow  = "very_low"
	BandLow      = "low"
	BandMedium   = "medium"
	BandHigh     = "high"
	BandVeryHigh = "very_high"
)

// Band maps a score to its risk band: 0-200, 201-400, 401-600, 601-800, 801-1000.
func Band(score int) string {
	switch {
	case score <= 200:
		return BandVeryLow
	case score <= 400:
		return BandLow
	case score <= 600:
		return BandMedium
	case score <= 800:
		return BandHigh
	default:
		return BandVeryHigh
	}
}
