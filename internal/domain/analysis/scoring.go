package analysis

// Pair-score weights. The relatedness bonus dominates so unrelated pairs rank
// ahead of distantly related ones with similar production history.
const (
	safePairBonus    = 5.0
	warningPairBonus = 1.0

	avgLitterWeight     = 2.0
	litterCountWeight   = 1.0
	dailyGainDivisor    = 10.0
	buckOffspringWeight = 0.3
)

// PairInput carries the per-pair facts the score is derived from. Danger and
// Error bands are excluded by the caller before scoring.
type PairInput struct {
	Band           Band
	AvgLitterSize  float64
	LitterCount    int64
	DailyGainGrams *float64 // nil when the doe has no usable growth data
	BuckOffspring  int64
}

// PairScore computes the weighted suggestion score for a doe/buck pairing.
func PairScore(in PairInput) float64 {
	score := 0.0
	switch in.Band {
	case BandSafe:
		score += safePairBonus
	case BandWarning:
		score += warningPairBonus
	}

	score += avgLitterWeight * in.AvgLitterSize
	score += litterCountWeight * float64(in.LitterCount)
	if in.DailyGainGrams != nil {
		score += *in.DailyGainGrams / dailyGainDivisor
	}
	score += buckOffspringWeight * float64(in.BuckOffspring)
	return score
}
