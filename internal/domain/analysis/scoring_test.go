package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPairScoreSafeBeatsWarning(t *testing.T) {
	base := PairInput{AvgLitterSize: 6, LitterCount: 3, BuckOffspring: 10}

	safe := base
	safe.Band = BandSafe
	warning := base
	warning.Band = BandWarning

	assert.Greater(t, PairScore(safe), PairScore(warning))
	assert.InDelta(t, safePairBonus-warningPairBonus, PairScore(safe)-PairScore(warning), 0.001)
}

func TestPairScoreComponents(t *testing.T) {
	gain := 30.0
	in := PairInput{
		Band:           BandSafe,
		AvgLitterSize:  6,
		LitterCount:    3,
		DailyGainGrams: &gain,
		BuckOffspring:  10,
	}

	// 5 + 2*6 + 1*3 + 30/10 + 0.3*10
	assert.InDelta(t, 26.0, PairScore(in), 0.001)
}

func TestPairScoreNoGrowthData(t *testing.T) {
	in := PairInput{Band: BandWarning, AvgLitterSize: 4, LitterCount: 2}
	// 1 + 2*4 + 1*2
	assert.InDelta(t, 11.0, PairScore(in), 0.001)
}
