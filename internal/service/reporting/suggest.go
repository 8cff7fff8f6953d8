package reporting

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mamadbah2/rabbitry/internal/domain/analysis"
	"github.com/mamadbah2/rabbitry/internal/domain/models"
)

// DefaultSuggestionLimit bounds the pair suggestion list.
const DefaultSuggestionLimit = 5

type pairCandidate struct {
	doe   string
	buck  string
	band  analysis.Band
	score float64
}

// SuggestPairs ranks every active doe/buck combination that is not a Danger
// or Error pairing and returns the top suggestions.
func (s *Service) SuggestPairs(ctx context.Context, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	rabbits, err := s.store.AllRabbits(ctx)
	if err != nil {
		return "", err
	}

	byID := make(map[uint]*models.Rabbit, len(rabbits))
	for i := range rabbits {
		byID[rabbits[i].ID] = &rabbits[i]
	}
	resolver := func(id uint) *models.Rabbit { return byID[id] }

	var does, bucks []*models.Rabbit
	for i := range rabbits {
		r := &rabbits[i]
		if r.Status != models.StatusActive {
			continue
		}
		switch r.Sex {
		case models.SexFemale:
			does = append(does, r)
		case models.SexMale:
			bucks = append(bucks, r)
		}
	}
	if len(does) == 0 || len(bucks) == 0 {
		return "Need at least one active doe and one active buck to suggest pairs.", nil
	}

	doeFacts := make(map[uint]analysis.PairInput, len(does))
	for _, doe := range does {
		litters, kits, err := s.store.LitterStats(ctx, doe.ID)
		if err != nil {
			return "", err
		}
		in := analysis.PairInput{LitterCount: litters}
		if litters > 0 {
			in.AvgLitterSize = float64(kits) / float64(litters)
		}
		series, err := s.store.WeightSeries(ctx, doe.ID)
		if err != nil {
			return "", err
		}
		if stats, err := analysis.Growth(series); err == nil {
			gain := stats.DailyGainGrams
			in.DailyGainGrams = &gain
		}
		doeFacts[doe.ID] = in
	}

	buckOffspring := make(map[uint]int64, len(bucks))
	for _, buck := range bucks {
		n, err := s.store.OffspringCount(ctx, buck.ID)
		if err != nil {
			return "", err
		}
		buckOffspring[buck.ID] = n
	}

	var candidates []pairCandidate
	for _, doe := range does {
		for _, buck := range bucks {
			verdict := analysis.AssessRelatedness(doe, buck, resolver)
			if verdict.Band == analysis.BandDanger || verdict.Band == analysis.BandError {
				continue
			}
			in := doeFacts[doe.ID]
			in.Band = verdict.Band
			in.BuckOffspring = buckOffspring[buck.ID]
			candidates = append(candidates, pairCandidate{
				doe:   doe.Name,
				buck:  buck.Name,
				band:  verdict.Band,
				score: analysis.PairScore(in),
			})
		}
	}
	if len(candidates) == 0 {
		return "No safe pairings available; every combination is too closely related.", nil
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	var b strings.Builder
	b.WriteString("Suggested pairings\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %s x %s (score %.1f, %s)\n", i+1, c.doe, c.buck, c.score, c.band)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
