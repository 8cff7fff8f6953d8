package reporting

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/rabbitry/internal/domain/analysis"
)

// EvaluateAchievements re-checks every milestone against current totals and
// persists any newly reached ones. It returns the titles unlocked by this
// evaluation; already unlocked milestones are skipped silently.
func (s *Service) EvaluateAchievements(ctx context.Context) ([]string, error) {
	stats, err := s.store.FarmStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("farm stats: %w", err)
	}
	profit, err := s.NetProfit(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("net profit: %w", err)
	}
	feedKg, _, err := s.store.FeedTotals(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("feed totals: %w", err)
	}

	totals := analysis.Totals{FarmStats: stats, Profit: profit, FeedKg: feedKg}

	var fresh []string
	for _, def := range analysis.Unlocked(totals) {
		created, err := s.store.UnlockAchievement(ctx, def.Key, s.today())
		if err != nil {
			return nil, fmt.Errorf("unlock achievement %s: %w", def.Key, err)
		}
		if created {
			s.logger.Info("achievement unlocked", zap.String("key", def.Key))
			fresh = append(fresh, def.Title)
		}
	}
	return fresh, nil
}

// AchievementsMessage lists every unlocked milestone with its unlock date.
func (s *Service) AchievementsMessage(ctx context.Context) (string, error) {
	if _, err := s.EvaluateAchievements(ctx); err != nil {
		return "", err
	}

	unlocked, err := s.store.Achievements(ctx)
	if err != nil {
		return "", err
	}
	if len(unlocked) == 0 {
		return "No achievements yet. Keep farming!", nil
	}

	titles := make(map[string]string)
	for _, def := range analysis.Definitions() {
		titles[def.Key] = def.Title
	}

	var b strings.Builder
	b.WriteString("Achievements\n")
	for _, a := range unlocked {
		title := titles[a.Key]
		if title == "" {
			title = a.Key
		}
		fmt.Fprintf(&b, "🏆 %s (%s)\n", title, a.UnlockedAt)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
