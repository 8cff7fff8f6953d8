package reporting

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/rabbitry/internal/domain/analysis"
	"github.com/mamadbah2/rabbitry/internal/domain/models"
)

// DailyDigest builds the morning summary: does due today, litters weaning
// today, open tasks for the day and the climate note derived from the last
// recorded temperature.
func (s *Service) DailyDigest(ctx context.Context) (string, error) {
	today := s.today()

	due, err := s.store.DoeNamesDueOn(ctx, today)
	if err != nil {
		return "", fmt.Errorf("does due: %w", err)
	}
	weaning, err := s.store.DoeNamesWeaningOn(ctx, today)
	if err != nil {
		return "", fmt.Errorf("weaning litters: %w", err)
	}
	tasks, err := s.store.TasksOn(ctx, today)
	if err != nil {
		return "", fmt.Errorf("tasks due: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Daily digest %s\n", today)

	if len(due) > 0 {
		fmt.Fprintf(&b, "🐇 Due today: %s\n", strings.Join(due, ", "))
	}
	if len(weaning) > 0 {
		fmt.Fprintf(&b, "🍼 Weaning today: %s\n", strings.Join(weaning, ", "))
	}
	if len(tasks) > 0 {
		b.WriteString("📋 Tasks:\n")
		for _, t := range tasks {
			fmt.Fprintf(&b, "- %s", t.Title)
			if t.Note != "" {
				fmt.Fprintf(&b, " (%s)", t.Note)
			}
			b.WriteString("\n")
		}
	}
	if len(due) == 0 && len(weaning) == 0 && len(tasks) == 0 {
		b.WriteString("Nothing scheduled today.\n")
	}

	if note := s.climateNote(ctx); note != "" {
		b.WriteString(note)
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

// climateNote renders the band for the last recorded temperature, or nothing
// when none was ever stored.
func (s *Service) climateNote(ctx context.Context) string {
	raw, err := s.store.Setting(ctx, models.SettingLastTemperature)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Warn("read last temperature", zap.Error(err))
		}
		return ""
	}
	celsius, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return ""
	}
	band := analysis.ClassifyTemperature(celsius)
	return fmt.Sprintf("🌡 Last recorded %.1f°C: %s\n", celsius, band.Label)
}
