package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mamadbah2/rabbitry/internal/domain/analysis"
	"github.com/mamadbah2/rabbitry/internal/domain/models"
)

// GrowthSummary reports the average daily gain of a rabbit with a band label.
func (s *Service) GrowthSummary(ctx context.Context, name string) (string, error) {
	rabbit, err := s.store.RabbitByName(ctx, name)
	if err != nil {
		return "", err
	}

	series, err := s.store.WeightSeries(ctx, rabbit.ID)
	if err != nil {
		return "", err
	}

	stats, err := analysis.Growth(series)
	if errors.Is(err, models.ErrInsufficientData) {
		return fmt.Sprintf("%s: need at least two dated weighings to estimate growth.", rabbit.Name), nil
	}
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Growth for %s\n", rabbit.Name)
	fmt.Fprintf(&b, "Gain: %.0f g/day over %d days (%+.2f kg total)\n", stats.DailyGainGrams, stats.ElapsedDays, stats.TotalGainKg)
	fmt.Fprintf(&b, "Rate: %s", analysis.GrowthBand(stats.DailyGainGrams))
	return b.String(), nil
}

// GrowthChartMessage renders the weight series as text bars, one line per
// weighing, scaled between the observed minimum and maximum.
func (s *Service) GrowthChartMessage(ctx context.Context, name string) (string, error) {
	rabbit, err := s.store.RabbitByName(ctx, name)
	if err != nil {
		return "", err
	}

	series, err := s.store.WeightSeries(ctx, rabbit.ID)
	if err != nil {
		return "", err
	}

	chart := analysis.GrowthChart(series)
	if len(chart) == 0 {
		return fmt.Sprintf("%s: no dated weighings to chart.", rabbit.Name), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Weight chart for %s\n", rabbit.Name)
	for _, p := range chart {
		fmt.Fprintf(&b, "%s %s %.2f kg\n", p.Date, strings.Repeat("█", p.Level), p.WeightKg)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
