package analysis

import (
	"sort"
	"time"

	"github.com/mamadbah2/rabbitry/internal/domain/models"
)

// Growth-rate banding thresholds, grams per day. Boundary values belong to
// the normal band.
const (
	slowGainThreshold = 15.0
	goodGainThreshold = 35.0
)

// ChartLevels is the number of discrete bar heights used by GrowthChart.
const ChartLevels = 10

// GrowthStats summarizes weight development between the earliest and latest
// usable records.
type GrowthStats struct {
	DailyGainGrams float64
	ElapsedDays    int
	TotalGainKg    float64
}

// Growth estimates the average daily gain from a weight series. Records with
// unparseable dates are skipped. Fewer than two usable records, or zero or
// negative elapsed time between the earliest and latest, yields
// ErrInsufficientData.
func Growth(series []models.WeightRecord) (GrowthStats, error) {
	points := usablePoints(series)
	if len(points) < 2 {
		return GrowthStats{}, models.ErrInsufficientData
	}

	first := points[0]
	last := points[len(points)-1]

	days := int(last.when.Sub(first.when).Hours() / 24)
	if days <= 0 {
		return GrowthStats{}, models.ErrInsufficientData
	}

	gainKg := last.rec.WeightKg - first.rec.WeightKg
	return GrowthStats{
		DailyGainGrams: gainKg / float64(days) * 1000,
		ElapsedDays:    days,
		TotalGainKg:    gainKg,
	}, nil
}

// GrowthBand labels a daily gain as "slow", "normal" or "good".
func GrowthBand(dailyGainGrams float64) string {
	switch {
	case dailyGainGrams < slowGainThreshold:
		return "slow"
	case dailyGainGrams > goodGainThreshold:
		return "good"
	default:
		return "normal"
	}
}

// ChartPoint is one dated weight scaled to a discrete bar height in
// [1, ChartLevels].
type ChartPoint struct {
	Date     string
	WeightKg float64
	Level    int
}

// GrowthChart scales a weight series between its observed minimum and
// maximum. A flat series renders every point at the minimal level.
func GrowthChart(series []models.WeightRecord) []ChartPoint {
	points := usablePoints(series)
	if len(points) == 0 {
		return nil
	}

	minW, maxW := points[0].rec.WeightKg, points[0].rec.WeightKg
	for _, p := range points[1:] {
		if p.rec.WeightKg < minW {
			minW = p.rec.WeightKg
		}
		if p.rec.WeightKg > maxW {
			maxW = p.rec.WeightKg
		}
	}

	chart := make([]ChartPoint, 0, len(points))
	for _, p := range points {
		level := 1
		if maxW > minW {
			level = 1 + int((p.rec.WeightKg-minW)/(maxW-minW)*float64(ChartLevels-1)+0.5)
		}
		chart = append(chart, ChartPoint{Date: p.rec.Date, WeightKg: p.rec.WeightKg, Level: level})
	}
	return chart
}

type weightPoint struct {
	rec  models.WeightRecord
	when time.Time
}

// usablePoints drops records with malformed dates and sorts the rest by date
// ascending. The sort is stable, so among same-day records the most recent
// insert stays last and wins as "latest".
func usablePoints(series []models.WeightRecord) []weightPoint {
	points := make([]weightPoint, 0, len(series))
	for _, rec := range series {
		when, err := ParseDate(rec.Date)
		if err != nil {
			continue
		}
		points = append(points, weightPoint{rec: rec, when: when})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].when.Before(points[j].when) })
	return points
}
