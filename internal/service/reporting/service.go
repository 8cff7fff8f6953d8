// Package reporting turns stored records into the summary messages the bot
// sends back: profit and feed rollups, herd statistics, growth reports, pair
// suggestions, achievements and the daily digest.
package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/rabbitry/internal/domain/models"
	"github.com/mamadbah2/rabbitry/internal/repository/sqlite"
)

// Service aggregates repository data into report strings.
type Service struct {
	store  sqlite.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a reporting service over the store.
func NewService(store sqlite.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// WithClock overrides the wall clock, used by tests and callers that need a
// shared notion of "today".
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) today() string {
	return s.now().Format(models.DateLayout)
}

// ResolvePeriod maps a period argument to a date prefix. "month" and "year"
// expand against the current clock; a literal "YYYY" or "YYYY-MM" is used as
// given. Anything else falls back to all time rather than erroring.
func (s *Service) ResolvePeriod(arg string) string {
	switch strings.ToLower(arg) {
	case "":
		return ""
	case "month":
		return s.now().Format("2006-01")
	case "year":
		return s.now().Format("2006")
	}
	if isPeriodPrefix(arg) {
		return arg
	}
	return ""
}

// isPeriodPrefix reports whether the token has the YYYY or YYYY-MM shape.
func isPeriodPrefix(arg string) bool {
	switch len(arg) {
	case 4:
		return allDigits(arg)
	case 7:
		return allDigits(arg[:4]) && arg[4] == '-' && allDigits(arg[5:])
	default:
		return false
	}
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func periodLabel(prefix string) string {
	if prefix == "" {
		return "all time"
	}
	return prefix
}

// ProfitSummary reports income, expenses and the net result for the selected
// period. Profit is sales minus expenses; feed costs are a separate
// informational line and never folded into the figure.
func (s *Service) ProfitSummary(ctx context.Context, periodArg string) (string, error) {
	prefix := s.ResolvePeriod(periodArg)

	income, err := s.store.SumSales(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("sum sales: %w", err)
	}
	expenses, err := s.store.SumExpenses(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("sum expenses: %w", err)
	}
	_, feedCost, err := s.store.FeedTotals(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("sum feed costs: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Profit (%s)\n", periodLabel(prefix))
	fmt.Fprintf(&b, "Income: %.2f\n", income)
	fmt.Fprintf(&b, "Expenses: %.2f\n", expenses)
	fmt.Fprintf(&b, "Net: %+.2f", income-expenses)
	if feedCost > 0 {
		fmt.Fprintf(&b, "\nFeed cost (not counted): %.2f", feedCost)
	}
	return b.String(), nil
}

// NetProfit returns the raw profit figure for a period prefix: sale income
// minus expense rows. Feed logs do not participate.
func (s *Service) NetProfit(ctx context.Context, prefix string) (float64, error) {
	income, err := s.store.SumSales(ctx, prefix)
	if err != nil {
		return 0, err
	}
	expenses, err := s.store.SumExpenses(ctx, prefix)
	if err != nil {
		return 0, err
	}
	return income - expenses, nil
}

// FeedSummary reports feed usage and cost for the selected period.
func (s *Service) FeedSummary(ctx context.Context, periodArg string) (string, error) {
	prefix := s.ResolvePeriod(periodArg)

	kg, cost, err := s.store.FeedTotals(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("feed totals: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Feed (%s)\n", periodLabel(prefix))
	fmt.Fprintf(&b, "Used: %.1f kg\n", kg)
	fmt.Fprintf(&b, "Cost: %.2f", cost)
	if kg > 0 {
		fmt.Fprintf(&b, "\nPer kg: %.2f", cost/kg)
	}
	return b.String(), nil
}

// StatsMessage renders the herd counters.
func (s *Service) StatsMessage(ctx context.Context) (string, error) {
	stats, err := s.store.FarmStats(ctx)
	if err != nil {
		return "", fmt.Errorf("farm stats: %w", err)
	}

	var b strings.Builder
	b.WriteString("Farm statistics\n")
	fmt.Fprintf(&b, "Rabbits: %d (%d active)\n", stats.TotalRabbits, stats.ActiveRabbits)
	fmt.Fprintf(&b, "Does: %d, bucks: %d\n", stats.Does, stats.Bucks)
	fmt.Fprintf(&b, "Breedings: %d, litters: %d, kits born: %d\n", stats.Breedings, stats.Litters, stats.Kits)
	fmt.Fprintf(&b, "Sales: %d", stats.Sales)
	return b.String(), nil
}

// FarmSummary combines the herd counters with all-time money and feed totals
// into one overview message.
func (s *Service) FarmSummary(ctx context.Context) (string, error) {
	stats, err := s.StatsMessage(ctx)
	if err != nil {
		return "", err
	}

	income, err := s.store.SumSales(ctx, "")
	if err != nil {
		return "", err
	}
	expenses, err := s.store.SumExpenses(ctx, "")
	if err != nil {
		return "", err
	}
	feedKg, feedCost, err := s.store.FeedTotals(ctx, "")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(stats)
	b.WriteString("\n\nAll-time money\n")
	fmt.Fprintf(&b, "Income: %.2f, expenses: %.2f, net: %+.2f\n", income, expenses, income-expenses)
	fmt.Fprintf(&b, "Feed: %.1f kg for %.2f", feedKg, feedCost)
	return b.String(), nil
}
