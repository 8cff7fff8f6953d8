package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mamadbah2/rabbitry/internal/domain/models"
)

func (d *Dispatcher) addHealth(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 2 {
		return usage("Usage: /health NAME NOTE")
	}

	rabbit, err := d.store.RabbitByName(ctx, args[0])
	if err != nil {
		return models.Reply{}, err
	}

	rec := &models.HealthRecord{
		RabbitID: rabbit.ID,
		Date:     d.now().Format(models.DateLayout),
		Note:     strings.Join(args[1:], " "),
	}
	if err := d.store.AddHealthRecord(ctx, rec); err != nil {
		return models.Reply{}, err
	}
	return models.TextReply(fmt.Sprintf("Health note for %s recorded.", rabbit.Name)), nil
}

func (d *Dispatcher) healthLog(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 1 {
		return usage("Usage: /healthlog NAME")
	}

	rabbit, err := d.store.RabbitByName(ctx, args[0])
	if err != nil {
		return models.Reply{}, err
	}

	records, err := d.store.HealthLog(ctx, rabbit.ID, logLimit)
	if err != nil {
		return models.Reply{}, err
	}
	if len(records) == 0 {
		return models.TextReply(fmt.Sprintf("No health notes for %s yet.", rabbit.Name)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Health log for %s\n", rabbit.Name)
	for _, rec := range records {
		fmt.Fprintf(&b, "%s: %s\n", rec.Date, rec.Note)
	}
	return models.TextReply(strings.TrimRight(b.String(), "\n")), nil
}

func (d *Dispatcher) addWeight(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 2 {
		return usage("Usage: /weight NAME KG [DATE]")
	}

	kg, err := strconv.ParseFloat(args[1], 64)
	if err != nil || kg <= 0 {
		return models.Reply{}, fmt.Errorf("%w: weight must be a positive number of kilograms, got %q", models.ErrInvalidInput, args[1])
	}

	dateArg := ""
	if len(args) > 2 {
		dateArg = args[2]
	}
	date, err := d.dateOrToday(dateArg)
	if err != nil {
		return models.Reply{}, err
	}

	rabbit, err := d.store.RabbitByName(ctx, args[0])
	if err != nil {
		return models.Reply{}, err
	}

	rec := &models.WeightRecord{RabbitID: rabbit.ID, Date: date, WeightKg: kg}
	if err := d.store.AddWeightRecord(ctx, rec); err != nil {
		return models.Reply{}, err
	}
	return models.TextReply(fmt.Sprintf("%s weighed %.2f kg on %s.", rabbit.Name, kg, date)), nil
}

func (d *Dispatcher) weightLog(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 1 {
		return usage("Usage: /weightlog NAME")
	}

	rabbit, err := d.store.RabbitByName(ctx, args[0])
	if err != nil {
		return models.Reply{}, err
	}

	records, err := d.store.WeightLog(ctx, rabbit.ID, logLimit)
	if err != nil {
		return models.Reply{}, err
	}
	if len(records) == 0 {
		return models.TextReply(fmt.Sprintf("No weighings for %s yet.", rabbit.Name)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Weight log for %s\n", rabbit.Name)
	for _, rec := range records {
		fmt.Fprintf(&b, "%s: %.2f kg\n", rec.Date, rec.WeightKg)
	}
	return models.TextReply(strings.TrimRight(b.String(), "\n")), nil
}

func (d *Dispatcher) growth(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 1 {
		return usage("Usage: /growth NAME")
	}
	text, err := d.reports.GrowthSummary(ctx, args[0])
	if err != nil {
		return models.Reply{}, err
	}
	return models.TextReply(text), nil
}

func (d *Dispatcher) growthChart(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 1 {
		return usage("Usage: /growthchart NAME")
	}
	text, err := d.reports.GrowthChartMessage(ctx, args[0])
	if err != nil {
		return models.Reply{}, err
	}
	return models.TextReply(text), nil
}
