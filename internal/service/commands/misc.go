package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mamadbah2/rabbitry/internal/domain/models"
	"github.com/mamadbah2/rabbitry/internal/export"
)

func (d *Dispatcher) suggest(ctx context.Context, args []string) (models.Reply, error) {
	limit := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return models.Reply{}, fmt.Errorf("%w: suggestion count must be a positive number, got %q", models.ErrInvalidInput, args[0])
		}
		limit = n
	}

	text, err := d.reports.SuggestPairs(ctx, limit)
	if err != nil {
		return models.Reply{}, err
	}
	return models.TextReply(text), nil
}

func (d *Dispatcher) achievements(ctx context.Context) (models.Reply, error) {
	text, err := d.reports.AchievementsMessage(ctx)
	if err != nil {
		return models.Reply{}, err
	}
	return models.TextReply(text), nil
}

func (d *Dispatcher) stats(ctx context.Context) (models.Reply, error) {
	text, err := d.reports.StatsMessage(ctx)
	if err != nil {
		return models.Reply{}, err
	}
	return models.TextReply(text), nil
}

func (d *Dispatcher) farmSummary(ctx context.Context) (models.Reply, error) {
	text, err := d.reports.FarmSummary(ctx)
	if err != nil {
		return models.Reply{}, err
	}
	return models.TextReply(text), nil
}

func (d *Dispatcher) exportTable(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 1 {
		return usage(fmt.Sprintf("Usage: /export TABLE\nTables: %s", strings.Join(export.Tables(), ", ")))
	}

	table := strings.ToLower(args[0])
	path, err := d.exporter.Table(ctx, table)
	if err != nil {
		return models.Reply{}, err
	}
	return models.DocumentReply(path, fmt.Sprintf("Export of %s", table)), nil
}

func (d *Dispatcher) backup() (models.Reply, error) {
	return models.DocumentReply(d.exporter.Backup(), "Database backup"), nil
}

func (d *Dispatcher) subscribe(ctx context.Context, chatID int64) (models.Reply, error) {
	created, err := d.store.Subscribe(ctx, chatID, d.now().Format(models.DateLayout))
	if err != nil {
		return models.Reply{}, err
	}
	if !created {
		return models.TextReply("Already subscribed to the daily digest."), nil
	}
	return models.TextReply("Subscribed. You will receive the daily digest every morning."), nil
}

func (d *Dispatcher) unsubscribe(ctx context.Context, chatID int64) (models.Reply, error) {
	removed, err := d.store.Unsubscribe(ctx, chatID)
	if err != nil {
		return models.Reply{}, err
	}
	if !removed {
		return models.TextReply("You were not subscribed."), nil
	}
	return models.TextReply("Unsubscribed from the daily digest."), nil
}
