package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mamadbah2/rabbitry/internal/domain/analysis"
	"github.com/mamadbah2/rabbitry/internal/domain/models"
)

func (d *Dispatcher) remind(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 2 {
		return usage("Usage: /remind DATE TEXT")
	}
	if _, err := analysis.ParseDate(args[0]); err != nil {
		return models.Reply{}, err
	}

	task := &models.Task{Date: args[0], Title: strings.Join(args[1:], " ")}
	if err := d.store.AddTask(ctx, task); err != nil {
		return models.Reply{}, err
	}
	return models.TextReply(fmt.Sprintf("Reminder #%d set for %s: %s", task.ID, task.Date, task.Title)), nil
}

func (d *Dispatcher) taskList(ctx context.Context) (models.Reply, error) {
	today := d.now().Format(models.DateLayout)
	tasks, err := d.store.UpcomingTasks(ctx, today, taskListLimit)
	if err != nil {
		return models.Reply{}, err
	}
	if len(tasks) == 0 {
		return models.TextReply("No upcoming tasks. Add one with /remind DATE TEXT."), nil
	}

	var b strings.Builder
	b.WriteString("Upcoming tasks\n")
	for _, t := range tasks {
		marker := " "
		if t.Done {
			marker = "✔"
		}
		fmt.Fprintf(&b, "#%d %s %s %s\n", t.ID, marker, t.Date, t.Title)
	}
	b.WriteString("Close one with /donetask ID")
	return models.TextReply(b.String()), nil
}

func (d *Dispatcher) doneTask(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 1 {
		return usage("Usage: /donetask ID")
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return models.Reply{}, fmt.Errorf("%w: task id must be a number, got %q", models.ErrInvalidInput, args[0])
	}

	done, err := d.store.MarkTaskDone(ctx, uint(id))
	if err != nil {
		return models.Reply{}, err
	}
	if !done {
		return models.TextReply(fmt.Sprintf("No open task #%d.", id)), nil
	}
	return models.TextReply(fmt.Sprintf("Task #%d done.", id)), nil
}

// temperature stores the reading and answers with its climate band.
func (d *Dispatcher) temperature(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 1 {
		return usage("Usage: /temp CELSIUS")
	}
	celsius, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return models.Reply{}, fmt.Errorf("%w: temperature must be a number, got %q", models.ErrInvalidInput, args[0])
	}

	if err := d.store.UpsertSetting(ctx, models.SettingLastTemperature, strconv.FormatFloat(celsius, 'f', -1, 64)); err != nil {
		return models.Reply{}, err
	}

	band := analysis.ClassifyTemperature(celsius)
	return models.TextReply(fmt.Sprintf("🌡 %.1f°C recorded: %s", celsius, band.Label)), nil
}
