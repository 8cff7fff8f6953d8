// Package commands maps parsed chat commands onto repository operations and
// domain computations, producing the reply to send back.
package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/rabbitry/internal/domain/analysis"
	"github.com/mamadbah2/rabbitry/internal/domain/models"
	"github.com/mamadbah2/rabbitry/internal/export"
	"github.com/mamadbah2/rabbitry/internal/repository/sheets"
	"github.com/mamadbah2/rabbitry/internal/repository/sqlite"
	"github.com/mamadbah2/rabbitry/internal/service/reporting"
)

// logLimit caps the health and weight history listings.
const logLimit = 5

// taskListLimit caps the upcoming task listing.
const taskListLimit = 10

// Dispatcher routes commands to their handlers.
type Dispatcher struct {
	store    sqlite.Store
	reports  *reporting.Service
	exporter *export.Exporter
	mirror   sheets.Repository // optional spreadsheet mirror, may be nil
	logger   *zap.Logger
	now      func() time.Time
}

// NewDispatcher wires a dispatcher. The mirror may be nil when no spreadsheet
// is configured.
func NewDispatcher(store sqlite.Store, reports *reporting.Service, exporter *export.Exporter, mirror sheets.Repository, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		store:    store,
		reports:  reports,
		exporter: exporter,
		mirror:   mirror,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the wall clock for tests.
func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	d.now = now
	d.reports.WithClock(now)
	return d
}

// Dispatch executes one command and renders the outcome as a reply. Domain
// errors come back as instructive text; unexpected failures are logged and
// answered with a generic apology.
func (d *Dispatcher) Dispatch(ctx context.Context, chatID int64, cmd models.Command) models.Reply {
	reply, err := d.route(ctx, chatID, cmd)
	if err == nil {
		return reply
	}

	switch {
	case errors.Is(err, models.ErrNotFound):
		return models.TextReply("Nothing found by that name or id. Check /rabbits for the registered animals.")
	case errors.Is(err, models.ErrDuplicateName):
		return models.TextReply("A rabbit with that name already exists. Names must be unique.")
	case errors.Is(err, models.ErrSexMismatch):
		return models.TextReply(err.Error())
	case errors.Is(err, models.ErrNoOpenBreeding):
		return models.TextReply("No open breeding for that doe. Record a mating first with /breed.")
	case errors.Is(err, models.ErrDangerousPairing):
		return models.TextReply(err.Error())
	case errors.Is(err, models.ErrInvalidInput):
		return models.TextReply(err.Error())
	}

	d.logger.Error("command failed",
		zap.String("command", string(cmd.Type)),
		zap.Error(err),
	)
	return models.TextReply("Something went wrong handling that command. Please try again.")
}

func (d *Dispatcher) route(ctx context.Context, chatID int64, cmd models.Command) (models.Reply, error) {
	switch cmd.Type {
	case models.CommandStart:
		return models.TextReply(helpText), nil
	case models.CommandAddRabbit:
		return d.addRabbit(ctx, cmd.Args)
	case models.CommandRabbits:
		return d.listRabbits(ctx, false)
	case models.CommandActive:
		return d.listRabbits(ctx, true)
	case models.CommandSetCage:
		return d.setCage(ctx, cmd.Args)
	case models.CommandSetParents:
		return d.setParents(ctx, cmd.Args)
	case models.CommandSetPhoto:
		return d.setPhotoHint(cmd.Args)
	case models.CommandCheckPair:
		return d.checkPair(ctx, cmd.Args)
	case models.CommandMarkDead:
		return d.markDead(ctx, cmd.Args)
	case models.CommandInfo:
		return d.rabbitInfo(ctx, cmd.Args)
	case models.CommandBreed:
		return d.breed(ctx, cmd.Args)
	case models.CommandKindling:
		return d.kindling(ctx, cmd.Args)
	case models.CommandLitters:
		return d.litters(ctx, cmd.Args)
	case models.CommandLitterName:
		return d.renameLitter(ctx, cmd.Args)
	case models.CommandNextDue:
		return d.nextDue(ctx, cmd.Args)
	case models.CommandToday:
		return d.todayOverview(ctx)
	case models.CommandWeaning:
		return d.weaning(ctx, cmd.Args)
	case models.CommandHealth:
		return d.addHealth(ctx, cmd.Args)
	case models.CommandHealthLog:
		return d.healthLog(ctx, cmd.Args)
	case models.CommandWeight:
		return d.addWeight(ctx, cmd.Args)
	case models.CommandWeightLog:
		return d.weightLog(ctx, cmd.Args)
	case models.CommandGrowth:
		return d.growth(ctx, cmd.Args)
	case models.CommandGrowthChart:
		return d.growthChart(ctx, cmd.Args)
	case models.CommandSell:
		return d.sell(ctx, cmd.Args)
	case models.CommandExpense:
		return d.expense(ctx, cmd.Args)
	case models.CommandElectric:
		return d.electric(ctx, cmd.Args)
	case models.CommandFeed:
		return d.feed(ctx, cmd.Args)
	case models.CommandProfit:
		return d.profit(ctx, cmd)
	case models.CommandFeedStats:
		return d.feedStats(ctx, cmd)
	case models.CommandRemind:
		return d.remind(ctx, cmd.Args)
	case models.CommandTaskList:
		return d.taskList(ctx)
	case models.CommandDoneTask:
		return d.doneTask(ctx, cmd.Args)
	case models.CommandTemp:
		return d.temperature(ctx, cmd.Args)
	case models.CommandSuggest:
		return d.suggest(ctx, cmd.Args)
	case models.CommandAchievements:
		return d.achievements(ctx)
	case models.CommandStats:
		return d.stats(ctx)
	case models.CommandFarmSummary:
		return d.farmSummary(ctx)
	case models.CommandExport:
		return d.exportTable(ctx, cmd.Args)
	case models.CommandBackup:
		return d.backup()
	case models.CommandSubscribe:
		return d.subscribe(ctx, chatID)
	case models.CommandUnsubscribe:
		return d.unsubscribe(ctx, chatID)
	default:
		return models.TextReply("Unknown command. Send /help for the full list."), nil
	}
}

// AttachPhoto stores a photo reference for the rabbit named in the caption.
// It backs the photo-with-caption flow, not a slash command.
func (d *Dispatcher) AttachPhoto(ctx context.Context, name, fileID string) models.Reply {
	name = strings.TrimSpace(name)
	if name == "" || fileID == "" {
		return models.TextReply("Caption the photo with the rabbit's name to attach it.")
	}
	if err := d.store.SetPhoto(ctx, name, fileID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.TextReply(fmt.Sprintf("No rabbit named %q. Add it first with /addrabbit.", name))
		}
		d.logger.Error("attach photo", zap.String("name", name), zap.Error(err))
		return models.TextReply("Could not store the photo. Please try again.")
	}
	return models.TextReply(fmt.Sprintf("Photo attached to %s.", name))
}

// dateOrToday validates an optional date argument, falling back to today.
func (d *Dispatcher) dateOrToday(arg string) (string, error) {
	if arg == "" {
		return d.now().Format(models.DateLayout), nil
	}
	if _, err := analysis.ParseDate(arg); err != nil {
		return "", err
	}
	return arg, nil
}

// appendUnlocks re-evaluates achievements after a milestone-relevant write
// and appends any fresh unlocks to the reply text.
func (d *Dispatcher) appendUnlocks(ctx context.Context, text string) string {
	fresh, err := d.reports.EvaluateAchievements(ctx)
	if err != nil {
		d.logger.Warn("achievement evaluation", zap.Error(err))
		return text
	}
	for _, title := range fresh {
		text += fmt.Sprintf("\n🏆 Achievement unlocked: %s", title)
	}
	return text
}

// mirrorRow copies a money/feed row to the spreadsheet when one is
// configured. Mirror failures never fail the command.
func (d *Dispatcher) mirrorRow(ctx context.Context, sheetRange string, values []interface{}) {
	if d.mirror == nil {
		return
	}
	if err := d.mirror.AppendRow(ctx, sheetRange, values); err != nil {
		d.logger.Warn("sheet mirror append", zap.String("range", sheetRange), zap.Error(err))
	}
}

func usage(text string) (models.Reply, error) {
	return models.TextReply(text), nil
}

const helpText = `Rabbitry bot commands

Herd
/addrabbit NAME F|M - register a rabbit
/rabbits - list all rabbits
/active - list active rabbits
/info NAME - rabbit card
/setcage NAME CAGE [SECTION]
/setparents CHILD MOTHER FATHER
/checkpair NAME NAME - relatedness check
/markdead NAME [DATE] [REASON]
Send a photo captioned with a name to attach it.

Breeding
/breed DOE BUCK [DATE] [force]
/kindling DOE KITS [DATE]
/littername DOE NAME
/litters DOE
/nextdue DOE
/today - due, weaning and tasks today
/weaning [DATE]

Records
/health NAME NOTE
/healthlog NAME
/weight NAME KG [DATE]
/weightlog NAME
/growth NAME
/growthchart NAME

Money and feed
/sell NAME [PRICE] [BUYER]
/expense CATEGORY AMOUNT [NOTE]
/electric AMOUNT
/feed KG [COST] [NOTE]
/profit [PERIOD] (also /profitmonth, /profityear)
/feedstats [PERIOD] (also /feedmonth)

Planning
/remind DATE TEXT
/tasklist
/donetask ID
/temp CELSIUS
/suggest [N] - ranked pairings

Overview
/stats /farmsummary /achievements
/export TABLE (rabbits, breedings, health, weights, sales, expenses, feed, tasks)
/backup - database file
/subscribe /unsubscribe - daily digest`
