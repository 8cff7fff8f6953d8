package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mamadbah2/rabbitry/internal/domain/analysis"
	"github.com/mamadbah2/rabbitry/internal/domain/models"
)

// breed records a mating. A Danger relatedness verdict blocks it unless the
// trailing "force" argument is given; an Error verdict is never overridable.
func (d *Dispatcher) breed(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 2 {
		return usage("Usage: /breed DOE BUCK [DATE] [force]")
	}

	force := false
	if last := strings.ToLower(args[len(args)-1]); last == "force" {
		force = true
		args = args[:len(args)-1]
	}

	dateArg := ""
	if len(args) > 2 {
		dateArg = args[2]
	}
	matingDate, err := d.dateOrToday(dateArg)
	if err != nil {
		return models.Reply{}, err
	}

	verdict, doe, buck, err := d.assessPair(ctx, args[0], args[1])
	if err != nil {
		return models.Reply{}, err
	}
	switch verdict.Band {
	case analysis.BandError:
		return models.Reply{}, fmt.Errorf("%w: %s", models.ErrDangerousPairing, verdict.Reason)
	case analysis.BandDanger:
		if !force {
			return models.Reply{}, fmt.Errorf("%w: %s. Append 'force' to record anyway", models.ErrDangerousPairing, verdict.Reason)
		}
	}

	dueDate, err := analysis.DueDate(matingDate)
	if err != nil {
		return models.Reply{}, err
	}

	breeding := &models.Breeding{
		DoeID:           doe.ID,
		BuckID:          buck.ID,
		MatingDate:      matingDate,
		ExpectedDueDate: dueDate,
	}
	if err := d.store.CreateBreeding(ctx, breeding); err != nil {
		return models.Reply{}, err
	}

	text := fmt.Sprintf("Recorded %s x %s on %s.\nExpected kindling: %s", doe.Name, buck.Name, matingDate, dueDate)
	if verdict.Band == analysis.BandWarning {
		text += fmt.Sprintf("\n⚠️ %s", verdict.Reason)
	}
	if force && verdict.Band == analysis.BandDanger {
		text += fmt.Sprintf("\n🚫 Forced past a dangerous pairing: %s", verdict.Reason)
	}
	return models.TextReply(d.appendUnlocks(ctx, text)), nil
}

// kindling closes the doe's latest open breeding with the litter size.
func (d *Dispatcher) kindling(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 2 {
		return usage("Usage: /kindling DOE KITS [DATE]")
	}

	kits, err := strconv.Atoi(args[1])
	if err != nil || kits < 0 {
		return models.Reply{}, fmt.Errorf("%w: litter size must be a non-negative number, got %q", models.ErrInvalidInput, args[1])
	}

	dateArg := ""
	if len(args) > 2 {
		dateArg = args[2]
	}
	kindlingDate, err := d.dateOrToday(dateArg)
	if err != nil {
		return models.Reply{}, err
	}

	doe, err := d.store.RabbitByName(ctx, args[0])
	if err != nil {
		return models.Reply{}, err
	}

	breeding, err := d.store.LatestOpenBreeding(ctx, doe.ID)
	if err != nil {
		return models.Reply{}, err
	}

	weaningDate, err := analysis.WeaningDate(kindlingDate)
	if err != nil {
		return models.Reply{}, err
	}

	if err := d.store.CloseBreeding(ctx, breeding.ID, kindlingDate, kits, weaningDate, ""); err != nil {
		return models.Reply{}, err
	}

	text := fmt.Sprintf("%s kindled %d kits on %s.\nWeaning due: %s\nName the litter with /littername %s NAME",
		doe.Name, kits, kindlingDate, weaningDate, doe.Name)
	return models.TextReply(d.appendUnlocks(ctx, text)), nil
}

func (d *Dispatcher) litters(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 1 {
		return usage("Usage: /litters DOE")
	}

	doe, err := d.store.RabbitByName(ctx, args[0])
	if err != nil {
		return models.Reply{}, err
	}

	closed, err := d.store.ClosedBreedingsForDoe(ctx, doe.ID)
	if err != nil {
		return models.Reply{}, err
	}
	if len(closed) == 0 {
		return models.TextReply(fmt.Sprintf("%s has no recorded litters yet.", doe.Name)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Litters of %s (%d)\n", doe.Name, len(closed))
	for _, breeding := range closed {
		kits := 0
		if breeding.LitterSize != nil {
			kits = *breeding.LitterSize
		}
		fmt.Fprintf(&b, "%s: %d kits", *breeding.KindlingDate, kits)
		if breeding.LitterName != "" {
			fmt.Fprintf(&b, " (%s)", breeding.LitterName)
		}
		b.WriteString("\n")
	}
	return models.TextReply(strings.TrimRight(b.String(), "\n")), nil
}

// renameLitter names the doe's most recently closed breeding.
func (d *Dispatcher) renameLitter(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 2 {
		return usage("Usage: /littername DOE NAME")
	}

	doe, err := d.store.RabbitByName(ctx, args[0])
	if err != nil {
		return models.Reply{}, err
	}

	breeding, err := d.store.LatestClosedBreeding(ctx, doe.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.TextReply(fmt.Sprintf("%s has no closed litters to name.", doe.Name)), nil
		}
		return models.Reply{}, err
	}

	name := strings.Join(args[1:], " ")
	if err := d.store.RenameLitter(ctx, breeding.ID, name); err != nil {
		return models.Reply{}, err
	}
	return models.TextReply(fmt.Sprintf("Litter of %s (%s) named %q.", doe.Name, *breeding.KindlingDate, name)), nil
}

func (d *Dispatcher) nextDue(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 1 {
		return usage("Usage: /nextdue DOE")
	}

	doe, err := d.store.RabbitByName(ctx, args[0])
	if err != nil {
		return models.Reply{}, err
	}

	breeding, err := d.store.NextDueForDoe(ctx, doe.ID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrNoOpenBreeding) {
			return models.TextReply(fmt.Sprintf("%s has no open breeding.", doe.Name)), nil
		}
		return models.Reply{}, err
	}
	return models.TextReply(fmt.Sprintf("%s is due on %s (mated %s).", doe.Name, breeding.ExpectedDueDate, breeding.MatingDate)), nil
}

// todayOverview reuses the digest body for the on-demand /today command.
func (d *Dispatcher) todayOverview(ctx context.Context) (models.Reply, error) {
	body, err := d.reports.DailyDigest(ctx)
	if err != nil {
		return models.Reply{}, err
	}
	return models.TextReply(body), nil
}

func (d *Dispatcher) weaning(ctx context.Context, args []string) (models.Reply, error) {
	dateArg := ""
	if len(args) > 0 {
		dateArg = args[0]
	}
	date, err := d.dateOrToday(dateArg)
	if err != nil {
		return models.Reply{}, err
	}

	does, err := d.store.DoeNamesWeaningOn(ctx, date)
	if err != nil {
		return models.Reply{}, err
	}
	if len(does) == 0 {
		return models.TextReply(fmt.Sprintf("No litters weaning on %s.", date)), nil
	}
	return models.TextReply(fmt.Sprintf("Weaning on %s: %s", date, strings.Join(does, ", "))), nil
}
