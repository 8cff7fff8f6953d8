package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/mamadbah2/rabbitry/internal/domain/analysis"
	"github.com/mamadbah2/rabbitry/internal/domain/models"
)

func normalizeSex(arg string) (string, error) {
	switch strings.ToLower(arg) {
	case "f", "doe", "female":
		return models.SexFemale, nil
	case "m", "buck", "male":
		return models.SexMale, nil
	default:
		return "", fmt.Errorf("%w: sex must be F or M, got %q", models.ErrInvalidInput, arg)
	}
}

func (d *Dispatcher) addRabbit(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 2 {
		return usage("Usage: /addrabbit NAME F|M")
	}
	sex, err := normalizeSex(args[1])
	if err != nil {
		return models.Reply{}, err
	}

	rabbit, err := d.store.CreateRabbit(ctx, args[0], sex)
	if err != nil {
		return models.Reply{}, err
	}

	kind := "doe"
	if rabbit.Sex == models.SexMale {
		kind = "buck"
	}
	text := d.appendUnlocks(ctx, fmt.Sprintf("Added %s %s (#%d).", kind, rabbit.Name, rabbit.ID))
	return models.TextReply(text), nil
}

func (d *Dispatcher) listRabbits(ctx context.Context, activeOnly bool) (models.Reply, error) {
	rabbits, err := d.store.ListRabbits(ctx, activeOnly)
	if err != nil {
		return models.Reply{}, err
	}
	if len(rabbits) == 0 {
		if activeOnly {
			return models.TextReply("No active rabbits."), nil
		}
		return models.TextReply("No rabbits registered yet. Start with /addrabbit NAME F|M."), nil
	}

	var b strings.Builder
	if activeOnly {
		fmt.Fprintf(&b, "Active rabbits (%d)\n", len(rabbits))
	} else {
		fmt.Fprintf(&b, "All rabbits (%d)\n", len(rabbits))
	}
	for _, r := range rabbits {
		fmt.Fprintf(&b, "%s (%s)", r.Name, r.Sex)
		if r.Cage != "" {
			fmt.Fprintf(&b, " cage %s", r.Cage)
		}
		if !activeOnly && r.Status != models.StatusActive {
			fmt.Fprintf(&b, " [%s]", r.Status)
		}
		b.WriteString("\n")
	}
	return models.TextReply(strings.TrimRight(b.String(), "\n")), nil
}

func (d *Dispatcher) setCage(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 2 {
		return usage("Usage: /setcage NAME CAGE [SECTION]")
	}
	section := ""
	if len(args) > 2 {
		section = args[2]
	}
	if err := d.store.SetLocation(ctx, args[0], args[1], section); err != nil {
		return models.Reply{}, err
	}

	text := fmt.Sprintf("%s moved to cage %s", args[0], args[1])
	if section != "" {
		text += fmt.Sprintf(", section %s", section)
	}
	return models.TextReply(text + "."), nil
}

func (d *Dispatcher) setParents(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 3 {
		return usage("Usage: /setparents CHILD MOTHER FATHER")
	}
	if err := d.store.SetParents(ctx, args[0], args[1], args[2]); err != nil {
		return models.Reply{}, err
	}
	return models.TextReply(fmt.Sprintf("Parents of %s set: mother %s, father %s.", args[0], args[1], args[2])), nil
}

// setPhotoHint answers the slash-command form; the actual attachment flow is
// a photo message captioned with the rabbit's name.
func (d *Dispatcher) setPhotoHint(args []string) (models.Reply, error) {
	if len(args) > 0 {
		return models.TextReply(fmt.Sprintf("Send a photo with the caption %q to attach it.", args[0])), nil
	}
	return models.TextReply("Send a photo captioned with the rabbit's name to attach it."), nil
}

// checkPair classifies any two registered rabbits against the pedigree. It
// does not enforce doe/buck roles, so same-sex relatives can be checked too;
// the role check belongs to /breed.
func (d *Dispatcher) checkPair(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 2 {
		return usage("Usage: /checkpair NAME NAME")
	}

	first, err := d.store.RabbitByName(ctx, args[0])
	if err != nil {
		return models.Reply{}, err
	}
	second, err := d.store.RabbitByName(ctx, args[1])
	if err != nil {
		return models.Reply{}, err
	}
	verdict := analysis.AssessRelatedness(first, second, d.resolveByID(ctx))

	var icon string
	switch verdict.Band {
	case analysis.BandSafe:
		icon = "✅"
	case analysis.BandWarning:
		icon = "⚠️"
	case analysis.BandDanger:
		icon = "🚫"
	default:
		icon = "❌"
	}
	return models.TextReply(fmt.Sprintf("%s %s x %s: %s (%s)", icon, args[0], args[1], verdict.Band, verdict.Reason)), nil
}

// assessPair loads both rabbits, enforces doe/buck roles and classifies the
// pairing against the registered pedigree.
func (d *Dispatcher) assessPair(ctx context.Context, doeName, buckName string) (analysis.Assessment, *models.Rabbit, *models.Rabbit, error) {
	doe, err := d.store.RabbitByName(ctx, doeName)
	if err != nil {
		return analysis.Assessment{}, nil, nil, err
	}
	buck, err := d.store.RabbitByName(ctx, buckName)
	if err != nil {
		return analysis.Assessment{}, nil, nil, err
	}
	if doe.Sex != models.SexFemale {
		return analysis.Assessment{}, nil, nil, fmt.Errorf("%w: %s is not a doe", models.ErrSexMismatch, doe.Name)
	}
	if buck.Sex != models.SexMale {
		return analysis.Assessment{}, nil, nil, fmt.Errorf("%w: %s is not a buck", models.ErrSexMismatch, buck.Name)
	}
	return analysis.AssessRelatedness(doe, buck, d.resolveByID(ctx)), doe, buck, nil
}

// resolveByID adapts the store to the parent lookup the relatedness walk
// expects; unknown IDs resolve to nil.
func (d *Dispatcher) resolveByID(ctx context.Context) analysis.Resolver {
	return func(id uint) *models.Rabbit {
		r, err := d.store.RabbitByID(ctx, id)
		if err != nil {
			return nil
		}
		return r
	}
}

func (d *Dispatcher) markDead(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 1 {
		return usage("Usage: /markdead NAME [DATE] [REASON]")
	}

	date := d.now().Format(models.DateLayout)
	reason := ""
	rest := args[1:]
	if len(rest) > 0 {
		if _, err := analysis.ParseDate(rest[0]); err == nil {
			date = rest[0]
			rest = rest[1:]
		}
	}
	if len(rest) > 0 {
		reason = strings.Join(rest, " ")
	}

	if err := d.store.MarkDead(ctx, args[0], date, reason); err != nil {
		return models.Reply{}, err
	}
	return models.TextReply(fmt.Sprintf("%s marked dead on %s.", args[0], date)), nil
}

func (d *Dispatcher) rabbitInfo(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 1 {
		return usage("Usage: /info NAME")
	}

	rabbit, err := d.store.RabbitByName(ctx, args[0])
	if err != nil {
		return models.Reply{}, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (#%d)\n", rabbit.Name, rabbit.ID)
	sex := "doe"
	if rabbit.Sex == models.SexMale {
		sex = "buck"
	}
	fmt.Fprintf(&b, "Sex: %s, status: %s\n", sex, rabbit.Status)
	if rabbit.Cage != "" || rabbit.Section != "" {
		fmt.Fprintf(&b, "Cage: %s", rabbit.Cage)
		if rabbit.Section != "" {
			fmt.Fprintf(&b, " (section %s)", rabbit.Section)
		}
		b.WriteString("\n")
	}

	b.WriteString("Parents: ")
	b.WriteString(d.parentLine(ctx, rabbit))
	b.WriteString("\n")

	if rabbit.Sex == models.SexFemale {
		litters, kits, err := d.store.LitterStats(ctx, rabbit.ID)
		if err != nil {
			return models.Reply{}, err
		}
		fmt.Fprintf(&b, "Litters: %d, kits: %d\n", litters, kits)
		if next, err := d.store.NextDueForDoe(ctx, rabbit.ID); err == nil {
			fmt.Fprintf(&b, "Next due: %s\n", next.ExpectedDueDate)
		}
	} else {
		offspring, err := d.store.OffspringCount(ctx, rabbit.ID)
		if err != nil {
			return models.Reply{}, err
		}
		fmt.Fprintf(&b, "Registered offspring: %d\n", offspring)
	}

	weights, err := d.store.WeightLog(ctx, rabbit.ID, 1)
	if err != nil {
		return models.Reply{}, err
	}
	if len(weights) > 0 {
		fmt.Fprintf(&b, "Last weight: %.2f kg on %s\n", weights[0].WeightKg, weights[0].Date)
	}

	notes, err := d.store.HealthLog(ctx, rabbit.ID, 1)
	if err != nil {
		return models.Reply{}, err
	}
	if len(notes) > 0 {
		fmt.Fprintf(&b, "Last health note: %s (%s)\n", notes[0].Note, notes[0].Date)
	}

	if rabbit.Status == models.StatusSold {
		if sale, err := d.store.LatestSale(ctx, rabbit.ID); err == nil {
			fmt.Fprintf(&b, "Sold: %s", sale.Date)
			if sale.Price != nil {
				fmt.Fprintf(&b, " for %.2f", *sale.Price)
			}
			if sale.Buyer != "" {
				fmt.Fprintf(&b, " to %s", sale.Buyer)
			}
			b.WriteString("\n")
		}
	}

	if rabbit.Status == models.StatusDead && rabbit.DeathDate != "" {
		fmt.Fprintf(&b, "Died: %s", rabbit.DeathDate)
		if rabbit.DeathReason != "" {
			fmt.Fprintf(&b, " (%s)", rabbit.DeathReason)
		}
		b.WriteString("\n")
	}
	if rabbit.PhotoRef != "" {
		b.WriteString("📷 Photo on file\n")
	}
	return models.TextReply(strings.TrimRight(b.String(), "\n")), nil
}

func (d *Dispatcher) parentLine(ctx context.Context, rabbit *models.Rabbit) string {
	nameOf := func(id *uint) string {
		if id == nil {
			return "?"
		}
		parent, err := d.store.RabbitByID(ctx, *id)
		if err != nil {
			return "?"
		}
		return parent.Name
	}
	if rabbit.MotherID == nil && rabbit.FatherID == nil {
		return "unknown"
	}
	return fmt.Sprintf("%s x %s", nameOf(rabbit.MotherID), nameOf(rabbit.FatherID))
}
