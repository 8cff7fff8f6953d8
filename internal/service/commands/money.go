package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mamadbah2/rabbitry/internal/domain/models"
	"github.com/mamadbah2/rabbitry/internal/repository/sheets"
)

func (d *Dispatcher) sell(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 1 {
		return usage("Usage: /sell NAME [PRICE] [BUYER]")
	}

	var price *float64
	buyer := ""
	rest := args[1:]
	if len(rest) > 0 {
		if p, err := strconv.ParseFloat(rest[0], 64); err == nil {
			price = &p
			rest = rest[1:]
		}
	}
	if len(rest) > 0 {
		buyer = strings.Join(rest, " ")
	}

	rabbit, err := d.store.RabbitByName(ctx, args[0])
	if err != nil {
		return models.Reply{}, err
	}

	sale := &models.Sale{
		RabbitID: rabbit.ID,
		Date:     d.now().Format(models.DateLayout),
		Price:    price,
		Buyer:    buyer,
	}
	if err := d.store.RecordSale(ctx, sale); err != nil {
		return models.Reply{}, err
	}

	priceCell := ""
	text := fmt.Sprintf("%s sold", rabbit.Name)
	if price != nil {
		text += fmt.Sprintf(" for %.2f", *price)
		priceCell = strconv.FormatFloat(*price, 'f', 2, 64)
	}
	if buyer != "" {
		text += fmt.Sprintf(" to %s", buyer)
	}
	text += "."

	d.mirrorRow(ctx, sheets.SalesRange, []interface{}{sale.Date, rabbit.Name, priceCell, buyer})
	return models.TextReply(d.appendUnlocks(ctx, text)), nil
}

func (d *Dispatcher) expense(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 2 {
		return usage("Usage: /expense CATEGORY AMOUNT [NOTE]")
	}

	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil || amount < 0 {
		return models.Reply{}, fmt.Errorf("%w: amount must be a non-negative number, got %q", models.ErrInvalidInput, args[1])
	}

	note := ""
	if len(args) > 2 {
		note = strings.Join(args[2:], " ")
	}
	return d.recordExpense(ctx, strings.ToLower(args[0]), amount, note)
}

// electric is a shorthand for the recurring electricity expense.
func (d *Dispatcher) electric(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 1 {
		return usage("Usage: /electric AMOUNT")
	}
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil || amount < 0 {
		return models.Reply{}, fmt.Errorf("%w: amount must be a non-negative number, got %q", models.ErrInvalidInput, args[0])
	}
	return d.recordExpense(ctx, "electricity", amount, "")
}

func (d *Dispatcher) recordExpense(ctx context.Context, category string, amount float64, note string) (models.Reply, error) {
	expense := &models.Expense{
		Date:     d.now().Format(models.DateLayout),
		Category: category,
		Amount:   amount,
		Note:     note,
	}
	if err := d.store.AddExpense(ctx, expense); err != nil {
		return models.Reply{}, err
	}

	d.mirrorRow(ctx, sheets.ExpensesRange, []interface{}{expense.Date, category, strconv.FormatFloat(amount, 'f', 2, 64), note})
	return models.TextReply(d.appendUnlocks(ctx, fmt.Sprintf("Expense recorded: %s %.2f.", category, amount))), nil
}

func (d *Dispatcher) feed(ctx context.Context, args []string) (models.Reply, error) {
	if len(args) < 1 {
		return usage("Usage: /feed KG [COST] [NOTE]")
	}

	kg, err := strconv.ParseFloat(args[0], 64)
	if err != nil || kg <= 0 {
		return models.Reply{}, fmt.Errorf("%w: feed amount must be a positive number of kilograms, got %q", models.ErrInvalidInput, args[0])
	}

	var cost *float64
	note := ""
	rest := args[1:]
	if len(rest) > 0 {
		if c, err := strconv.ParseFloat(rest[0], 64); err == nil {
			cost = &c
			rest = rest[1:]
		}
	}
	if len(rest) > 0 {
		note = strings.Join(rest, " ")
	}

	entry := &models.FeedLog{
		Date:     d.now().Format(models.DateLayout),
		AmountKg: kg,
		Cost:     cost,
		Note:     note,
	}
	if err := d.store.AddFeedLog(ctx, entry); err != nil {
		return models.Reply{}, err
	}

	costCell := ""
	text := fmt.Sprintf("Logged %.1f kg of feed", kg)
	if cost != nil {
		text += fmt.Sprintf(" for %.2f", *cost)
		costCell = strconv.FormatFloat(*cost, 'f', 2, 64)
	}
	text += "."

	d.mirrorRow(ctx, sheets.FeedRange, []interface{}{entry.Date, strconv.FormatFloat(kg, 'f', 1, 64), costCell, note})
	return models.TextReply(d.appendUnlocks(ctx, text)), nil
}

func (d *Dispatcher) profit(ctx context.Context, cmd models.Command) (models.Reply, error) {
	text, err := d.reports.ProfitSummary(ctx, periodArg(cmd))
	if err != nil {
		return models.Reply{}, err
	}
	return models.TextReply(text), nil
}

func (d *Dispatcher) feedStats(ctx context.Context, cmd models.Command) (models.Reply, error) {
	text, err := d.reports.FeedSummary(ctx, periodArg(cmd))
	if err != nil {
		return models.Reply{}, err
	}
	return models.TextReply(text), nil
}

// periodArg extracts the period selector. The month/year command aliases
// imply a period; an explicit argument wins over the alias.
func periodArg(cmd models.Command) string {
	if len(cmd.Args) > 0 {
		return cmd.Args[0]
	}

	head := ""
	if fields := strings.Fields(cmd.Raw); len(fields) > 0 {
		head = strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	}
	if at := strings.IndexByte(head, '@'); at >= 0 {
		head = head[:at]
	}
	switch head {
	case "profitmonth", "feedmonth":
		return "month"
	case "profityear":
		return "year"
	default:
		return ""
	}
}
