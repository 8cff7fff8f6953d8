// Package export serializes entity tables to CSV files and exposes the raw
// database file for backup transfer.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/mamadbah2/rabbitry/internal/domain/models"
	"github.com/mamadbah2/rabbitry/internal/repository/sqlite"
)

// Exporter writes one CSV file per entity table into a working directory.
type Exporter struct {
	store  sqlite.Store
	dir    string
	logger *zap.Logger
}

// NewExporter wires an exporter over the store.
func NewExporter(store sqlite.Store, dir string, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{store: store, dir: dir, logger: logger}
}

// Tables lists the exportable table names in a fixed order.
func Tables() []string {
	return []string{"rabbits", "breedings", "health", "weights", "sales", "expenses", "feed", "tasks"}
}

// Table serializes one entity table to a CSV file and returns its path.
// Unknown table names yield ErrInvalidInput.
func (e *Exporter) Table(ctx context.Context, table string) (string, error) {
	var (
		header []string
		rows   [][]string
		err    error
	)

	switch table {
	case "rabbits":
		header, rows, err = e.rabbitRows(ctx)
	case "breedings":
		header, rows, err = e.breedingRows(ctx)
	case "health":
		header, rows, err = e.healthRows(ctx)
	case "weights":
		header, rows, err = e.weightRows(ctx)
	case "sales":
		header, rows, err = e.saleRows(ctx)
	case "expenses":
		header, rows, err = e.expenseRows(ctx)
	case "feed":
		header, rows, err = e.feedRows(ctx)
	case "tasks":
		header, rows, err = e.taskRows(ctx)
	default:
		return "", fmt.Errorf("%w: unknown table %q", models.ErrInvalidInput, table)
	}
	if err != nil {
		return "", err
	}

	path := filepath.Join(e.dir, table+".csv")
	if err := writeCSV(path, header, rows); err != nil {
		return "", err
	}

	e.logger.Info("table exported", zap.String("table", table), zap.Int("rows", len(rows)))
	return path, nil
}

// Backup returns the location of the raw database file.
func (e *Exporter) Backup() string {
	return e.store.Path()
}

func (e *Exporter) rabbitRows(ctx context.Context) ([]string, [][]string, error) {
	records, err := e.store.AllRabbits(ctx)
	if err != nil {
		return nil, nil, err
	}
	header := []string{"id", "name", "sex", "mother_id", "father_id", "cage", "section", "status", "death_date", "death_reason", "photo_ref"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			formatID(r.ID), r.Name, r.Sex, formatIDPtr(r.MotherID), formatIDPtr(r.FatherID),
			r.Cage, r.Section, r.Status, r.DeathDate, r.DeathReason, r.PhotoRef,
		})
	}
	return header, rows, nil
}

func (e *Exporter) breedingRows(ctx context.Context) ([]string, [][]string, error) {
	records, err := e.store.AllBreedings(ctx)
	if err != nil {
		return nil, nil, err
	}
	header := []string{"id", "doe_id", "buck_id", "mating_date", "expected_due_date", "kindling_date", "litter_size", "weaning_date", "litter_name"}
	rows := make([][]string, 0, len(records))
	for _, b := range records {
		rows = append(rows, []string{
			formatID(b.ID), formatID(b.DoeID), formatID(b.BuckID), b.MatingDate, b.ExpectedDueDate,
			formatStringPtr(b.KindlingDate), formatIntPtr(b.LitterSize), formatStringPtr(b.WeaningDate), b.LitterName,
		})
	}
	return header, rows, nil
}

func (e *Exporter) healthRows(ctx context.Context) ([]string, [][]string, error) {
	records, err := e.store.AllHealthRecords(ctx)
	if err != nil {
		return nil, nil, err
	}
	header := []string{"id", "rabbit_id", "date", "note"}
	rows := make([][]string, 0, len(records))
	for _, h := range records {
		rows = append(rows, []string{formatID(h.ID), formatID(h.RabbitID), h.Date, h.Note})
	}
	return header, rows, nil
}

func (e *Exporter) weightRows(ctx context.Context) ([]string, [][]string, error) {
	records, err := e.store.AllWeightRecords(ctx)
	if err != nil {
		return nil, nil, err
	}
	header := []string{"id", "rabbit_id", "date", "weight_kg"}
	rows := make([][]string, 0, len(records))
	for _, w := range records {
		rows = append(rows, []string{formatID(w.ID), formatID(w.RabbitID), w.Date, formatFloat(w.WeightKg)})
	}
	return header, rows, nil
}

func (e *Exporter) saleRows(ctx context.Context) ([]string, [][]string, error) {
	records, err := e.store.AllSales(ctx)
	if err != nil {
		return nil, nil, err
	}
	header := []string{"id", "rabbit_id", "date", "price", "buyer"}
	rows := make([][]string, 0, len(records))
	for _, s := range records {
		rows = append(rows, []string{formatID(s.ID), formatID(s.RabbitID), s.Date, formatFloatPtr(s.Price), s.Buyer})
	}
	return header, rows, nil
}

func (e *Exporter) expenseRows(ctx context.Context) ([]string, [][]string, error) {
	records, err := e.store.AllExpenses(ctx)
	if err != nil {
		return nil, nil, err
	}
	header := []string{"id", "date", "category", "amount", "note"}
	rows := make([][]string, 0, len(records))
	for _, ex := range records {
		rows = append(rows, []string{formatID(ex.ID), ex.Date, ex.Category, formatFloat(ex.Amount), ex.Note})
	}
	return header, rows, nil
}

func (e *Exporter) feedRows(ctx context.Context) ([]string, [][]string, error) {
	records, err := e.store.AllFeedLogs(ctx)
	if err != nil {
		return nil, nil, err
	}
	header := []string{"id", "date", "amount_kg", "cost", "note"}
	rows := make([][]string, 0, len(records))
	for _, f := range records {
		rows = append(rows, []string{formatID(f.ID), f.Date, formatFloat(f.AmountKg), formatFloatPtr(f.Cost), f.Note})
	}
	return header, rows, nil
}

func (e *Exporter) taskRows(ctx context.Context) ([]string, [][]string, error) {
	records, err := e.store.AllTasks(ctx)
	if err != nil {
		return nil, nil, err
	}
	header := []string{"id", "date", "title", "note", "done"}
	rows := make([][]string, 0, len(records))
	for _, t := range records {
		rows = append(rows, []string{formatID(t.ID), t.Date, t.Title, t.Note, strconv.FormatBool(t.Done)})
	}
	return header, rows, nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func formatID(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func formatIDPtr(id *uint) string {
	if id == nil {
		return ""
	}
	return formatID(*id)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatStringPtr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
