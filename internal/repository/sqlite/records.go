package sqlite

import (
	"context"
	"fmt"

	"github.com/mamadbah2/rabbitry/internal/domain/models"
)

// AddHealthRecord appends a dated health note.
func (r *Repository) AddHealthRecord(ctx context.Context, rec *models.HealthRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("add health record: %w", err)
	}
	return nil
}

// HealthLog returns the rabbit's most recent health notes.
func (r *Repository) HealthLog(ctx context.Context, rabbitID uint, limit int) ([]models.HealthRecord, error) {
	var rows []models.HealthRecord
	err := r.db.WithContext(ctx).
		Where("rabbit_id = ?", rabbitID).
		Order("date DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load health log: %w", err)
	}
	return rows, nil
}

// AddWeightRecord appends a weighing.
func (r *Repository) AddWeightRecord(ctx context.Context, rec *models.WeightRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("add weight record: %w", err)
	}
	return nil
}

// WeightLog returns the rabbit's most recent weighings.
func (r *Repository) WeightLog(ctx context.Context, rabbitID uint, limit int) ([]models.WeightRecord, error) {
	var rows []models.WeightRecord
	err := r.db.WithContext(ctx).
		Where("rabbit_id = ?", rabbitID).
		Order("date DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load weight log: %w", err)
	}
	return rows, nil
}

// WeightSeries returns every weighing for the rabbit in insertion order,
// which growth analysis relies on for same-day tie-breaking.
func (r *Repository) WeightSeries(ctx context.Context, rabbitID uint) ([]models.WeightRecord, error) {
	var rows []models.WeightRecord
	err := r.db.WithContext(ctx).
		Where("rabbit_id = ?", rabbitID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load weight series: %w", err)
	}
	return rows, nil
}

// RecordSale appends the sale and flips the rabbit's status to sold. The two
// statements run in this fixed order without a wrapping transaction.
func (r *Repository) RecordSale(ctx context.Context, sale *models.Sale) error {
	if err := r.db.WithContext(ctx).Create(sale).Error; err != nil {
		return fmt.Errorf("record sale: %w", err)
	}
	err := r.db.WithContext(ctx).Model(&models.Rabbit{}).
		Where("id = ?", sale.RabbitID).
		Update("status", models.StatusSold).Error
	if err != nil {
		return fmt.Errorf("mark rabbit sold: %w", err)
	}
	return nil
}

// LatestSale returns the most recent sale for a rabbit.
func (r *Repository) LatestSale(ctx context.Context, rabbitID uint) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).
		Where("rabbit_id = ?", rabbitID).
		Order("date DESC, id DESC").
		First(&sale).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &sale, nil
}

// AddExpense appends an operating expense.
func (r *Repository) AddExpense(ctx context.Context, e *models.Expense) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("add expense: %w", err)
	}
	return nil
}

// AddFeedLog appends a feed usage entry.
func (r *Repository) AddFeedLog(ctx context.Context, f *models.FeedLog) error {
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		return fmt.Errorf("add feed log: %w", err)
	}
	return nil
}

// SumSales totals sale prices, optionally limited to a date prefix.
func (r *Repository) SumSales(ctx context.Context, periodPrefix string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Sale{}).
		Scopes(periodScope("date", periodPrefix)).
		Select("COALESCE(SUM(price), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum sales: %w", err)
	}
	return total, nil
}

// SumExpenses totals expense amounts, optionally limited to a date prefix.
func (r *Repository) SumExpenses(ctx context.Context, periodPrefix string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Expense{}).
		Scopes(periodScope("date", periodPrefix)).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum expenses: %w", err)
	}
	return total, nil
}

// FeedTotals sums feed kilograms and cost, optionally limited to a date prefix.
func (r *Repository) FeedTotals(ctx context.Context, periodPrefix string) (kg, cost float64, err error) {
	row := struct {
		Kg   float64
		Cost float64
	}{}
	err = r.db.WithContext(ctx).Model(&models.FeedLog{}).
		Scopes(periodScope("date", periodPrefix)).
		Select("COALESCE(SUM(amount_kg), 0) AS kg, COALESCE(SUM(cost), 0) AS cost").
		Scan(&row).Error
	if err != nil {
		return 0, 0, fmt.Errorf("feed totals: %w", err)
	}
	return row.Kg, row.Cost, nil
}

// FarmStats gathers the aggregate counters for /stats and achievement checks.
func (r *Repository) FarmStats(ctx context.Context) (models.FarmStats, error) {
	var stats models.FarmStats
	db := r.db.WithContext(ctx)

	counts := []func() error{
		func() error {
			return db.Model(&models.Rabbit{}).Count(&stats.TotalRabbits).Error
		},
		func() error {
			return db.Model(&models.Rabbit{}).Where("status = ?", models.StatusActive).Count(&stats.ActiveRabbits).Error
		},
		func() error {
			return db.Model(&models.Rabbit{}).Where("sex = ?", models.SexFemale).Count(&stats.Does).Error
		},
		func() error {
			return db.Model(&models.Rabbit{}).Where("sex = ?", models.SexMale).Count(&stats.Bucks).Error
		},
		func() error {
			return db.Model(&models.Breeding{}).Count(&stats.Breedings).Error
		},
		func() error {
			return db.Model(&models.Breeding{}).Where("kindling_date IS NOT NULL").Count(&stats.Litters).Error
		},
		func() error {
			return db.Model(&models.Sale{}).Count(&stats.Sales).Error
		},
	}
	for _, count := range counts {
		if err := count(); err != nil {
			return models.FarmStats{}, fmt.Errorf("farm stats: %w", err)
		}
	}

	err := db.Model(&models.Breeding{}).
		Where("litter_size IS NOT NULL").
		Select("COALESCE(SUM(litter_size), 0)").
		Scan(&stats.Kits).Error
	if err != nil {
		return models.FarmStats{}, fmt.Errorf("farm stats: %w", err)
	}

	return stats, nil
}

// AllHealthRecords returns every health row, for export.
func (r *Repository) AllHealthRecords(ctx context.Context) ([]models.HealthRecord, error) {
	var rows []models.HealthRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load health records: %w", err)
	}
	return rows, nil
}

// AllWeightRecords returns every weight row, for export.
func (r *Repository) AllWeightRecords(ctx context.Context) ([]models.WeightRecord, error) {
	var rows []models.WeightRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load weight records: %w", err)
	}
	return rows, nil
}

// AllSales returns every sale row, for export.
func (r *Repository) AllSales(ctx context.Context) ([]models.Sale, error) {
	var rows []models.Sale
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}
	return rows, nil
}

// AllExpenses returns every expense row, for export.
func (r *Repository) AllExpenses(ctx context.Context) ([]models.Expense, error) {
	var rows []models.Expense
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	return rows, nil
}

// AllFeedLogs returns every feed row, for export.
func (r *Repository) AllFeedLogs(ctx context.Context) ([]models.FeedLog, error) {
	var rows []models.FeedLog
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load feed logs: %w", err)
	}
	return rows, nil
}
