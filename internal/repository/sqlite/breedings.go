package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mamadbah2/rabbitry/internal/domain/models"
)

// CreateBreeding inserts a new mating record.
func (r *Repository) CreateBreeding(ctx context.Context, b *models.Breeding) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("create breeding: %w", err)
	}
	return nil
}

// LatestOpenBreeding returns the doe's most recent breeding without a
// kindling date, or ErrNoOpenBreeding.
func (r *Repository) LatestOpenBreeding(ctx context.Context, doeID uint) (*models.Breeding, error) {
	var b models.Breeding
	err := r.db.WithContext(ctx).
		Where("doe_id = ? AND kindling_date IS NULL", doeID).
		Order("mating_date DESC, id DESC").
		First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNoOpenBreeding
		}
		return nil, fmt.Errorf("find open breeding: %w", err)
	}
	return &b, nil
}

// CloseBreeding records the kindling outcome on an open breeding.
func (r *Repository) CloseBreeding(ctx context.Context, breedingID uint, kindlingDate string, litterSize int, weaningDate, litterName string) error {
	updates := map[string]any{
		"kindling_date": kindlingDate,
		"litter_size":   litterSize,
		"weaning_date":  weaningDate,
	}
	if litterName != "" {
		updates["litter_name"] = litterName
	}
	err := r.db.WithContext(ctx).Model(&models.Breeding{}).
		Where("id = ?", breedingID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("close breeding: %w", err)
	}
	return nil
}

// LatestClosedBreeding returns the doe's most recently kindled breeding.
func (r *Repository) LatestClosedBreeding(ctx context.Context, doeID uint) (*models.Breeding, error) {
	var b models.Breeding
	err := r.db.WithContext(ctx).
		Where("doe_id = ? AND kindling_date IS NOT NULL", doeID).
		Order("kindling_date DESC, mating_date DESC, id DESC").
		First(&b).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &b, nil
}

// RenameLitter sets the litter name on a breeding.
func (r *Repository) RenameLitter(ctx context.Context, breedingID uint, litterName string) error {
	err := r.db.WithContext(ctx).Model(&models.Breeding{}).
		Where("id = ?", breedingID).
		Update("litter_name", litterName).Error
	if err != nil {
		return fmt.Errorf("rename litter: %w", err)
	}
	return nil
}

// NextDueForDoe returns the earliest-due open breeding for the doe.
func (r *Repository) NextDueForDoe(ctx context.Context, doeID uint) (*models.Breeding, error) {
	var b models.Breeding
	err := r.db.WithContext(ctx).
		Where("doe_id = ? AND kindling_date IS NULL", doeID).
		Order("expected_due_date ASC").
		First(&b).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &b, nil
}

// ClosedBreedingsForDoe lists the doe's litter history, newest kindling first.
func (r *Repository) ClosedBreedingsForDoe(ctx context.Context, doeID uint) ([]models.Breeding, error) {
	var rows []models.Breeding
	err := r.db.WithContext(ctx).
		Where("doe_id = ? AND kindling_date IS NOT NULL", doeID).
		Order("kindling_date DESC, mating_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list litters: %w", err)
	}
	return rows, nil
}

// LitterStats returns the doe's litter count and total recorded kits.
func (r *Repository) LitterStats(ctx context.Context, doeID uint) (litters, kits int64, err error) {
	row := struct {
		Litters int64
		Kits    int64
	}{}
	err = r.db.WithContext(ctx).Model(&models.Breeding{}).
		Select("COUNT(*) AS litters, COALESCE(SUM(litter_size), 0) AS kits").
		Where("doe_id = ? AND kindling_date IS NOT NULL", doeID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, fmt.Errorf("litter stats: %w", err)
	}
	return row.Litters, row.Kits, nil
}

// DoeNamesDueOn lists does whose expected due date matches the given day
// exactly, across open and closed breedings.
func (r *Repository) DoeNamesDueOn(ctx context.Context, date string) ([]string, error) {
	return r.doeNamesByBreedingDate(ctx, "expected_due_date", date)
}

// DoeNamesWeaningOn lists does whose weaning date matches the given day.
func (r *Repository) DoeNamesWeaningOn(ctx context.Context, date string) ([]string, error) {
	return r.doeNamesByBreedingDate(ctx, "weaning_date", date)
}

func (r *Repository) doeNamesByBreedingDate(ctx context.Context, column, date string) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&models.Breeding{}).
		Joins("JOIN rabbits ON rabbits.id = breedings.doe_id").
		Where("breedings."+column+" = ?", date).
		Order("breedings.id").
		Pluck("rabbits.name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("list does by %s: %w", column, err)
	}
	return names, nil
}

// AllBreedings returns every breeding row in insertion order, for export.
func (r *Repository) AllBreedings(ctx context.Context) ([]models.Breeding, error) {
	var rows []models.Breeding
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load breedings: %w", err)
	}
	return rows, nil
}
