package sqlite

import (
	"context"
	"fmt"

	"github.com/mamadbah2/rabbitry/internal/domain/models"
)

// CreateRabbit inserts a new animal. The name is unique; a collision yields
// ErrDuplicateName.
func (r *Repository) CreateRabbit(ctx context.Context, name, sex string) (*models.Rabbit, error) {
	rabbit := &models.Rabbit{Name: name, Sex: sex, Status: models.StatusActive}
	if err := r.db.WithContext(ctx).Create(rabbit).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrDuplicateName
		}
		return nil, fmt.Errorf("create rabbit: %w", err)
	}
	return rabbit, nil
}

// RabbitByName finds an animal by exact name match.
func (r *Repository) RabbitByName(ctx context.Context, name string) (*models.Rabbit, error) {
	var rabbit models.Rabbit
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&rabbit).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &rabbit, nil
}

// RabbitByID finds an animal by row ID.
func (r *Repository) RabbitByID(ctx context.Context, id uint) (*models.Rabbit, error) {
	var rabbit models.Rabbit
	if err := r.db.WithContext(ctx).First(&rabbit, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &rabbit, nil
}

// ListRabbits returns all animals ordered alphabetically by name.
func (r *Repository) ListRabbits(ctx context.Context, activeOnly bool) ([]models.Rabbit, error) {
	q := r.db.WithContext(ctx).Order("name")
	if activeOnly {
		q = q.Where("status = ?", models.StatusActive)
	}
	var rabbits []models.Rabbit
	if err := q.Find(&rabbits).Error; err != nil {
		return nil, fmt.Errorf("list rabbits: %w", err)
	}
	return rabbits, nil
}

// SetParents assigns mother and father references on the child. All three
// names must resolve; the graph itself is not validated further.
func (r *Repository) SetParents(ctx context.Context, childName, motherName, fatherName string) error {
	child, err := r.RabbitByName(ctx, childName)
	if err != nil {
		return err
	}
	mother, err := r.RabbitByName(ctx, motherName)
	if err != nil {
		return err
	}
	father, err := r.RabbitByName(ctx, fatherName)
	if err != nil {
		return err
	}

	updates := map[string]any{"mother_id": mother.ID, "father_id": father.ID}
	if err := r.db.WithContext(ctx).Model(child).Updates(updates).Error; err != nil {
		return fmt.Errorf("set parents: %w", err)
	}
	return nil
}

// SetLocation assigns cage and section labels.
func (r *Repository) SetLocation(ctx context.Context, name, cage, section string) error {
	rabbit, err := r.RabbitByName(ctx, name)
	if err != nil {
		return err
	}
	updates := map[string]any{"cage": cage, "section": section}
	if err := r.db.WithContext(ctx).Model(rabbit).Updates(updates).Error; err != nil {
		return fmt.Errorf("set location: %w", err)
	}
	return nil
}

// SetPhoto stores the opaque attachment reference.
func (r *Repository) SetPhoto(ctx context.Context, name, photoRef string) error {
	rabbit, err := r.RabbitByName(ctx, name)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Model(rabbit).Update("photo_ref", photoRef).Error; err != nil {
		return fmt.Errorf("set photo: %w", err)
	}
	return nil
}

// MarkDead transitions the animal to dead, recording the date and reason.
func (r *Repository) MarkDead(ctx context.Context, name, date, reason string) error {
	rabbit, err := r.RabbitByName(ctx, name)
	if err != nil {
		return err
	}
	updates := map[string]any{
		"status":       models.StatusDead,
		"death_date":   date,
		"death_reason": reason,
	}
	if err := r.db.WithContext(ctx).Model(rabbit).Updates(updates).Error; err != nil {
		return fmt.Errorf("mark dead: %w", err)
	}
	return nil
}

// OffspringCount counts rabbits registered with the given animal as mother or
// father.
func (r *Repository) OffspringCount(ctx context.Context, parentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Rabbit{}).
		Where("mother_id = ? OR father_id = ?", parentID, parentID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count offspring: %w", err)
	}
	return count, nil
}

// AllRabbits returns every rabbit row in insertion order, for export.
func (r *Repository) AllRabbits(ctx context.Context) ([]models.Rabbit, error) {
	var rows []models.Rabbit
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load rabbits: %w", err)
	}
	return rows, nil
}
