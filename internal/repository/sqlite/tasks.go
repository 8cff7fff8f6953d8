package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mamadbah2/rabbitry/internal/domain/models"
)

// AddTask inserts a reminder.
func (r *Repository) AddTask(ctx context.Context, t *models.Task) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("add task: %w", err)
	}
	return nil
}

// TasksOn lists not-done tasks for an exact date.
func (r *Repository) TasksOn(ctx context.Context, date string) ([]models.Task, error) {
	var rows []models.Task
	err := r.db.WithContext(ctx).
		Where("date = ? AND done = ?", date, false).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	return rows, nil
}

// UpcomingTasks lists not-done tasks dated today or later, ordered by date
// then ID.
func (r *Repository) UpcomingTasks(ctx context.Context, from string, limit int) ([]models.Task, error) {
	var rows []models.Task
	err := r.db.WithContext(ctx).
		Where("date >= ? AND done = ?", from, false).
		Order("date, id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load upcoming tasks: %w", err)
	}
	return rows, nil
}

// MarkTaskDone flags a task as completed; the bool reports whether a row
// actually changed.
func (r *Repository) MarkTaskDone(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ?", id).
		Update("done", true)
	if res.Error != nil {
		return false, fmt.Errorf("mark task done: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// AllTasks returns every task row, for export.
func (r *Repository) AllTasks(ctx context.Context) ([]models.Task, error) {
	var rows []models.Task
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	return rows, nil
}

// UpsertSetting writes a key/value pair, overwriting any existing value.
func (r *Repository) UpsertSetting(ctx context.Context, key, value string) error {
	setting := models.Setting{Key: key, Value: value}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&setting).Error
	if err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}

// Setting reads a value by key, or ErrNotFound.
func (r *Repository) Setting(ctx context.Context, key string) (string, error) {
	var setting models.Setting
	if err := r.db.WithContext(ctx).First(&setting, "key = ?", key).Error; err != nil {
		return "", mapNotFound(err)
	}
	return setting.Value, nil
}

// UnlockAchievement records the first unlock of a milestone. Returns true
// when the row was newly created; re-unlocking keeps the original date.
func (r *Repository) UnlockAchievement(ctx context.Context, key, date string) (bool, error) {
	achievement := models.Achievement{Key: key, UnlockedAt: date}
	err := r.db.WithContext(ctx).Create(&achievement).Error
	if err != nil {
		if isUniqueViolation(err) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("unlock achievement %s: %w", key, err)
	}
	return true, nil
}

// Achievements lists all unlocked milestones, oldest first.
func (r *Repository) Achievements(ctx context.Context) ([]models.Achievement, error) {
	var rows []models.Achievement
	err := r.db.WithContext(ctx).Order("unlocked_at, key").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}
	return rows, nil
}

// Subscribe registers a chat for the daily digest. Returns false when the
// chat was already subscribed.
func (r *Repository) Subscribe(ctx context.Context, chatID int64, date string) (bool, error) {
	sub := models.Subscriber{ChatID: chatID, CreatedAt: date}
	err := r.db.WithContext(ctx).Create(&sub).Error
	if err != nil {
		if isUniqueViolation(err) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("subscribe chat %d: %w", chatID, err)
	}
	return true, nil
}

// Unsubscribe removes a chat from the digest list. Returns false when the
// chat was not subscribed.
func (r *Repository) Unsubscribe(ctx context.Context, chatID int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Subscriber{}, "chat_id = ?", chatID)
	if res.Error != nil {
		return false, fmt.Errorf("unsubscribe chat %d: %w", chatID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Subscribers lists every digest destination.
func (r *Repository) Subscribers(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&models.Subscriber{}).
		Order("chat_id").
		Pluck("chat_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("load subscribers: %w", err)
	}
	return ids, nil
}
