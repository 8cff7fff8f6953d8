// Package sqlite persists all farm records in a single local database file.
//
// Concurrent writers are not arbitrated beyond sqlite's own locking; usage is
// single-operator and human-paced, so last write wins on the same row.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mamadbah2/rabbitry/internal/domain/models"
)

// Store defines the persistence operations the services depend on.
type Store interface {
	// Rabbits
	CreateRabbit(ctx context.Context, name, sex string) (*models.Rabbit, error)
	RabbitByName(ctx context.Context, name string) (*models.Rabbit, error)
	RabbitByID(ctx context.Context, id uint) (*models.Rabbit, error)
	ListRabbits(ctx context.Context, activeOnly bool) ([]models.Rabbit, error)
	SetParents(ctx context.Context, childName, motherName, fatherName string) error
	SetLocation(ctx context.Context, name, cage, section string) error
	SetPhoto(ctx context.Context, name, photoRef string) error
	MarkDead(ctx context.Context, name, date, reason string) error
	OffspringCount(ctx context.Context, parentID uint) (int64, error)

	// Breedings
	CreateBreeding(ctx context.Context, b *models.Breeding) error
	LatestOpenBreeding(ctx context.Context, doeID uint) (*models.Breeding, error)
	CloseBreeding(ctx context.Context, breedingID uint, kindlingDate string, litterSize int, weaningDate, litterName string) error
	LatestClosedBreeding(ctx context.Context, doeID uint) (*models.Breeding, error)
	RenameLitter(ctx context.Context, breedingID uint, litterName string) error
	NextDueForDoe(ctx context.Context, doeID uint) (*models.Breeding, error)
	ClosedBreedingsForDoe(ctx context.Context, doeID uint) ([]models.Breeding, error)
	LitterStats(ctx context.Context, doeID uint) (litters, kits int64, err error)
	DoeNamesDueOn(ctx context.Context, date string) ([]string, error)
	DoeNamesWeaningOn(ctx context.Context, date string) ([]string, error)

	// Append-only records
	AddHealthRecord(ctx context.Context, rec *models.HealthRecord) error
	HealthLog(ctx context.Context, rabbitID uint, limit int) ([]models.HealthRecord, error)
	AddWeightRecord(ctx context.Context, rec *models.WeightRecord) error
	WeightLog(ctx context.Context, rabbitID uint, limit int) ([]models.WeightRecord, error)
	WeightSeries(ctx context.Context, rabbitID uint) ([]models.WeightRecord, error)
	RecordSale(ctx context.Context, sale *models.Sale) error
	LatestSale(ctx context.Context, rabbitID uint) (*models.Sale, error)
	AddExpense(ctx context.Context, e *models.Expense) error
	AddFeedLog(ctx context.Context, f *models.FeedLog) error

	// Aggregations
	SumSales(ctx context.Context, periodPrefix string) (float64, error)
	SumExpenses(ctx context.Context, periodPrefix string) (float64, error)
	FeedTotals(ctx context.Context, periodPrefix string) (kg, cost float64, err error)
	FarmStats(ctx context.Context) (models.FarmStats, error)

	// Tasks
	AddTask(ctx context.Context, t *models.Task) error
	TasksOn(ctx context.Context, date string) ([]models.Task, error)
	UpcomingTasks(ctx context.Context, from string, limit int) ([]models.Task, error)
	MarkTaskDone(ctx context.Context, id uint) (bool, error)

	// Settings, achievements, subscriptions
	UpsertSetting(ctx context.Context, key, value string) error
	Setting(ctx context.Context, key string) (string, error)
	UnlockAchievement(ctx context.Context, key, date string) (bool, error)
	Achievements(ctx context.Context) ([]models.Achievement, error)
	Subscribe(ctx context.Context, chatID int64, date string) (bool, error)
	Unsubscribe(ctx context.Context, chatID int64) (bool, error)
	Subscribers(ctx context.Context) ([]int64, error)

	// Export support
	AllRabbits(ctx context.Context) ([]models.Rabbit, error)
	AllBreedings(ctx context.Context) ([]models.Breeding, error)
	AllHealthRecords(ctx context.Context) ([]models.HealthRecord, error)
	AllWeightRecords(ctx context.Context) ([]models.WeightRecord, error)
	AllSales(ctx context.Context) ([]models.Sale, error)
	AllExpenses(ctx context.Context) ([]models.Expense, error)
	AllFeedLogs(ctx context.Context) ([]models.FeedLog, error)
	AllTasks(ctx context.Context) ([]models.Task, error)

	// Path returns the database file location, used by the raw backup export.
	Path() string
}

// Repository is the GORM-backed implementation of Store.
type Repository struct {
	db     *gorm.DB
	path   string
	logger *zap.Logger
}

// New opens (creating if needed) the database file and migrates the schema.
func New(path string, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %s: %w", path, err)
	}

	if err := db.AutoMigrate(
		&models.Rabbit{},
		&models.Breeding{},
		&models.HealthRecord{},
		&models.WeightRecord{},
		&models.Sale{},
		&models.Expense{},
		&models.FeedLog{},
		&models.Task{},
		&models.Setting{},
		&models.Achievement{},
		&models.Subscriber{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	logger.Info("database ready", zap.String("path", path))
	return &Repository{db: db, path: path, logger: logger}, nil
}

// Path returns the database file location.
func (r *Repository) Path() string { return r.path }

// Close releases the underlying connection pool.
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// mapNotFound converts GORM's miss into the domain sentinel.
func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return err
}

// isUniqueViolation detects sqlite unique-constraint failures.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// periodScope applies a date prefix filter; an empty prefix filters nothing.
func periodScope(column, prefix string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if prefix == "" {
			return db
		}
		return db.Where(column+" LIKE ?", prefix+"%")
	}
}
