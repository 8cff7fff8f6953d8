package models

// DateLayout is the canonical calendar-date format used across all persisted
// records. Dates are stored as strings so that period filters ("2024" or
// "2024-05") reduce to prefix matches against the column value.
const DateLayout = "2006-01-02"

// Sex values stored on a rabbit row.
const (
	SexFemale = "F"
	SexMale   = "M"
)

// Rabbit lifecycle states.
const (
	StatusActive = "active"
	StatusSold   = "sold"
	StatusDead   = "dead"
)

// Rabbit is one named animal. Names are unique and matched exactly.
// Parent references are optional row IDs; the graph is not checked for
// cycles or self-parentage, the relatedness walk is depth-limited instead.
type Rabbit struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;not null"`
	Sex         string `gorm:"type:varchar(1);not null"`
	MotherID    *uint
	FatherID    *uint
	Cage        string
	Section     string
	Status      string `gorm:"default:active"`
	DeathDate   string
	DeathReason string
	PhotoRef    string // opaque attachment reference (Telegram file ID)
}

// Breeding is one mating event for a doe. The record is "open" until a
// kindling date is set.
type Breeding struct {
	ID              uint   `gorm:"primaryKey"`
	DoeID           uint   `gorm:"index;not null"`
	BuckID          uint   `gorm:"index;not null"`
	MatingDate      string `gorm:"not null"`
	ExpectedDueDate string `gorm:"index;not null"`
	KindlingDate    *string
	LitterSize      *int
	WeaningDate     *string `gorm:"index"`
	LitterName      string
}

// Open reports whether no kindling has been recorded yet.
func (b *Breeding) Open() bool { return b.KindlingDate == nil }

// HealthRecord is an append-only dated note for a rabbit.
type HealthRecord struct {
	ID       uint   `gorm:"primaryKey"`
	RabbitID uint   `gorm:"index;not null"`
	Date     string `gorm:"not null"`
	Note     string `gorm:"not null"`
}

// WeightRecord is an append-only weighing for a rabbit, in kilograms.
type WeightRecord struct {
	ID       uint   `gorm:"primaryKey"`
	RabbitID uint   `gorm:"index;not null"`
	Date     string `gorm:"not null"`
	WeightKg float64
}

// Sale is an append-only sale record. Recording one also flips the rabbit's
// status to sold.
type Sale struct {
	ID       uint   `gorm:"primaryKey"`
	RabbitID uint   `gorm:"index;not null"`
	Date     string `gorm:"not null"`
	Price    *float64
	Buyer    string
}

// Expense is an append-only operating expense.
type Expense struct {
	ID       uint   `gorm:"primaryKey"`
	Date     string `gorm:"index;not null"`
	Category string `gorm:"not null"`
	Amount   float64
	Note     string
}

// FeedLog is an append-only feed usage entry.
type FeedLog struct {
	ID       uint   `gorm:"primaryKey"`
	Date     string `gorm:"index;not null"`
	AmountKg float64
	Cost     *float64
	Note     string
}

// Task is a dated reminder.
type Task struct {
	ID    uint   `gorm:"primaryKey"`
	Date  string `gorm:"index;not null"`
	Title string `gorm:"not null"`
	Note  string
	Done  bool `gorm:"default:false"`
}

// Setting is a key/value row with upsert semantics.
type Setting struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

// Setting keys in use.
const SettingLastTemperature = "last_temperature"

// Achievement records the first time a milestone was reached. The key is
// unique, so re-unlocking is a no-op.
type Achievement struct {
	Key        string `gorm:"primaryKey"`
	UnlockedAt string `gorm:"not null"`
}

// Subscriber is a chat that receives the daily digest.
type Subscriber struct {
	ChatID    int64  `gorm:"primaryKey"`
	CreatedAt string `gorm:"not null"`
}

// FarmStats bundles the aggregate counters shown by /stats and consumed by
// achievement evaluation.
type FarmStats struct {
	TotalRabbits  int64
	ActiveRabbits int64
	Does          int64
	Bucks         int64
	Breedings     int64
	Litters       int64
	Kits          int64
	Sales         int64
}
