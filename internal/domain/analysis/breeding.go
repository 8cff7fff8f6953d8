// Package analysis holds the pure domain computations: breeding-cycle date
// arithmetic, relatedness classification, growth estimation, pair scoring,
// achievement thresholds and climate banding. Nothing here touches storage;
// callers fetch rows and pass them in.
package analysis

import (
	"fmt"
	"time"

	"github.com/mamadbah2/rabbitry/internal/domain/models"
)

// Fixed breeding-cycle periods, in days.
const (
	GestationDays = 31
	WeaningDays   = 35
)

// DueDate returns matingDate + the gestation period.
func DueDate(matingDate string) (string, error) {
	return shiftDate(matingDate, GestationDays)
}

// WeaningDate returns kindlingDate + the weaning period.
func WeaningDate(kindlingDate string) (string, error) {
	return shiftDate(kindlingDate, WeaningDays)
}

func shiftDate(day string, days int) (string, error) {
	t, err := ParseDate(day)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, days).Format(models.DateLayout), nil
}

// ParseDate parses a stored calendar date, mapping failures to ErrInvalidInput.
func ParseDate(day string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", models.ErrInvalidInput, day)
	}
	return t, nil
}
