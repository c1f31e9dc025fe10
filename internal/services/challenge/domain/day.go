package domain

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// DayFormat is the canonical calendar day layout used for Day keys.
const DayFormat = "2006-01-02"

var (
	easternOnce sync.Once
	eastern     *time.Location
)

// businessZone returns the Eastern-time zone used for day boundaries.
// Falls back to UTC when tzdata is unavailable on the host.
func businessZone() *time.Location {
	easternOnce.Do(func() {
		loc, err := time.LoadLocation("America/New_York")
		if err != nil {
			log.Printf("load America/New_York: %v; day boundaries fall back to UTC", err)
			loc = time.UTC
		}
		eastern = loc
	})
	return eastern
}

// DayKey returns the business-day key for the given instant.
func DayKey(at time.Time) string {
	return at.In(businessZone()).Format(DayFormat)
}

// ShiftDay returns the day key offset by the given number of calendar days.
func ShiftDay(day string, days int) (string, error) {
	parsed, err := time.ParseInLocation(DayFormat, day, businessZone())
	if err != nil {
		return "", fmt.Errorf("parse day %q: %w", day, err)
	}
	return parsed.AddDate(0, 0, days).Format(DayFormat), nil
}

// ValidDay reports whether day is a well-formed day key.
func ValidDay(day string) bool {
	_, err := time.Parse(DayFormat, day)
	return err == nil
}

// NextRollover returns the next business-day boundary strictly after at.
func NextRollover(at time.Time) time.Time {
	local := at.In(businessZone())
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, businessZone())
	return midnight.AddDate(0, 0, 1)
}
