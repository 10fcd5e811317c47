package repository

import (
	"fmt"
	"time"
)

// ParseTime parses a date column. The SQLite driver hands DATE columns back
// either as "2006-01-02" text or as an RFC3339 timestamp.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse("2006-01-02", str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}
