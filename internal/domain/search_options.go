package domain

import "time"

// SearchOptions represents search criteria for log entries.
// StartTime and EndTime bound the entry's start.
type SearchOptions struct {
	StartTime  *time.Time
	EndTime    *time.Time
	CategoryID *int64
	Limit      int
}
