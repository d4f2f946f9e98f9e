package domain

import "time"

// LogEntry represents one tracked time interval in the domain model.
// CategoryName and CategoryColor are filled in for display and are not stored.
type LogEntry struct {
	ID              int64
	OwnerID         int64
	CategoryID      int64
	StartDateTime   time.Time
	EndDateTime     time.Time
	DurationMinutes int64
	Notes           string

	CategoryName  string
	CategoryColor string
}

// NewLogEntry creates a log entry for the interval with its duration derived.
func NewLogEntry(ownerID, categoryID int64, iv Interval, notes string) LogEntry {
	return LogEntry{
		OwnerID:         ownerID,
		CategoryID:      categoryID,
		StartDateTime:   iv.Start(),
		EndDateTime:     iv.End(),
		DurationMinutes: ComputeDurationMinutes(iv),
		Notes:           notes,
	}
}

// Reschedule moves the entry to a new interval and recomputes its duration.
func (e LogEntry) Reschedule(iv Interval) LogEntry {
	e.StartDateTime = iv.Start()
	e.EndDateTime = iv.End()
	e.DurationMinutes = ComputeDurationMinutes(iv)
	return e
}

// WithCategory attaches display details of the entry's category.
func (e LogEntry) WithCategory(c Category) LogEntry {
	e.CategoryID = c.ID
	e.CategoryName = c.Name
	e.CategoryColor = c.Color
	return e
}
