package sqlite

import "time"

// Category is a row of the categories table.
// ParentID is nil for roots.
type Category struct {
	ID          int64  `gorm:"primaryKey"`
	OwnerID     int64  `gorm:"not null;index"`
	ParentID    *int64 `gorm:"index"`
	Name        string `gorm:"not null"`
	Color       string `gorm:"not null"`
	IsTask      bool
	IsCompleted bool
	Rating      int
	Deadline    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName pins the table created by the migrations.
func (Category) TableName() string {
	return "categories"
}

// LogEntry is a row of the log_entries table
type LogEntry struct {
	ID              int64 `gorm:"primaryKey"`
	OwnerID         int64 `gorm:"not null;index"`
	CategoryID      int64 `gorm:"not null;index"`
	StartDateTime   time.Time
	EndDateTime     time.Time
	DurationMinutes int64
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName pins the table created by the migrations.
func (LogEntry) TableName() string {
	return "log_entries"
}
