package domain

import (
	"sundial/internal/repository/sqlite"
)

// CategoryMapper handles conversion between domain and database Category models.
type CategoryMapper struct{}

// NewCategoryMapper creates a new CategoryMapper instance.
func NewCategoryMapper() *CategoryMapper {
	return &CategoryMapper{}
}

// ToDatabase converts a domain Category to a database Category.
func (m *CategoryMapper) ToDatabase(c Category) sqlite.Category {
	return sqlite.Category{
		ID:          c.ID,
		OwnerID:     c.OwnerID,
		ParentID:    c.ParentID,
		Name:        c.Name,
		Color:       c.Color,
		IsTask:      c.IsTask,
		IsCompleted: c.IsCompleted,
		Rating:      c.Rating,
		Deadline:    c.Deadline,
	}
}

// FromDatabase converts a database Category to a domain Category.
func (m *CategoryMapper) FromDatabase(c sqlite.Category) Category {
	return Category{
		ID:          c.ID,
		OwnerID:     c.OwnerID,
		ParentID:    c.ParentID,
		Name:        c.Name,
		Color:       c.Color,
		IsTask:      c.IsTask,
		IsCompleted: c.IsCompleted,
		Rating:      c.Rating,
		Deadline:    c.Deadline,
	}
}

// FromDatabaseSlice converts a slice of database Categories to domain Categories.
func (m *CategoryMapper) FromDatabaseSlice(rows []*sqlite.Category) []Category {
	categories := make([]Category, len(rows))
	for i, row := range rows {
		categories[i] = m.FromDatabase(*row)
	}
	return categories
}

// LogEntryMapper handles conversion between domain and database LogEntry models.
type LogEntryMapper struct{}

// NewLogEntryMapper creates a new LogEntryMapper instance.
func NewLogEntryMapper() *LogEntryMapper {
	return &LogEntryMapper{}
}

// ToDatabase converts a domain LogEntry to a database LogEntry.
// Display-only category details are dropped.
func (m *LogEntryMapper) ToDatabase(e LogEntry) sqlite.LogEntry {
	return sqlite.LogEntry{
		ID:              e.ID,
		OwnerID:         e.OwnerID,
		CategoryID:      e.CategoryID,
		StartDateTime:   e.StartDateTime,
		EndDateTime:     e.EndDateTime,
		DurationMinutes: e.DurationMinutes,
		Notes:           e.Notes,
	}
}

// FromDatabase converts a database LogEntry to a domain LogEntry.
// Timestamps come back in UTC.
func (m *LogEntryMapper) FromDatabase(e sqlite.LogEntry) LogEntry {
	return LogEntry{
		ID:              e.ID,
		OwnerID:         e.OwnerID,
		CategoryID:      e.CategoryID,
		StartDateTime:   e.StartDateTime.UTC(),
		EndDateTime:     e.EndDateTime.UTC(),
		DurationMinutes: e.DurationMinutes,
		Notes:           e.Notes,
	}
}

// SearchOptionsMapper handles conversion between domain and database SearchOptions.
type SearchOptionsMapper struct{}

// NewSearchOptionsMapper creates a new SearchOptionsMapper instance.
func NewSearchOptionsMapper() *SearchOptionsMapper {
	return &SearchOptionsMapper{}
}

// ToDatabase converts domain SearchOptions to database SearchOptions.
func (m *SearchOptionsMapper) ToDatabase(opts SearchOptions) sqlite.SearchOptions {
	return sqlite.SearchOptions{
		StartTime:  opts.StartTime,
		EndTime:    opts.EndTime,
		CategoryID: opts.CategoryID,
		Limit:      opts.Limit,
	}
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Category      *CategoryMapper
	LogEntry      *LogEntryMapper
	SearchOptions *SearchOptionsMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Category:      NewCategoryMapper(),
		LogEntry:      NewLogEntryMapper(),
		SearchOptions: NewSearchOptionsMapper(),
	}
}
