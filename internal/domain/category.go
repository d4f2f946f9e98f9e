package domain

import "time"

const (
	// RootCategoryName names the fallback category every user owns
	RootCategoryName = "Uncategorized"
	// DefaultColor is used when a category is created without a color
	DefaultColor = "cccccc"
	// MaxRating is the highest star rating a completed task can carry
	MaxRating = 3
)

// Category represents a named bucket for log entries in the domain model.
// A category flagged IsTask additionally carries completion, rating and deadline.
type Category struct {
	ID          int64
	OwnerID     int64
	ParentID    *int64
	Name        string
	Color       string
	IsTask      bool
	IsCompleted bool
	Rating      int
	Deadline    *time.Time
}

// IsRoot returns true if the category has no parent.
func (c Category) IsRoot() bool {
	return c.ParentID == nil
}

// IsDefaultRoot reports whether this is the owner's Uncategorized root.
func (c Category) IsDefaultRoot() bool {
	return c.IsRoot() && c.Name == RootCategoryName
}

// Normalize applies the task rules: plain categories carry no completion,
// rating or deadline; a task is only completed once it has a rating, and a
// rating only sticks to a completed task.
func (c Category) Normalize() Category {
	if !c.IsTask {
		c.IsCompleted = false
		c.Rating = 0
		c.Deadline = nil
		return c
	}
	if c.Rating < 0 || c.Rating > MaxRating {
		c.Rating = 0
	}
	if c.Rating == 0 {
		c.IsCompleted = false
	}
	if !c.IsCompleted {
		c.Rating = 0
	}
	return c
}

// SameParent reports whether the category already sits under parentID.
func (c Category) SameParent(parentID *int64) bool {
	if c.ParentID == nil || parentID == nil {
		return c.ParentID == nil && parentID == nil
	}
	return *c.ParentID == *parentID
}

// String returns the category name for display purposes.
func (c Category) String() string {
	return c.Name
}
