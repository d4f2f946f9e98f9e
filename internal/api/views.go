package api

import (
	"time"

	"sundial/internal/domain"
)

// CategoryView is the rendered form of a category
type CategoryView struct {
	ID          int64      `json:"id"`
	ParentID    *int64     `json:"parentId"`
	Name        string     `json:"name"`
	Color       string     `json:"color"`
	IsTask      bool       `json:"isTask"`
	IsCompleted bool       `json:"isCompleted"`
	Rating      int        `json:"rating"`
	Deadline    *time.Time `json:"deadline"`
}

// CategoryNodeView is one category of a rendered forest
type CategoryNodeView struct {
	CategoryView
	Children []*CategoryNodeView `json:"children"`
}

// EntryView is the rendered form of a log entry with its category details
type EntryView struct {
	ID              int64     `json:"id"`
	CategoryID      int64     `json:"categoryId"`
	CategoryName    string    `json:"categoryName"`
	CategoryColor   string    `json:"categoryColor"`
	StartDateTime   time.Time `json:"startDateTime"`
	EndDateTime     time.Time `json:"endDateTime"`
	DurationMinutes int64     `json:"durationMinutes"`
	Duration        string    `json:"duration"`
	Notes           string    `json:"notes"`
}

// NewCategoryView renders c
func NewCategoryView(c domain.Category) CategoryView {
	return CategoryView{
		ID:          c.ID,
		ParentID:    c.ParentID,
		Name:        c.Name,
		Color:       c.Color,
		IsTask:      c.IsTask,
		IsCompleted: c.IsCompleted,
		Rating:      c.Rating,
		Deadline:    c.Deadline,
	}
}

// NewCategoryViews renders every category of categories
func NewCategoryViews(categories []domain.Category) []CategoryView {
	views := make([]CategoryView, len(categories))
	for i, c := range categories {
		views[i] = NewCategoryView(c)
	}
	return views
}

// NewCategoryForest renders a forest built by domain.BuildForest
func NewCategoryForest(roots []*domain.CategoryNode) []*CategoryNodeView {
	forest := make([]*CategoryNodeView, 0, len(roots))
	// path[d] is the most recent view at depth d
	var path []*CategoryNodeView
	domain.Walk(roots, func(node *domain.CategoryNode, depth int) {
		view := &CategoryNodeView{
			CategoryView: NewCategoryView(node.Category),
			Children:     []*CategoryNodeView{},
		}
		path = append(path[:depth], view)
		if depth == 0 {
			forest = append(forest, view)
			return
		}
		parent := path[depth-1]
		parent.Children = append(parent.Children, view)
	})
	return forest
}

// NewEntryView renders e
func NewEntryView(e domain.LogEntry) EntryView {
	return EntryView{
		ID:              e.ID,
		CategoryID:      e.CategoryID,
		CategoryName:    e.CategoryName,
		CategoryColor:   e.CategoryColor,
		StartDateTime:   e.StartDateTime,
		EndDateTime:     e.EndDateTime,
		DurationMinutes: e.DurationMinutes,
		Duration:        domain.FormatMinutes(e.DurationMinutes),
		Notes:           e.Notes,
	}
}

// NewEntryViews renders every entry of entries
func NewEntryViews(entries []*domain.LogEntry) []EntryView {
	views := make([]EntryView, len(entries))
	for i, e := range entries {
		views[i] = NewEntryView(*e)
	}
	return views
}
