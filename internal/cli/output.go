package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sundial/internal/api"
	"sundial/internal/domain"
)

const displayTimeFormat = "2006-01-02 15:04"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// swatch renders a block in the category's color
func swatch(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#" + color)).Render("■")
}

func stars(rating int) string {
	if rating <= 0 {
		return ""
	}
	return strings.Repeat("*", rating)
}

// categoryLine is the one-line summary used by show, list and tree
func categoryLine(c api.CategoryView) string {
	parts := []string{swatch(c.Color), c.Name, mutedStyle.Render(fmt.Sprintf("#%d", c.ID))}
	if c.IsTask {
		status := "open"
		if c.IsCompleted {
			status = doneStyle.Render("done")
		}
		parts = append(parts, "[task "+status+"]")
		if s := stars(c.Rating); s != "" {
			parts = append(parts, s)
		}
		if c.Deadline != nil {
			parts = append(parts, "due "+c.Deadline.Format("2006-01-02"))
		}
	}
	return strings.Join(parts, " ")
}

func printCategory(w io.Writer, c api.CategoryView) {
	fmt.Fprintln(w, categoryLine(c))
	if c.ParentID != nil {
		fmt.Fprintf(w, "  parent: #%d\n", *c.ParentID)
	}
	fmt.Fprintf(w, "  color:  %s\n", c.Color)
}

func printCategories(w io.Writer, categories []api.CategoryView) {
	if len(categories) == 0 {
		fmt.Fprintln(w, "No categories found")
		return
	}
	fmt.Fprintln(w, headerStyle.Render("Categories"))
	for _, c := range categories {
		fmt.Fprintln(w, categoryLine(c))
	}
}

func printTree(w io.Writer, roots []*api.CategoryNodeView) {
	if len(roots) == 0 {
		fmt.Fprintln(w, "No categories found")
		return
	}
	var walk func(nodes []*api.CategoryNodeView, depth int)
	walk = func(nodes []*api.CategoryNodeView, depth int) {
		for _, n := range nodes {
			fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), categoryLine(n.CategoryView))
			walk(n.Children, depth+1)
		}
	}
	walk(roots, 0)
}

// entryLine prints: start - end (duration): category [notes]
func entryLine(e api.EntryView) string {
	line := fmt.Sprintf("%s %s - %s (%s): %s %s",
		mutedStyle.Render(fmt.Sprintf("#%d", e.ID)),
		e.StartDateTime.Format(displayTimeFormat),
		e.EndDateTime.Format(displayTimeFormat),
		e.Duration,
		swatch(e.CategoryColor),
		e.CategoryName,
	)
	if e.Notes != "" {
		line += " " + mutedStyle.Render(e.Notes)
	}
	return line
}

func printEntries(w io.Writer, entries []api.EntryView) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries found")
		return
	}
	var total int64
	for _, e := range entries {
		fmt.Fprintln(w, entryLine(e))
		total += e.DurationMinutes
	}
	fmt.Fprintf(w, "%s %d entries, %s\n", headerStyle.Render("Total:"), len(entries), domain.FormatMinutes(total))
}
