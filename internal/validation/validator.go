package validation

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode"

	"sundial/internal/config"
)

var colorRegex = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// dateTimeLayouts are tried in order by ParseDateTime.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// CategoryLookup answers whether a category id belongs to an owner.
type CategoryLookup interface {
	CategoryExists(ctx context.Context, ownerID, id int64) (bool, error)
}

// ValidName reports whether s, with all whitespace removed, is non-empty and
// free of path separators.
func ValidName(s string) bool {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if stripped == "" {
		return false
	}
	return !strings.ContainsAny(stripped, `/\`)
}

// ValidColor reports whether s is exactly six hex digits with no leading '#'.
func ValidColor(s string) bool {
	return colorRegex.MatchString(s)
}

// ValidRating reports whether n is a star rating of 1 to 3. Zero means
// "no rating" and is handled by callers.
func ValidRating(n int) bool {
	return n >= 1 && n <= 3
}

// ValidCategoryRef reports whether id is zero or names a category owned by ownerID.
func ValidCategoryRef(ctx context.Context, lookup CategoryLookup, ownerID, id int64) (bool, error) {
	if id == 0 {
		return true, nil
	}
	if id < 0 {
		return false, nil
	}
	return lookup.CategoryExists(ctx, ownerID, id)
}

// AfterStart reports whether both values parse and end is strictly after start.
func AfterStart(startRaw, endRaw string) bool {
	start, err := ParseDateTime(startRaw)
	if err != nil {
		return false
	}
	end, err := ParseDateTime(endRaw)
	if err != nil {
		return false
	}
	return end.After(start)
}

// ParseDateTime parses a timestamp in any accepted layout and returns it in UTC.
// Layouts without a zone are read as UTC.
func ParseDateTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range dateTimeLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Validator carries the configured limits shared by the form validators
type Validator struct {
	config *config.Config
}

// NewValidator creates a validator using default limits
func NewValidator() *Validator {
	return &Validator{config: nil}
}

// NewValidatorWithConfig creates a validator using cfg's limits
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{config: cfg}
}

// IsValidNameLength checks a trimmed name against the configured maximum
func (v *Validator) IsValidNameLength(name string) bool {
	return len(strings.TrimSpace(name)) <= v.nameMaxLength()
}

// IsValidNotesLength checks notes against the configured maximum
func (v *Validator) IsValidNotesLength(notes string) bool {
	return len(notes) <= v.notesMaxLength()
}

// IsValidEntrySpan checks that an entry is not longer than the configured maximum
func (v *Validator) IsValidEntrySpan(start, end time.Time) bool {
	max := v.maxEntryDuration()
	return max <= 0 || end.Sub(start) <= max
}

func (v *Validator) nameMaxLength() int {
	if v.config != nil && v.config.Validation.NameMaxLength > 0 {
		return v.config.Validation.NameMaxLength
	}
	return config.DefaultNameMaxLength
}

func (v *Validator) notesMaxLength() int {
	if v.config != nil && v.config.Validation.NotesMaxLength > 0 {
		return v.config.Validation.NotesMaxLength
	}
	return config.DefaultNotesMaxLength
}

func (v *Validator) maxEntryDuration() time.Duration {
	if v.config != nil {
		return v.config.Validation.MaxEntryDuration
	}
	return 0
}
