package validation

import (
	"context"
	"strings"
	"time"

	"sundial/internal/config"
)

// EntryForm is the submitted data for logging or editing a time entry.
// A non-empty NewCategoryName creates (or reuses) a category under CategoryRef.
type EntryForm struct {
	CategoryRef     int64  `json:"categoryRef" form:"categoryRef"`
	NewCategoryName string `json:"newCategoryName" form:"newCategoryName"`
	Color           string `json:"color" form:"color"`
	StartDateTime   string `json:"startDateTime" form:"startDateTime"`
	EndDateTime     string `json:"endDateTime" form:"endDateTime"`
	Notes           string `json:"notes" form:"notes"`
}

// EntryValidator checks entry forms
type EntryValidator struct {
	validator *Validator
	category  *CategoryValidator
	lookup    CategoryLookup
}

// NewEntryValidator creates an entry validator resolving category references through lookup
func NewEntryValidator(lookup CategoryLookup) *EntryValidator {
	return NewEntryValidatorWithConfig(nil, lookup)
}

// NewEntryValidatorWithConfig creates an entry validator using cfg's limits
func NewEntryValidatorWithConfig(cfg *config.Config, lookup CategoryLookup) *EntryValidator {
	return &EntryValidator{
		validator: NewValidatorWithConfig(cfg),
		category:  NewCategoryValidatorWithConfig(cfg),
		lookup:    lookup,
	}
}

// ValidateEntryForm checks every field of an entry form for ownerID.
// A failing check yields a *ValidationError; a failing category lookup is
// returned as is.
func (ev *EntryValidator) ValidateEntryForm(ctx context.Context, ownerID int64, form EntryForm) error {
	validationError := NewValidationError()

	start, startOK := ev.checkTimestamp(validationError, "startDateTime", form.StartDateTime)
	end, endOK := ev.checkTimestamp(validationError, "endDateTime", form.EndDateTime)
	if startOK && endOK {
		if !AfterStart(form.StartDateTime, form.EndDateTime) {
			validationError.AddInvalidRangeError("endDateTime", form.EndDateTime, "End date-time must be after start date-time.")
		} else if !ev.validator.IsValidEntrySpan(start, end) {
			validationError.AddInvalidRangeError("endDateTime", form.EndDateTime, "Entry is longer than the allowed maximum.")
		}
	}

	ok, err := ValidCategoryRef(ctx, ev.lookup, ownerID, form.CategoryRef)
	if err != nil {
		return err
	}
	if !ok {
		validationError.AddInvalidReferenceError("categoryRef", form.CategoryRef)
	}

	if form.NewCategoryName != "" {
		validationError.Merge(ev.category.ValidateName("newCategoryName", form.NewCategoryName))
	}
	validationError.Merge(ev.category.ValidateColor(form.Color))

	if !ev.validator.IsValidNotesLength(form.Notes) {
		validationError.AddInvalidLengthError("notes", len(form.Notes), ev.validator.notesMaxLength())
	}

	return validationError.ErrOrNil()
}

func (ev *EntryValidator) checkTimestamp(ve *ValidationError, field, raw string) (time.Time, bool) {
	if strings.TrimSpace(raw) == "" {
		ve.AddRequiredError(field)
		return time.Time{}, false
	}
	t, err := ParseDateTime(raw)
	if err != nil {
		ve.AddInvalidFormatError(field, raw, "a date-time such as 2024-01-31T09:30:00")
		return time.Time{}, false
	}
	return t, true
}
