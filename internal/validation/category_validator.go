package validation

import (
	"strings"

	"sundial/internal/config"
)

// CategoryForm is the submitted data for adding or updating a category or task.
// ParentRef is a numeric id or the exact name of one of the owner's categories;
// empty or "0" makes the category a root.
type CategoryForm struct {
	Name         string `json:"name" form:"name"`
	ParentRef    string `json:"parentRef" form:"parentRef"`
	Color        string `json:"color" form:"color"`
	IsTask       bool   `json:"isTask" form:"isTask"`
	IsCompleted  bool   `json:"isCompleted" form:"isCompleted"`
	StarRating   int    `json:"starRating" form:"starRating"`
	DeadlineFlag bool   `json:"deadlineFlag" form:"deadlineFlag"`
	Deadline     string `json:"deadline" form:"deadline"`
}

// CategoryValidator checks category forms
type CategoryValidator struct {
	validator *Validator
}

// NewCategoryValidator creates a category validator with default limits
func NewCategoryValidator() *CategoryValidator {
	return &CategoryValidator{validator: NewValidator()}
}

// NewCategoryValidatorWithConfig creates a category validator using cfg's limits
func NewCategoryValidatorWithConfig(cfg *config.Config) *CategoryValidator {
	return &CategoryValidator{validator: NewValidatorWithConfig(cfg)}
}

// ValidateName checks a category name on its own
func (cv *CategoryValidator) ValidateName(field, name string) *ValidationError {
	validationError := NewValidationError()

	if strings.TrimSpace(name) == "" {
		validationError.AddRequiredError(field)
		return validationError
	}
	if !ValidName(name) {
		validationError.AddInvalidValueError(field, name, `must not contain "/" or "\"`)
		return validationError
	}
	if !cv.validator.IsValidNameLength(name) {
		validationError.AddInvalidLengthError(field, name, cv.validator.nameMaxLength())
	}
	return validationError
}

// ValidateColor checks an optional color; empty means "use the default"
func (cv *CategoryValidator) ValidateColor(color string) *ValidationError {
	validationError := NewValidationError()
	if color != "" && !ValidColor(color) {
		validationError.AddInvalidFormatError("color", color, "6 hex digits without '#'")
	}
	return validationError
}

// ValidateCategoryForm checks every field of a category form.
// The returned error is a *ValidationError or nil.
func (cv *CategoryValidator) ValidateCategoryForm(form CategoryForm) error {
	validationError := cv.ValidateName("name", form.Name)
	validationError.Merge(cv.ValidateColor(form.Color))

	if form.StarRating != 0 && !ValidRating(form.StarRating) {
		validationError.AddInvalidValueError("starRating", form.StarRating, "must be between 1 and 3")
	}

	if form.IsTask && form.DeadlineFlag {
		if strings.TrimSpace(form.Deadline) == "" {
			validationError.AddRequiredError("deadline")
		} else if _, err := ParseDateTime(form.Deadline); err != nil {
			validationError.AddInvalidFormatError("deadline", form.Deadline, "a date such as 2024-01-31")
		}
	}

	return validationError.ErrOrNil()
}
