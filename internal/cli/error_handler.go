package cli

import (
	"fmt"
	"sort"
	"strings"

	"sundial/internal/api"
	"sundial/internal/errors"
	"sundial/internal/validation"
)

// ErrorHandler turns failures into messages for the terminal
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	return fmt.Errorf("failed to %s: %w", operation, eh.HandleSimple(err))
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if validationErr, ok := err.(*validation.ValidationError); ok {
		return fmt.Errorf("%s", validationErr.GetUserFriendlyMessage())
	}
	if _, ok := errors.AsAppError(err); ok {
		return fmt.Errorf("%s", errors.GetUserMessage(err))
	}
	return err
}

// HandleResult returns nil for a successful result, otherwise an error
// naming the operation and listing every field message in field order.
func (eh *ErrorHandler) HandleResult(operation string, result api.Result) error {
	if result.Success {
		return nil
	}
	if len(result.Errors) == 0 {
		return fmt.Errorf("failed to %s: %s", operation, result.Message)
	}

	fields := make([]string, 0, len(result.Errors))
	for field := range result.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	lines := make([]string, len(fields))
	for i, field := range fields {
		lines[i] = fmt.Sprintf("  %s: %s", field, result.Errors[field])
	}
	return fmt.Errorf("failed to %s: %s\n%s", operation, result.Message, strings.Join(lines, "\n"))
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// IsDatabaseError checks if an error is a database error
func (eh *ErrorHandler) IsDatabaseError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeDatabase)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}
