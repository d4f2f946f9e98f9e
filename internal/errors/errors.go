package errors

import (
	"errors"
	"fmt"
)

// Error codes carried by AppError.Code
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotFound         = "NOT_FOUND"
	CodeDatabase         = "DATABASE_ERROR"
	CodeUnauthenticated  = "UNAUTHENTICATED"
	CodeDuplicateName    = "DUPLICATE_NAME"
	CodeCycle            = "CATEGORY_CYCLE"
	CodeIntegrity        = "INTEGRITY_VIOLATION"
)

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    CodeValidationFailed,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    CodeNotFound,
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewDatabaseError creates a new database error
func NewDatabaseError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeDatabase,
		Message: fmt.Sprintf("database operation failed: %s", operation),
		Code:    CodeDatabase,
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewAuthenticationError creates an error for an operation attempted without a user identity
func NewAuthenticationError(operation string) *AppError {
	return &AppError{
		Type:    ErrorTypeAuthentication,
		Message: fmt.Sprintf("authentication required for %s", operation),
		Code:    CodeUnauthenticated,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewDuplicateNameError creates an error for a category name that is already taken by a sibling
func NewDuplicateNameError(name string) *AppError {
	return &AppError{
		Type:    ErrorTypeDuplicateName,
		Message: fmt.Sprintf("a category named %q already exists here", name),
		Code:    CodeDuplicateName,
		Context: map[string]interface{}{
			"name": name,
		},
	}
}

// NewCycleError creates an error for a parent assignment that would make a category its own ancestor
func NewCycleError(categoryID, parentID int64) *AppError {
	return &AppError{
		Type:    ErrorTypeCycle,
		Message: fmt.Sprintf("category %d cannot be moved under %d: it would become its own ancestor", categoryID, parentID),
		Code:    CodeCycle,
		Context: map[string]interface{}{
			"category_id": categoryID,
			"parent_id":   parentID,
		},
	}
}

// NewIntegrityError signals stored data that breaks a tree invariant
func NewIntegrityError(message string, ownerID int64) *AppError {
	return &AppError{
		Type:    ErrorTypeIntegrity,
		Message: message,
		Code:    CodeIntegrity,
		Context: map[string]interface{}{
			"owner_id": ownerID,
		},
	}
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Code:    errorType.String(),
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// GetUserMessage returns a user-friendly error message
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeDuplicateName, ErrorTypeCycle:
			return appErr.Message
		case ErrorTypeAuthentication:
			return "You must be signed in to do that."
		case ErrorTypeDatabase:
			return "A database error occurred. Please try again."
		case ErrorTypeIntegrity:
			return "Your category tree is in an inconsistent state. Please contact support."
		default:
			return "An unexpected error occurred. Please try again."
		}
	}
	return err.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeAuthentication, ErrorTypeDuplicateName, ErrorTypeCycle:
			return false // user errors
		case ErrorTypeDatabase, ErrorTypeIntegrity:
			return true
		default:
			return true
		}
	}
	return true
}
