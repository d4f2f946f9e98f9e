package api

import (
	"sundial/internal/errors"
	"sundial/internal/validation"
)

// Status classifies the outcome of an operation for the presentation layer
type Status string

const (
	StatusOK              Status = "ok"
	StatusUnauthenticated Status = "unauthenticated"
	StatusNotFound        Status = "not_found"
	StatusInvalid         Status = "invalid"
	StatusError           Status = "error"
)

// Result is what every operation returns. Errors maps form fields to
// messages; Input echoes the submitted form so it can be shown again.
type Result struct {
	Success bool              `json:"success"`
	Status  Status            `json:"status"`
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Data    interface{}       `json:"data"`
	Input   interface{}       `json:"input,omitempty"`
}

// OK wraps data in a successful result
func OK(data interface{}) Result {
	return Result{Success: true, Status: StatusOK, Data: data}
}

// FromError converts err into a failed result
func FromError(err error, input interface{}) Result {
	result := Result{
		Success: false,
		Status:  StatusError,
		Code:    errors.GetErrorCode(err),
		Message: errors.GetUserMessage(err),
		Input:   input,
	}

	appErr, ok := errors.AsAppError(err)
	if !ok {
		return result
	}

	switch appErr.Type {
	case errors.ErrorTypeAuthentication:
		result.Status = StatusUnauthenticated
	case errors.ErrorTypeNotFound:
		result.Status = StatusNotFound
	case errors.ErrorTypeValidation:
		result.Status = StatusInvalid
		result.Errors = fieldMessages(appErr)
	case errors.ErrorTypeDuplicateName:
		result.Status = StatusInvalid
		result.Errors = map[string]string{"name": appErr.Message}
	case errors.ErrorTypeCycle:
		result.Status = StatusInvalid
		result.Errors = map[string]string{"parentRef": appErr.Message}
	}
	return result
}

// fieldMessages extracts per-field messages from a validation AppError
func fieldMessages(appErr *errors.AppError) map[string]string {
	if ve, ok := appErr.Cause.(*validation.ValidationError); ok && ve.HasErrors() {
		return ve.Messages()
	}
	return map[string]string{"form": appErr.Message}
}
