package api

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"sundial/internal/errors"
	"sundial/internal/validation"
)

func TestFromError(t *testing.T) {
	ve := validation.NewValidationError()
	ve.AddRequiredError("startDateTime")

	tests := []struct {
		name   string
		err    error
		status Status
		fields []string
	}{
		{"authentication", errors.NewAuthenticationError("save"), StatusUnauthenticated, nil},
		{"not found", errors.NewNotFoundError("category", "4"), StatusNotFound, nil},
		{"field validation", errors.NewValidationError("invalid", ve), StatusInvalid, []string{"startDateTime"}},
		{"bare validation", errors.NewValidationError("invalid", nil), StatusInvalid, []string{"form"}},
		{"duplicate name", errors.NewDuplicateNameError("Work"), StatusInvalid, []string{"name"}},
		{"cycle", errors.NewCycleError(1, 2), StatusInvalid, []string{"parentRef"}},
		{"integrity", errors.NewIntegrityError("loop", 1), StatusError, nil},
		{"database", errors.NewDatabaseError("insert", stderrors.New("disk full")), StatusError, nil},
		{"plain error", stderrors.New("boom"), StatusError, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FromError(tt.err, "input")

			assert.False(t, result.Success)
			assert.Equal(t, tt.status, result.Status)
			assert.Equal(t, "input", result.Input)
			assert.NotEmpty(t, result.Message)
			assert.Len(t, result.Errors, len(tt.fields))
			for _, field := range tt.fields {
				assert.Contains(t, result.Errors, field)
			}
		})
	}
}

func TestOK(t *testing.T) {
	result := OK([]int{1})

	assert.True(t, result.Success)
	assert.Equal(t, StatusOK, result.Status)
	assert.Equal(t, []int{1}, result.Data)
	assert.Empty(t, result.Errors)
}
