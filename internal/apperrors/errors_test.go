package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorMatchesByCode(t *testing.T) {
	err := fmt.Errorf("set baseline: %w", NewDomainError(CodeVersionLocked, "version %s is APPROVED", "v1"))

	assert.ErrorIs(t, err, ErrVersionLocked)
	assert.NotErrorIs(t, err, ErrCycleDetected)

	de, ok := AsDomainError(err)
	assert.True(t, ok)
	assert.Equal(t, CodeVersionLocked, de.Code)
	assert.Contains(t, de.Error(), "APPROVED")
}

func TestHasChildrenError(t *testing.T) {
	err := NewHasChildrenError("n1", 2)

	assert.ErrorIs(t, err, ErrHasChildren)
	assert.True(t, err.HasChildren())
	assert.Equal(t, 2, err.ChildrenCount)
}

func TestValidationErrorIsErrValidation(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"quantity": "must be greater than 0", "name": "is required"}}

	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "validation error: name: is required; quantity: must be greater than 0", err.Error())
}

func TestAppErrorUnwraps(t *testing.T) {
	err := NewAppError(500, "failed to load nodes", ErrConflict)

	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "failed to load nodes: conflicting concurrent modification", err.Error())
}
