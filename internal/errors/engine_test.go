package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngineError_Error(t *testing.T) {
	err := NewViewNotFoundError("index", []string{"Stub/index.view", "Shared/index.view"})

	assert.Contains(t, err.Error(), "[not_found]")
	assert.Contains(t, err.Error(), "view:index")
	assert.Contains(t, err.Error(), "Stub/index.view")
}

func TestEngineError_Is(t *testing.T) {
	err := NewViewNotFoundError("index", nil)

	assert.True(t, errors.Is(err, ErrViewNotFound))
	assert.False(t, errors.Is(err, ErrMasterNotFound))
	assert.False(t, errors.Is(err, ErrModelType))
}

func TestEngineError_IsWrapped(t *testing.T) {
	err := fmt.Errorf("resolving view: %w", NewMasterNotFoundError("Custom", []string{"Shared/Custom.view"}))

	assert.True(t, errors.Is(err, ErrMasterNotFound))
	assert.False(t, errors.Is(err, ErrViewNotFound))
}

func TestEngineError_Unwrap(t *testing.T) {
	cause := errors.New("disk on fire")
	err := NewIOError("Stub/index.view", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestEngineError_WithContext(t *testing.T) {
	err := NewModelTypeError("detail", "main.Product", "string").
		WithContext("module", "Stub")

	assert.Equal(t, "Stub", err.Context["module"])
	assert.Contains(t, err.Error(), "main.Product")
	assert.Contains(t, err.Error(), "string")
}
