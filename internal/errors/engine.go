// Package errors defines the structured error type used across the view
// engine, with a category discriminator so callers can distinguish "the
// view does not exist" from "an explicitly requested master does not
// exist" from provider I/O failures.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType categorizes engine errors.
type ErrorType string

const (
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeMasterNotFound ErrorType = "master_not_found"
	ErrorTypeModelType      ErrorType = "model_type"
	ErrorTypeIO             ErrorType = "io"
	ErrorTypeCompile        ErrorType = "compile"
	ErrorTypeRender         ErrorType = "render"
	ErrorTypeConfig         ErrorType = "config"
)

// EngineError is a structured error with resolution context.
type EngineError struct {
	Type    ErrorType
	Message string
	Cause   error
	View    string
	Path    string
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("[%s]", e.Type))

	if e.View != "" {
		parts = append(parts, "view:"+e.View)
	}
	if e.Path != "" {
		parts = append(parts, e.Path)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// Is matches errors of the same type, so sentinel-style checks work
// through errors.Is without comparing messages.
func (e *EngineError) Is(target error) bool {
	var t *EngineError
	if errors.As(target, &t) {
		return e.Type == t.Type
	}

	return false
}

// WithContext attaches a key/value pair to the error.
func (e *EngineError) WithContext(key string, value interface{}) *EngineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithPath records the virtual path the error relates to.
func (e *EngineError) WithPath(path string) *EngineError {
	e.Path = path

	return e
}

// Sentinels for errors.Is matching by category.
var (
	ErrViewNotFound   = &EngineError{Type: ErrorTypeNotFound}
	ErrMasterNotFound = &EngineError{Type: ErrorTypeMasterNotFound}
	ErrModelType      = &EngineError{Type: ErrorTypeModelType}
)

// NewViewNotFoundError reports that no probed location contained the
// requested view.
func NewViewNotFoundError(view string, probed []string) *EngineError {
	return &EngineError{
		Type:    ErrorTypeNotFound,
		View:    view,
		Message: fmt.Sprintf("no template found (probed %s)", strings.Join(probed, ", ")),
	}
}

// NewMasterNotFoundError reports that an explicitly requested master
// layout could not be resolved. Distinct from the conventional-master
// case, where absence is not an error.
func NewMasterNotFoundError(master string, probed []string) *EngineError {
	return &EngineError{
		Type:    ErrorTypeMasterNotFound,
		View:    master,
		Message: fmt.Sprintf("requested master not found (probed %s)", strings.Join(probed, ", ")),
	}
}

// NewModelTypeError reports a model bound to a view compiled for a
// different model type.
func NewModelTypeError(view, want, got string) *EngineError {
	return &EngineError{
		Type:    ErrorTypeModelType,
		View:    view,
		Message: fmt.Sprintf("model type %s does not satisfy %s", got, want),
	}
}

// NewIOError wraps a provider read failure.
func NewIOError(path string, cause error) *EngineError {
	return &EngineError{
		Type:    ErrorTypeIO,
		Path:    path,
		Message: "provider read failed",
		Cause:   cause,
	}
}

// NewCompileError wraps a template compilation failure.
func NewCompileError(path string, cause error) *EngineError {
	return &EngineError{
		Type:    ErrorTypeCompile,
		Path:    path,
		Message: "template compilation failed",
		Cause:   cause,
	}
}

// NewRenderError wraps a failure during template execution.
func NewRenderError(path string, cause error) *EngineError {
	return &EngineError{
		Type:    ErrorTypeRender,
		Path:    path,
		Message: "template execution failed",
		Cause:   cause,
	}
}

// NewConfigError reports an invalid engine configuration.
func NewConfigError(message string) *EngineError {
	return &EngineError{
		Type:    ErrorTypeConfig,
		Message: message,
	}
}
