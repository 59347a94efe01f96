// Package errors provides rich error types for the somnus library.
//
// All errors are built on top of cockroachdb/errors so that callers get
// stack traces with %+v formatting while keeping compatibility with the
// standard errors.Is / errors.As helpers. Estimators return typed errors
// (DimensionError, NotFittedError, ValueError, ...) wrapped around a small
// set of sentinel values so both comparison styles work:
//
//	if errors.Is(err, somnusErrors.ErrNotFitted) { ... }
//
//	var dimErr *somnusErrors.DimensionError
//	if errors.As(err, &dimErr) { ... }
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// prefix is attached to every error message produced by this package.
const prefix = "somnus"

// Sentinel errors for the common failure categories.
var (
	// ErrEmptyData indicates that an operation received no rows or no columns.
	ErrEmptyData = errors.New("empty data")

	// ErrNotFitted indicates that a model was used before training.
	ErrNotFitted = errors.New("model is not fitted")

	// ErrDimensionMismatch indicates incompatible matrix dimensions.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrSingularMatrix indicates a matrix that cannot be inverted.
	ErrSingularMatrix = errors.New("singular matrix")

	// ErrNotImplemented indicates functionality that is not yet available.
	ErrNotImplemented = errors.New("not implemented")
)

// DimensionError reports a mismatch between an expected and an actual
// dimension along a given axis.
type DimensionError struct {
	Op       string // Operation that detected the mismatch, e.g. "Forest.Fit"
	Expected int
	Got      int
	Axis     int // 0 = rows/samples, 1 = columns/features
}

// NewDimensionError creates a DimensionError for the given operation.
func NewDimensionError(op string, expected, got, axis int) *DimensionError {
	return &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: %s: expected dimension %d on axis %d, got %d",
		prefix, e.Op, e.Expected, e.Axis, e.Got)
}

// Unwrap allows errors.Is(err, ErrDimensionMismatch).
func (e *DimensionError) Unwrap() error { return ErrDimensionMismatch }

// NotFittedError is returned when Predict/Transform/Score is called on an
// estimator that has not been fitted.
type NotFittedError struct {
	ModelName string
	Method    string
}

// NewNotFittedError creates a NotFittedError for the given model and method.
func NewNotFittedError(modelName, method string) *NotFittedError {
	return &NotFittedError{ModelName: modelName, Method: method}
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s: %s.%s: model is not fitted, call Fit first",
		prefix, e.ModelName, e.Method)
}

// Unwrap allows errors.Is(err, ErrNotFitted).
func (e *NotFittedError) Unwrap() error { return ErrNotFitted }

// ValueError reports an invalid argument value.
type ValueError struct {
	Op      string
	Message string
}

// NewValueError creates a ValueError for the given operation.
func NewValueError(op, message string) *ValueError {
	return &ValueError{Op: op, Message: message}
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s: %s", prefix, e.Op, e.Message)
}

// ValidationError reports a named parameter that failed validation.
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: message, Value: value}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", prefix, e.Field, e.Message)
}

// ModelError wraps a sentinel error with model operation context.
type ModelError struct {
	Op      string
	Message string
	Err     error
}

// NewModelError creates a ModelError wrapping the given sentinel.
func NewModelError(op, message string, err error) *ModelError {
	return &ModelError{Op: op, Message: message, Err: err}
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("%s: %s: %s: %v", prefix, e.Op, e.Message, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// Recover converts a panic inside an estimator method into an error.
// It is intended to be deferred at the top of exported Fit/Predict/
// Transform implementations:
//
//	func (f *Forest) Fit(X, y mat.Matrix) (err error) {
//		defer somnusErrors.Recover(&err, "Forest.Fit")
//		...
//	}
func Recover(err *error, op string) {
	if r := recover(); r != nil {
		switch v := r.(type) {
		case error:
			*err = errors.Wrapf(v, "%s: %s: panic during operation", prefix, op)
		default:
			*err = errors.Newf("%s: %s: panic during operation: %v", prefix, op, r)
		}
	}
}

// Wrap adds operation context to an error, preserving the original chain.
// Returns nil when err is nil.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "%s: %s", prefix, op)
}
