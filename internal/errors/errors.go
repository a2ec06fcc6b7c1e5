// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInvalidTick      = errors.New("tick size must be positive")
	ErrNoNextBar        = errors.New("no next bar available")
	ErrMissingColumn    = errors.New("required column missing")
	ErrNonNumeric       = errors.New("value is not numeric")
	ErrIndexOutOfRange  = errors.New("bar index out of range")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrDataNotFound     = errors.New("data not found")
	ErrDatabaseError    = errors.New("database error")
	ErrUnorderedBars    = errors.New("bar timestamps not strictly increasing")
	ErrUnknownDirection = errors.New("unknown signal direction")
)

// DataError represents a data-related error.
type DataError struct {
	DataType string
	Symbol   string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.DataType, e.Symbol, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.DataType, e.Symbol, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, symbol, message string, err error) *DataError {
	return &DataError{
		DataType: dataType,
		Symbol:   symbol,
		Message:  message,
		Err:      err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// RowError represents a malformed row in an ingested bar file.
type RowError struct {
	Line    int
	Column  string
	Message string
	Err     error
}

func (e *RowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("row error line %d column %q: %s: %v", e.Line, e.Column, e.Message, e.Err)
	}
	return fmt.Sprintf("row error line %d column %q: %s", e.Line, e.Column, e.Message)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// NewRowError creates a new RowError.
func NewRowError(line int, column, message string, err error) *RowError {
	return &RowError{
		Line:    line,
		Column:  column,
		Message: message,
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
