// Package errors provides coded, structured errors for pimfix.
//
// Codes are stable strings so callers and tests can tell a rule that
// failed to compile apart from an unreadable catalog file without
// matching on message text.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Rule errors, reported per rule at load time
	ErrRulePattern     ErrorCode = "RULE_PATTERN"
	ErrRuleBackref     ErrorCode = "RULE_BACKREF"
	ErrRuleTemplate    ErrorCode = "RULE_TEMPLATE"
	ErrRulePostProcess ErrorCode = "RULE_POSTPROCESS"
	ErrRuleDuplicate   ErrorCode = "RULE_DUPLICATE"
	ErrRuleNotFound    ErrorCode = "RULE_NOT_FOUND"

	// File and catalog errors
	ErrFileRead     ErrorCode = "FILE_READ"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrCSVRead      ErrorCode = "CSV_READ"
	ErrCSVWrite     ErrorCode = "CSV_WRITE"
	ErrFieldMissing ErrorCode = "FIELD_MISSING"
)

// PimfixError represents a structured error with code and details
type PimfixError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *PimfixError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PimfixError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a PimfixError with the same code.
func (e *PimfixError) Is(target error) bool {
	var targetErr *PimfixError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new PimfixError with the given code and message
func New(code ErrorCode, message string) *PimfixError {
	return &PimfixError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new PimfixError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *PimfixError {
	return &PimfixError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a PimfixError
func Wrap(err error, code ErrorCode, message string) *PimfixError {
	if err == nil {
		return nil
	}
	return &PimfixError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *PimfixError {
	if err == nil {
		return nil
	}
	return &PimfixError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *PimfixError) WithDetail(key string, value interface{}) *PimfixError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error, or any error joined or wrapped in it,
// has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	for _, pe := range All(err) {
		if pe.Code == code {
			return true
		}
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a PimfixError
func GetErrorCode(err error) ErrorCode {
	var pimErr *PimfixError
	if errors.As(err, &pimErr) {
		return pimErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a PimfixError
func GetErrorDetails(err error) map[string]interface{} {
	var pimErr *PimfixError
	if errors.As(err, &pimErr) {
		return pimErr.Details
	}
	return nil
}

// All flattens err into every PimfixError it carries, walking both
// wrap chains and errors.Join trees, in depth-first order.
func All(err error) []*PimfixError {
	var out []*PimfixError
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if pe, ok := e.(*PimfixError); ok {
			out = append(out, pe)
		}
		switch x := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range x.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(x.Unwrap())
		}
	}
	walk(err)
	return out
}
