package domain

import (
	"errors"
	"fmt"
)

// Error codes for categorization
const (
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeMappingMissing = "MAPPING_MISSING"
	ErrCodeNavigation     = "NAVIGATION_FAILED"
	ErrCodeCollection     = "COLLECTION_FAILED"
	ErrCodeComparison     = "COMPARISON_FAILED"
	ErrCodeThreshold      = "FAILURE_THRESHOLD_EXCEEDED"
	ErrCodeDatabase       = "DATABASE_ERROR"
	ErrCodeStorage        = "STORAGE_ERROR"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// DomainError is a structured error for domain operations
type DomainError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for error comparison
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel domain errors (used with errors.Is)
var (
	ErrNotFoundVal       = &DomainError{Code: ErrCodeNotFound, Message: "not found"}
	ErrInvalidInputVal   = &DomainError{Code: ErrCodeValidation, Message: "invalid input"}
	ErrMappingMissingVal = &DomainError{Code: ErrCodeMappingMissing, Message: "mapping missing"}
	ErrThresholdVal      = &DomainError{Code: ErrCodeThreshold, Message: "failure threshold exceeded"}
	ErrNavigationVal     = &DomainError{Code: ErrCodeNavigation, Message: "navigation failed"}
)

// IsSentinelError checks if err matches a sentinel error
func IsSentinelError(err error, sentinel *DomainError) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == sentinel.Code
	}
	return false
}

// NotFoundError creates a not found domain error
func NotFoundError(resource string, id any) *DomainError {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Details: map[string]any{"resource": resource, "id": id},
		Err:     ErrNotFoundVal,
	}
}

// ValidationError creates a validation domain error
func ValidationError(field, message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: message,
		Details: map[string]any{"field": field},
		Err:     ErrInvalidInputVal,
	}
}

// MappingMissingError reports a selector mapping that has no entry for the
// requested key. It is returned as a value so callers can fold it into
// results instead of aborting the run.
func MappingMissingError(section, key string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMappingMissing,
		Message: fmt.Sprintf("no mappings for %s: %s", section, key),
		Details: map[string]any{"section": section, "key": key},
		Err:     ErrMappingMissingVal,
	}
}

// NavigationError reports a failed page navigation
func NavigationError(url string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeNavigation,
		Message: fmt.Sprintf("navigating to %s", url),
		Details: map[string]any{"url": url},
		Err:     fmt.Errorf("%w: %w", ErrNavigationVal, err),
	}
}

// ThresholdExceededError is the only error a completed run raises: the
// failure count crossed the configured gate.
func ThresholdExceededError(failed, maxFailures int) *DomainError {
	return &DomainError{
		Code:    ErrCodeThreshold,
		Message: fmt.Sprintf("too many test failures: %d (max allowed: %d)", failed, maxFailures),
		Details: map[string]any{"failed": failed, "max_failures": maxFailures},
		Err:     ErrThresholdVal,
	}
}
