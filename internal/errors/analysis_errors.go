package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCategory represents the kinds of failure an analysis can hit
type ErrorCategory string

const (
	// Fatal to the current request, never retried inside the engine
	ErrorCategoryDataUnavailable     ErrorCategory = "DATA_UNAVAILABLE"
	ErrorCategorySimulationParameter ErrorCategory = "SIMULATION_PARAMETER"
	ErrorCategoryConfiguration       ErrorCategory = "CONFIG"
	ErrorCategoryValidation          ErrorCategory = "VALIDATION"

	// Recorded for reporting only; the engine substitutes a missing value instead of failing
	ErrorCategoryDegenerateComputation ErrorCategory = "DEGENERATE_COMPUTATION"

	// Raised by the external price providers
	ErrorCategoryNetwork   ErrorCategory = "NETWORK"
	ErrorCategoryRateLimit ErrorCategory = "RATE_LIMIT"
)

// ErrNoData is the provider-level "no data for symbol" condition
var ErrNoData = stderrors.New("no data found")

// AnalysisError represents a categorized error with context
type AnalysisError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
	Context    map[string]interface{}
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s:%s] %s: %s", e.Category, e.Component, e.Operation, e.Message)
	if e.Underlying != nil {
		fmt.Fprintf(&b, ": %v", e.Underlying)
	}
	return b.String()
}

// Unwrap returns the underlying error for error unwrapping
func (e *AnalysisError) Unwrap() error {
	return e.Underlying
}

// IsRetryable reports whether a caller may retry the request.
// Only provider transport failures qualify.
func (e *AnalysisError) IsRetryable() bool {
	return e.Category == ErrorCategoryNetwork || e.Category == ErrorCategoryRateLimit
}

// WithContext adds context information to the error
func (e *AnalysisError) WithContext(key string, value interface{}) *AnalysisError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAnalysisError creates a new categorized error
func NewAnalysisError(category ErrorCategory, component, operation, message string) *AnalysisError {
	return &AnalysisError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with analysis context
func WrapError(err error, category ErrorCategory, component, operation string) *AnalysisError {
	if err == nil {
		return nil
	}
	return &AnalysisError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
		Context:    make(map[string]interface{}),
	}
}

// NewNoDataError reports an empty or unresolvable series for symbol
func NewNoDataError(component, operation, symbol string) *AnalysisError {
	return &AnalysisError{
		Category:   ErrorCategoryDataUnavailable,
		Component:  component,
		Operation:  operation,
		Message:    fmt.Sprintf("no data found for symbol %s", symbol),
		Underlying: ErrNoData,
		Context:    map[string]interface{}{"symbol": symbol},
	}
}

func NewDataUnavailableError(component, operation, message string) *AnalysisError {
	return NewAnalysisError(ErrorCategoryDataUnavailable, component, operation, message)
}

func NewSimulationParameterError(component, operation, message string) *AnalysisError {
	return NewAnalysisError(ErrorCategorySimulationParameter, component, operation, message)
}

func NewConfigurationError(component, operation, message string) *AnalysisError {
	return NewAnalysisError(ErrorCategoryConfiguration, component, operation, message)
}

func NewValidationError(component, operation, message string) *AnalysisError {
	return NewAnalysisError(ErrorCategoryValidation, component, operation, message)
}

func NewNetworkError(component, operation string, err error) *AnalysisError {
	return WrapError(err, ErrorCategoryNetwork, component, operation)
}

// CategoryOf returns the category of the first AnalysisError in err's chain.
// A bare ErrNoData is treated as DATA_UNAVAILABLE.
func CategoryOf(err error) (ErrorCategory, bool) {
	var ae *AnalysisError
	if stderrors.As(err, &ae) {
		return ae.Category, true
	}
	if stderrors.Is(err, ErrNoData) {
		return ErrorCategoryDataUnavailable, true
	}
	return "", false
}

// IsDataUnavailable reports whether err means the request has no usable series
func IsDataUnavailable(err error) bool {
	c, ok := CategoryOf(err)
	return ok && c == ErrorCategoryDataUnavailable
}

// IsSimulationParameter reports whether err is a rejected Monte Carlo configuration
func IsSimulationParameter(err error) bool {
	c, ok := CategoryOf(err)
	return ok && c == ErrorCategorySimulationParameter
}

// CategorizeError attempts to categorize a provider error from its message
func CategorizeError(err error, component, operation string) *AnalysisError {
	if err == nil {
		return nil
	}

	var ae *AnalysisError
	if stderrors.As(err, &ae) {
		return ae
	}
	if stderrors.Is(err, ErrNoData) {
		return WrapError(err, ErrorCategoryDataUnavailable, component, operation)
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "rate limit") || strings.Contains(errMsg, "too many requests") {
		return WrapError(err, ErrorCategoryRateLimit, component, operation)
	}

	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "connection") ||
		strings.Contains(errMsg, "dial") || strings.Contains(errMsg, "dns") ||
		strings.Contains(errMsg, "context deadline exceeded") {
		return WrapError(err, ErrorCategoryNetwork, component, operation)
	}

	if strings.Contains(errMsg, "no data") || strings.Contains(errMsg, "not found") {
		return WrapError(err, ErrorCategoryDataUnavailable, component, operation)
	}

	return WrapError(err, ErrorCategoryValidation, component, operation)
}
