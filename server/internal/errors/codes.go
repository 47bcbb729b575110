package errors

import (
	"fmt"
)

// ErrorCode represents a specific error type for planning operations.
type ErrorCode string

const (
	// ErrCodeTimeParseFailed indicates a time expression was not understood.
	ErrCodeTimeParseFailed ErrorCode = "TIME_PARSE_FAILED"
	// ErrCodeDataLoadFailed indicates order data could not be loaded.
	ErrCodeDataLoadFailed ErrorCode = "DATA_LOAD_FAILED"
	// ErrCodeOrderNotFound indicates no orders matched the criteria.
	ErrCodeOrderNotFound ErrorCode = "ORDER_NOT_FOUND"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodePlanningFailed indicates a plan could not be produced.
	ErrCodePlanningFailed ErrorCode = "PLANNING_FAILED"
	// ErrCodeValidationFailed indicates a validation pass could not run.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
)

// PlanError represents a structured error for planning operations.
type PlanError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *PlanError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *PlanError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *PlanError) WithContext(key string, value interface{}) *PlanError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// GetCode returns the error code.
func (e *PlanError) GetCode() ErrorCode {
	return e.Code
}

// Convenience constructors for common error types.

// TimeParseFailed creates a time parse failed error.
func TimeParseFailed(msg string, cause error) *PlanError {
	return &PlanError{Code: ErrCodeTimeParseFailed, Message: msg, Cause: cause}
}

// DataLoadFailed creates a data load failed error.
func DataLoadFailed(msg string, cause error) *PlanError {
	return &PlanError{Code: ErrCodeDataLoadFailed, Message: msg, Cause: cause}
}

// OrderNotFound creates an order not found error.
func OrderNotFound(msg string) *PlanError {
	return &PlanError{Code: ErrCodeOrderNotFound, Message: msg}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *PlanError {
	return &PlanError{Code: ErrCodeInvalidArgument, Message: msg}
}

// PlanningFailed creates a planning failed error.
func PlanningFailed(msg string, cause error) *PlanError {
	return &PlanError{Code: ErrCodePlanningFailed, Message: msg, Cause: cause}
}

// ValidationFailed creates a validation failed error.
func ValidationFailed(msg string, cause error) *PlanError {
	return &PlanError{Code: ErrCodeValidationFailed, Message: msg, Cause: cause}
}
