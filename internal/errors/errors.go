package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound         = new(ErrCodeNotFound, "resource not found")
	ErrValidation       = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation = new(ErrCodeInvalidOperation, "invalid operation")
	ErrPermissionDenied = new(ErrCodePermissionDenied, "permission denied")
	ErrHTTPClient       = new(ErrCodeHTTPClient, "http client error")
	ErrDatabase         = new(ErrCodeDatabase, "database error")
	ErrSystem           = new(ErrCodeSystemError, "system error")
	ErrTooManyRequests  = new(ErrCodeTooManyRequests, "too many requests")

	// Plan change simulation failures. None of them are retryable.
	ErrPlanNotFound    = new(ErrCodePlanNotFound, "plan not found in catalog")
	ErrNoOpChange      = new(ErrCodeNoOpChange, "target plan equals current plan")
	ErrInvalidDate     = new(ErrCodeInvalidDate, "invalid effective date")
	ErrPolicyViolation = new(ErrCodePolicyViolation, "plan change blocked by policy")
)

// statusCodes maps sentinels to http status codes. Domain kinds come first so an
// error marked twice (e.g. a catalog miss re-marked as validation) keeps its
// most specific classification.
var statusCodes = []struct {
	sentinel *InternalError
	status   int
}{
	{ErrPlanNotFound, http.StatusNotFound},
	{ErrNoOpChange, http.StatusUnprocessableEntity},
	{ErrInvalidDate, http.StatusBadRequest},
	{ErrPolicyViolation, http.StatusConflict},
	{ErrNotFound, http.StatusNotFound},
	{ErrValidation, http.StatusBadRequest},
	{ErrInvalidOperation, http.StatusBadRequest},
	{ErrPermissionDenied, http.StatusForbidden},
	{ErrTooManyRequests, http.StatusTooManyRequests},
	{ErrHTTPClient, http.StatusBadGateway},
	{ErrDatabase, http.StatusInternalServerError},
	{ErrSystem, http.StatusInternalServerError},
}

const (
	ErrCodeHTTPClient       = "http_client_error"
	ErrCodeSystemError      = "system_error"
	ErrCodeNotFound         = "not_found"
	ErrCodeValidation       = "validation_error"
	ErrCodeInvalidOperation = "invalid_operation"
	ErrCodePermissionDenied = "permission_denied"
	ErrCodeDatabase         = "database_error"
	ErrCodeTooManyRequests  = "too_many_requests"
	ErrCodePlanNotFound     = "plan_not_found"
	ErrCodeNoOpChange       = "no_op_change"
	ErrCodeInvalidDate      = "invalid_date"
	ErrCodePolicyViolation  = "policy_violation"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Is(err, reference error) bool {
	return errors.Is(err, reference)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsHTTPClient checks if an error is an http client error
func IsHTTPClient(err error) bool {
	return errors.Is(err, ErrHTTPClient)
}

func IsPlanNotFound(err error) bool {
	return errors.Is(err, ErrPlanNotFound)
}

func IsNoOpChange(err error) bool {
	return errors.Is(err, ErrNoOpChange)
}

func IsInvalidDate(err error) bool {
	return errors.Is(err, ErrInvalidDate)
}

func IsPolicyViolation(err error) bool {
	return errors.Is(err, ErrPolicyViolation)
}

func HTTPStatusFromErr(err error) int {
	for _, sc := range statusCodes {
		if errors.Is(err, sc.sentinel) {
			return sc.status
		}
	}
	return http.StatusInternalServerError
}

// CodeFromErr returns the machine readable code of the sentinel the error was
// marked with, or the system error code when it carries none.
func CodeFromErr(err error) string {
	for _, sc := range statusCodes {
		if errors.Is(err, sc.sentinel) {
			return sc.sentinel.Code
		}
	}
	return ErrCodeSystemError
}
