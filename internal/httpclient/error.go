package httpclient

import (
	"fmt"

	ierr "github.com/ahamo-portal/portal/internal/errors"
)

// Error represents a non-2xx response from an upstream service
type Error struct {
	StatusCode int
	Response   []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("http client error: status %d", e.StatusCode)
}

// NewError creates a new HTTP client error marked as ErrHTTPClient
func NewError(method, url string, statusCode int, response []byte) error {
	return ierr.WithError(&Error{StatusCode: statusCode, Response: response}).
		WithMessage(fmt.Sprintf("%s %s", method, url)).
		WithHint("The upstream service returned an error").
		WithReportableDetails(map[string]any{
			"upstream_status": statusCode,
		}).
		Mark(ierr.ErrHTTPClient)
}

// IsHTTPError checks if an error is an HTTP client error
func IsHTTPError(err error) (*Error, bool) {
	var httpErr *Error
	if ierr.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}
