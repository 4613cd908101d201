package errors

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
)

const (
	ErrorStatus           = "error"
	defaultDisplayMessage = "An unexpected error occurred"
)

// ErrorResponse is the error record returned to API callers. It is never
// combined with success data.
type ErrorResponse struct {
	Status    string         `json:"status"`
	Message   string         `json:"message"`
	Timestamp string         `json:"timestamp"`
	Code      string         `json:"code,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// NewErrorResponse builds the external error record for err at the given time.
func NewErrorResponse(err error, at time.Time) ErrorResponse {
	return ErrorResponse{
		Status:    ErrorStatus,
		Message:   DisplayMessage(err),
		Timestamp: at.UTC().Format(time.RFC3339),
		Code:      CodeFromErr(err),
		Details:   SafeDetails(err),
	}
}

// DisplayMessage returns the first non-empty hint attached to err.
func DisplayMessage(err error) string {
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		// GetAllHints is post-order traversal
		for _, hint := range hints {
			if hint = strings.TrimSpace(hint); hint != "" {
				return hint
			}
		}
	}

	return defaultDisplayMessage
}

// SafeDetails collects the reportable details attached with WithReportableDetails.
func SafeDetails(err error) map[string]any {
	details := make(map[string]any)

	for _, sdp := range errors.GetAllSafeDetails(err) {
		for _, payload := range sdp.SafeDetails {
			if len(payload) > 9 && strings.HasPrefix(payload, "__json__:") {
				var jsonDetails map[string]any
				if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal([]byte(payload[9:]), &jsonDetails); err == nil {
					for k, v := range jsonDetails {
						details[k] = v
					}
				}
			}
		}
	}

	if len(details) == 0 {
		return nil
	}
	return details
}
