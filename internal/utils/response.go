package utils

import "time"

type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Error kinds reported in APIResponse.Error.
const (
	KindBadRequest       = "bad_request"
	KindNotFound         = "not_found"
	KindDuplicateName    = "duplicate_name"
	KindMethodNotAllowed = "method_not_allowed"
	KindInternal         = "internal_error"
)

func ErrorResponse(message, kind string) APIResponse {
	return APIResponse{
		Success:   false,
		Message:   message,
		Error:     kind,
		Timestamp: time.Now().UTC(),
	}
}
