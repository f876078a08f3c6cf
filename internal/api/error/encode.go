// Package error contains the API error taxonomy and JSON encoding helpers.
package error

import (
	"encoding/json"
	"net/http"
)

// Error is the JSON body for failed requests. Success is always false; it is
// serialized explicitly because successful envelopes carry success=true and
// clients key off the field.
type Error struct {
	Success bool      `json:"success"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	ErrorID string    `json:"error_id,omitempty"`
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// EncodeError writes the error body with the code's mapped status.
func EncodeError(w http.ResponseWriter, code ErrorCode, message, requestID string) error {
	body := Error{
		Success: false,
		Code:    code,
		Message: message,
		ErrorID: requestID,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code.StatusCode())
	return json.NewEncoder(w).Encode(body)
}

func EncodeInternalError(w http.ResponseWriter, requestID string) error {
	return EncodeError(w, InternalServerError, "internal server error", requestID)
}
