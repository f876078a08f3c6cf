package error

import "net/http"

type ErrorCode string

const (
	UnknownError        ErrorCode = "unknown_error"
	InternalServerError ErrorCode = "internal_server_error"
	BadRequest          ErrorCode = "bad_request"
	MissingFields       ErrorCode = "missing_fields"
	InvalidCredentials  ErrorCode = "invalid_credentials"
	EmailConflict       ErrorCode = "email_conflict"
	NotAuthorized       ErrorCode = "not_authorized"
	InvalidAccessToken  ErrorCode = "invalid_access_token"
	DatabaseError       ErrorCode = "database_error"
)

// The authorization gate rejects with 400 on every branch, matching the
// public contract of the service, so token failures do not map to 401 here.
var errorCodeToStatusCode = map[ErrorCode]int{
	UnknownError:        0, // No error code - unknown
	InternalServerError: http.StatusInternalServerError,
	BadRequest:          http.StatusBadRequest,
	MissingFields:       http.StatusBadRequest,
	InvalidCredentials:  http.StatusBadRequest,
	EmailConflict:       http.StatusBadRequest,
	NotAuthorized:       http.StatusBadRequest,
	InvalidAccessToken:  http.StatusBadRequest,
	DatabaseError:       http.StatusBadRequest,
}

func (ec ErrorCode) StatusCode() int {
	return errorCodeToStatusCode[ec]
}

func (ec ErrorCode) String() string {
	return string(ec)
}
