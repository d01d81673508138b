package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors. The AUTH_* family always implies the stored
// credentials have been (or must be) cleared before the response is sent.
var (
	ErrAuthMissing   = New("AUTH_MISSING", http.StatusUnauthorized, "authentication required")
	ErrAuthExpired   = New("AUTH_EXPIRED", http.StatusUnauthorized, "session expired, please log in again")
	ErrAuthMalformed = New("AUTH_MALFORMED", http.StatusUnauthorized, "invalid session token")
	ErrRoleMissing   = New("AUTH_ROLE_MISSING", http.StatusUnauthorized, "token carries no role identifier")
	ErrRoleMismatch  = New("ROLE_MISMATCH", http.StatusForbidden, "role is not permitted for this resource")

	ErrUpstream          = New("UPSTREAM_ERROR", http.StatusBadGateway, "upstream request failed")
	ErrTransport         = New("TRANSPORT_ERROR", http.StatusBadGateway, "could not reach the wallet service")
	ErrValidation        = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInsufficientFunds = New("INSUFFICIENT_BALANCE", http.StatusBadRequest, "amount exceeds available balance")
	ErrSubmissionActive  = New("SUBMISSION_IN_FLIGHT", http.StatusConflict, "a submission is already in progress")
	ErrSelectionRequired = New("SELECTION_REQUIRED", http.StatusBadRequest, "no party selected")

	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrForbidden    = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrCacheMiss    = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// IsAuthFailure reports whether err belongs to the AUTH_* family that
// requires the token store to be cleared and the client to re-authenticate.
func IsAuthFailure(err error) bool {
	e := FromError(err)
	if e == nil {
		return false
	}
	switch e.Code {
	case ErrAuthMissing.Code, ErrAuthExpired.Code, ErrAuthMalformed.Code, ErrRoleMissing.Code, ErrUnauthorized.Code:
		return true
	}
	return false
}
