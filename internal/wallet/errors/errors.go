package errors

import (
	"errors"
	"net/http"
)

// ValidationError covers missing, empty or malformed input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	ok := errors.As(err, &validationError)
	return ok
}

// NotFoundError covers a referenced entity that does not exist. This API
// reports domain lookups as 400, not 404.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string {
	return e.Msg
}

func NewNotFoundError(msg string) error {
	return &NotFoundError{Msg: msg}
}

func IsNotFoundError(err error) bool {
	var notFoundError *NotFoundError
	ok := errors.As(err, &notFoundError)
	return ok
}

// InternalError wraps an unexpected store failure. The wrapped cause is kept
// for logging but never written to a response.
type InternalError struct {
	Cause error
}

func (e *InternalError) Error() string {
	if e.Cause == nil {
		return "internal server error"
	}
	return e.Cause.Error()
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(cause error) error {
	return &InternalError{Cause: cause}
}

// HTTPStatus maps the taxonomy onto response codes: validation and
// not-found failures are 400, everything else is 500. Authorization checks
// never reach this mapping, the credential verifier answers 401 itself.
func HTTPStatus(err error) int {
	if IsValidationError(err) || IsNotFoundError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
