package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Invalid is a local validation failure: the message is shown inline and no
// backend call has been made.
func Invalid(code, message string) *Error {
	return New(http.StatusBadRequest, code, errors.New(message))
}

func Forbidden(code, message string) *Error {
	return New(http.StatusForbidden, code, errors.New(message))
}

// Remote wraps a backend failure; the backend message is kept verbatim.
func Remote(status int, code string, err error) *Error {
	if status == 0 {
		status = http.StatusBadGateway
	}
	return New(status, code, err)
}

// As extracts an *Error from err, falling back to a 500 wrapper.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae
	}
	return New(http.StatusInternalServerError, "internal_error", err)
}

func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae != nil {
		return ae.Code
	}
	return ""
}
