package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/yungbote/pitchbridge/internal/backend"
	"github.com/yungbote/pitchbridge/internal/platform/apierr"
)

// FormState is the submit control of an auth form after a call returns.
type FormState struct {
	Enabled bool   `json:"enabled"`
	Label   string `json:"label"`
}

const (
	SignUpLabel = "Create Account →"
	SignInLabel = "Sign In →"
)

// FormError is a failed form submission: the inline message plus the restored control.
type FormError struct {
	Err  *apierr.Error
	Form FormState
}

func (e *FormError) Error() string { return e.Err.Error() }

func (e *FormError) Unwrap() error { return e.Err }

func formError(label string, err *apierr.Error) error {
	return &FormError{Err: err, Form: FormState{Enabled: true, Label: label}}
}

// remote wraps a backend failure for the HTTP boundary. The backend's message
// survives verbatim; status is used when the failure came from the backend.
func remote(status int, code string, err error) *apierr.Error {
	var be *backend.Error
	switch {
	case errors.As(err, &be):
		return apierr.Remote(status, code, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apierr.Remote(http.StatusGatewayTimeout, code, err)
	default:
		return apierr.Remote(http.StatusBadGateway, code, err)
	}
}

// notice wraps err with a user-facing message while keeping it in the chain.
type noticeErr struct {
	msg string
	err error
}

func (n *noticeErr) Error() string { return n.msg }
func (n *noticeErr) Unwrap() error { return n.err }

func withNotice(format string, err error) error {
	return &noticeErr{msg: fmt.Sprintf(format, err.Error()), err: err}
}

var errNotSignedIn = apierr.New(http.StatusUnauthorized, "not_signed_in", errors.New("Please sign in first."))
