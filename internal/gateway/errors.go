package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Validation errors are returned before any request is sent.
var (
	ErrAccountRequired   = errors.New("an account must be selected")
	ErrAlertTypeRequired = errors.New("please select an emergency type")
	ErrSeverityRequired  = errors.New("please select a severity level")
	ErrMessageRequired   = errors.New("please provide your current location or a description")
	ErrNameRequired      = errors.New("name is required")
	ErrPhoneRequired     = errors.New("phone number is required")
	ErrIDRequired        = errors.New("id is required")
)

// IsValidation reports whether err is one of the local validation errors.
func IsValidation(err error) bool {
	for _, v := range []error{
		ErrAccountRequired, ErrAlertTypeRequired, ErrSeverityRequired,
		ErrMessageRequired, ErrNameRequired, ErrPhoneRequired, ErrIDRequired,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// Error is a failure reported by the backend, or a transport failure while
// reaching it. Message is safe to show to the user.
type Error struct {
	Procedure  string
	Code       string // tRPC error code, e.g. BAD_REQUEST, NOT_FOUND
	HTTPStatus int
	Message    string
	cause      error
	noRetry    bool
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Procedure, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Procedure, e.Message)
}

// Unwrap exposes the underlying transport error, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Retryable reports whether repeating the same call could succeed.
// Transport failures, 429 and 5xx are retryable; other 4xx are not.
func (e *Error) Retryable() bool {
	if e.noRetry {
		return false
	}
	if e.cause != nil {
		return !errors.Is(e.cause, context.Canceled) && !errors.Is(e.cause, context.DeadlineExceeded)
	}
	return e.HTTPStatus == http.StatusTooManyRequests || e.HTTPStatus >= 500
}

// UserMessage returns the text to show for err: the backend message for
// gateway errors, the error text otherwise.
func UserMessage(err error) string {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

func transportError(proc string, err error) *Error {
	return &Error{
		Procedure: proc,
		Message:   "unable to reach server",
		cause:     errors.Wrapf(err, "%s", proc),
	}
}
