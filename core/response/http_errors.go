package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/liftoff/core/handler"
)

// HTTPError is an error with an HTTP status code and a JSON representation.
type HTTPError struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// NewHTTPError returns an error for status with the standard status text.
// Unknown status codes become 500.
func NewHTTPError(status int) HTTPError {
	text := http.StatusText(status)
	if text == "" || status < 400 {
		status = http.StatusInternalServerError
		text = http.StatusText(status)
	}
	return HTTPError{
		Status:  status,
		Code:    strings.ReplaceAll(strings.ToLower(strings.NewReplacer("'", "", "-", " ").Replace(text)), " ", "_"),
		Message: text,
	}
}

func (e HTTPError) Error() string {
	return e.Message
}

// StatusCode implements handler.StatusCoder.
func (e HTTPError) StatusCode() int {
	return e.Status
}

// WithMessage returns a copy of the error with a custom message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithDetails returns a copy of the error with additional details.
func (e HTTPError) WithDetails(details map[string]any) HTTPError {
	e.Details = details
	return e
}

var (
	ErrBadRequest          = NewHTTPError(http.StatusBadRequest)
	ErrUnauthorized        = NewHTTPError(http.StatusUnauthorized)
	ErrForbidden           = NewHTTPError(http.StatusForbidden)
	ErrNotFound            = NewHTTPError(http.StatusNotFound)
	ErrMethodNotAllowed    = NewHTTPError(http.StatusMethodNotAllowed)
	ErrConflict            = NewHTTPError(http.StatusConflict)
	ErrUnprocessableEntity = NewHTTPError(http.StatusUnprocessableEntity)
	ErrTooManyRequests     = NewHTTPError(http.StatusTooManyRequests)
	ErrInternalServerError = NewHTTPError(http.StatusInternalServerError)
	ErrServiceUnavailable  = NewHTTPError(http.StatusServiceUnavailable)
)

// StatusOf returns the status code carried by err: the StatusCode of the
// first handler.StatusCoder in its chain, or 500.
func StatusOf(err error) int {
	var sc handler.StatusCoder
	if errors.As(err, &sc) {
		if code := sc.StatusCode(); code >= 400 && code <= 599 {
			return code
		}
	}
	return http.StatusInternalServerError
}
