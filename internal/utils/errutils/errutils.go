package errutils

import (
	"errors"
	"net/http"
)

// HTTPError implements the error interface and holds enough information
// to render a meaningful HTTP error response.
type HTTPError struct {
	Status int    `json:"-"`
	Code   string `json:"code"`
	Reason string `json:"reason,omitempty"`
}

// Error makes *HTTPError implement the error interface.
func (h *HTTPError) Error() string {
	if h.Reason != "" {
		return h.Code + ": " + h.Reason
	}
	return h.Code
}

// WithReasonStr attaches the given string as the reason of the error.
func (h *HTTPError) WithReasonStr(reason string) *HTTPError {
	clone := *h
	clone.Reason = reason
	return &clone
}

// WithReasonErr attaches the given error's message as the reason of the error.
func (h *HTTPError) WithReasonErr(err error) *HTTPError {
	return h.WithReasonStr(err.Error())
}

// ToHTTPError converts any error to an *HTTPError.
// If the given error is not an *HTTPError, it is wrapped into a 500.
func ToHTTPError(err error) *HTTPError {
	httpErr := &HTTPError{}
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return InternalServerError().WithReasonErr(err)
}

func BadRequest() *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Code: http.StatusText(http.StatusBadRequest)}
}

func Unauthorized() *HTTPError {
	return &HTTPError{Status: http.StatusUnauthorized, Code: http.StatusText(http.StatusUnauthorized)}
}

func NotFound() *HTTPError {
	return &HTTPError{Status: http.StatusNotFound, Code: http.StatusText(http.StatusNotFound)}
}

func RequestTimeout() *HTTPError {
	return &HTTPError{Status: http.StatusRequestTimeout, Code: http.StatusText(http.StatusRequestTimeout)}
}

func InternalServerError() *HTTPError {
	return &HTTPError{Status: http.StatusInternalServerError, Code: http.StatusText(http.StatusInternalServerError)}
}
