package httputils

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gatewaystack/okta-connector/internal/utils/errutils"
)

// Write writes the given status code, headers and body to the response writer.
// A nil body writes no response payload at all.
func Write(w http.ResponseWriter, status int, headers map[string]string, body any) {
	for key, value := range headers {
		w.Header().Set(key, value)
	}

	if body == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response body", "err", err)
	}
}

// WriteErr writes the given error to the response writer.
// Any non-HTTPError value is rendered as a 500.
func WriteErr(w http.ResponseWriter, err error) {
	httpErr := errutils.ToHTTPError(err)
	Write(w, httpErr.Status, nil, httpErr)
}

// Is2xx returns true if the given status code is in the 2xx range.
func Is2xx(status int) bool {
	return status >= 200 && status < 300
}

// RoundTripFunc is used to override a client transport if needed.
// This func implements the http.RoundTripper interface.
type RoundTripFunc func(req *http.Request) (*http.Response, error)

// RoundTrip will execute the round tripper func.
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
