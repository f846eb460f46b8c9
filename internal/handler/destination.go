package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gatewaystack/okta-connector/internal/utils/httputils"
)

// The "state" parameter round-tripped through the provider is the post-login
// destination URL itself, and nothing else. Its integrity relies entirely on
// the provider echoing it back unmodified; there is no CSRF nonce distinct
// from the destination.

// resolveDestination applies the one destination rule shared by all four
// endpoints: an explicit value wins over the configured default, and relative
// paths are resolved against the external base URL before being handed to a
// browser redirect.
func (h *Handler) resolveDestination(raw string) string {
	if raw == "" {
		raw = h.config.Okta.DefaultRedirect
	}

	ref, err := url.Parse(raw)
	if err != nil {
		slog.Error("destination is not a valid URL, falling back to default", "value", raw, "error", err)
		ref, err = url.Parse(h.config.Okta.DefaultRedirect)
		if err != nil {
			return h.config.Application.BaseURL
		}
	}

	return h.baseURL.ResolveReference(ref).String()
}

// redirect writes a 302 to the given URL along with headers that stop the
// target from being rendered in a frame.
func redirect(w http.ResponseWriter, targetURL string) {
	headers := map[string]string{
		"Location": targetURL,
		// The following headers make sure that the browser is not allowed to render
		// the page in a <frame>, <iframe>, <embed> or <object> tag.
		"X-Frame-Options":         "DENY",
		"Content-Security-Policy": "frame-ancestors 'none'",
	}
	httputils.Write(w, http.StatusFound, headers, nil)
}

// errorRedirect redirects the browser to the given destination with the error
// attached as a query parameter. The expected per-request failures all end
// here instead of surfacing as a raw 500.
func errorRedirect(w http.ResponseWriter, err error, targetURL string) {
	parsed, parseErr := url.Parse(targetURL)
	if parseErr != nil {
		// Still a redirect, never a raw fault.
		redirect(w, fmt.Sprintf("%s?error=%s", targetURL, url.QueryEscape(err.Error())))
		return
	}

	query := parsed.Query()
	query.Set("error", err.Error())
	parsed.RawQuery = query.Encode()
	redirect(w, parsed.String())
}
