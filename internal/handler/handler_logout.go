package handler

import (
	"log/slog"
	"net/http"
	"net/url"
)

// Logout ends the local session and, when the session carried provider
// tokens, forwards the browser to the provider's end-session endpoint.
//
// The local session is always destroyed first. Logout with no active session
// is a no-op that still redirects, so the operation is idempotent.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	destination := h.resolveDestination(r.URL.Query().Get("redirect"))

	record, present, err := h.sessions.Destroy(w, r)
	if err != nil {
		// The cookie is gone either way, treat the session as already ended.
		slog.ErrorContext(ctx, "error in Destroy call", "error", err)
	}

	// A session without provider tokens is already logged out upstream.
	if !present || record.TokenSet.IDToken == "" {
		slog.InfoContext(ctx, "no upstream session to end", "destination", destination)
		redirect(w, destination)
		return
	}

	// The post-logout callback nests the final destination as a query param.
	callback := h.config.Application.BaseURL + h.MountPath() + "/logout/return?redirect=" + url.QueryEscape(destination)

	endSessionURL, err := h.provider.EndSessionURL(record.TokenSet.IDToken, callback)
	if err != nil {
		slog.ErrorContext(ctx, "error in EndSessionURL call", "error", err)
		redirect(w, destination)
		return
	}

	slog.InfoContext(ctx, "forwarding logout to provider", "subject", record.Subject)
	redirect(w, endSessionURL)
}

// LogoutCallback handles the provider's post-logout redirect.
//
// If a session is somehow still present it is destroyed again; the double
// destroy is safe. The browser ends up on the destination nested into the
// callback URL at logout initiation.
func (h *Handler) LogoutCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, present, err := h.sessions.Destroy(w, r); err != nil {
		slog.ErrorContext(ctx, "error in Destroy call", "error", err)
	} else if present {
		slog.WarnContext(ctx, "session still present on logout return, destroyed")
	}

	destination := h.resolveDestination(r.URL.Query().Get("redirect"))
	slog.InfoContext(ctx, "logout flow completed", "destination", destination)
	redirect(w, destination)
}
