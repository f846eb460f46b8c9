package handler

import (
	"log/slog"
	"net/http"
)

// Login starts the OIDC flow by redirecting the caller to the provider's
// authorization endpoint with the configured scope.
//
// The optional "redirect" query parameter picks the post-login destination;
// it is resolved against the external base URL and embedded verbatim as the
// provider-visible state token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	destination := h.resolveDestination(r.URL.Query().Get("redirect"))
	authURL := h.provider.AuthURL(ctx, destination)

	slog.InfoContext(ctx, "starting login flow", "plugin", h.provider.Name(), "destination", destination)
	redirect(w, authURL)
}
