package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gatewaystack/okta-connector/internal/identity"
	"github.com/gatewaystack/okta-connector/internal/session"
)

var (
	errProviderDenied = errors.New("identity provider rejected the login attempt")
	errMissingCode    = errors.New("callback carries no authorization code")
	// errMissingEmail is terminal for the attempt, there is no retry. The
	// gateway cannot reconcile an identity without an email address.
	errMissingEmail = errors.New("identity provider returned no email for this account")
)

// Callback handles the provider's OAuth callback.
//
// Every expected failure on this path redirects the browser to the
// destination carried in the echoed state, with error details attached. No
// partial session is ever left behind: the session is established last, after
// token exchange and identity resolution have both succeeded.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Obtain params from the request. The state is the destination chosen at
	// flow initiation, echoed back verbatim by the provider.
	query := r.URL.Query()
	state, code, errParam := query.Get("state"), query.Get("code"), query.Get("error")
	destination := h.resolveDestination(state)

	// If this param is not empty, the flow has failed from the provider's side.
	if errParam != "" {
		slog.ErrorContext(ctx, "provider called back with error", "error", errParam,
			"description", query.Get("error_description"))
		errorRedirect(w, errProviderDenied, destination)
		return
	}

	if code == "" {
		slog.ErrorContext(ctx, "provider called back without a code")
		errorRedirect(w, errMissingCode, destination)
		return
	}

	// Convert the code sent by the provider to a verified token set.
	tokenSet, claims, err := h.provider.Exchange(ctx, code)
	if err != nil {
		slog.ErrorContext(ctx, "error in Exchange call", "error", err)
		errorRedirect(w, err, destination)
		return
	}

	// Email is mandatory, the flow fails without it.
	if claims.Email == "" {
		slog.ErrorContext(ctx, "claims carry no email", "subject", claims.Subject)
		errorRedirect(w, errMissingEmail, destination)
		return
	}

	// Resolve or create the persistent user and mint a gateway token.
	userToken, err := h.resolver.ResolveOrCreate(ctx, identity.Profile{
		Subject:     claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		GivenName:   claims.GivenName,
		FamilyName:  claims.FamilyName,
	}, h.provider.Name())
	if err != nil {
		slog.ErrorContext(ctx, "error in ResolveOrCreate call", "error", err)
		errorRedirect(w, err, destination)
		return
	}

	// The marker advertises an upstream logout URL only under explicit logout.
	marker := session.Marker{Plugin: h.provider.Name()}
	if h.config.Okta.ExplicitLogout {
		marker.LogoutURL = h.config.Application.BaseURL + h.MountPath() + "/logout"
	}

	record := session.Record{
		UserID:      userToken.UserID,
		Subject:     claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		Token:       userToken.Token,
		TokenSet:    tokenSet,
		Marker:      marker,
		CreatedAt:   time.Now(),
	}
	if err := h.sessions.Establish(w, r, record); err != nil {
		slog.ErrorContext(ctx, "error in Establish call", "error", err)
		errorRedirect(w, errors.New("failed to establish session"), destination)
		return
	}

	slog.InfoContext(ctx, "login flow completed", "subject", claims.Subject, "destination", destination)
	redirect(w, destination)
}
