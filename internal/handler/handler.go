// Package handler drives the browser-facing login and logout flows.
//
// Login is a three-leg redirect: the browser is sent to the provider's
// authorization endpoint, consents there, and returns with an authorization
// code. Logout is a two-leg redirect through the provider's end-session
// endpoint when explicit logout is enabled. No per-attempt state is held
// server-side: the post-login destination rides in the provider-echoed
// "state" parameter (see destination.go).
package handler

import (
	"net/http"
	"net/url"

	"github.com/gatewaystack/okta-connector/internal/config"
	"github.com/gatewaystack/okta-connector/internal/identity"
	"github.com/gatewaystack/okta-connector/internal/provider"
	"github.com/gatewaystack/okta-connector/internal/session"
	"github.com/gatewaystack/okta-connector/internal/utils/errutils"
	"github.com/gatewaystack/okta-connector/internal/utils/httputils"
	"github.com/gatewaystack/okta-connector/internal/utils/miscutils"
)

// Handler encapsulates all REST handlers.
type Handler struct {
	config  config.Config
	baseURL *url.URL

	provider provider.Provider
	resolver identity.Resolver
	sessions session.Store
}

// NewHandler creates a new Handler instance.
//
// The config must already be validated: the base URL is parsed here and an
// invalid one panics.
func NewHandler(conf config.Config, prov provider.Provider, resolver identity.Resolver, sessions session.Store) *Handler {
	return &Handler{
		config:   conf,
		baseURL:  miscutils.MustParseURL(conf.Application.BaseURL),
		provider: prov,
		resolver: resolver,
		sessions: sessions,
	}
}

// PluginName returns the plugin key under which the connector's routes are mounted.
func (h *Handler) PluginName() string {
	return h.provider.Name()
}

// MountPath returns the path prefix of the connector's routes.
func (h *Handler) MountPath() string {
	return "/auth/login/plugin/" + h.provider.Name()
}

// NotFound handler can be used to serve any unrecognized routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	httputils.WriteErr(w, errutils.NotFound())
}

// Health returns 200 if everything is running fine.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	info := map[string]string{"plugin": h.provider.Name()}
	httputils.Write(w, http.StatusOK, nil, info)
}
