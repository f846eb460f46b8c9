package provider

import (
	"context"
	"errors"
	"time"
)

// ErrNoEndSession means the provider's discovery document advertises no
// end_session_endpoint, so logout can only be local.
var ErrNoEndSession = errors.New("provider does not advertise an end_session_endpoint")

// Provider represents an upstream OIDC identity provider.
type Provider interface {
	// Name provides the name of the provider. It doubles as the plugin key
	// under which the connector is mounted by the gateway.
	Name() string

	// AuthURL returns the URL of the provider's authorization endpoint for a
	// browser redirect.
	//
	// The "state" parameter is echoed back verbatim in the provider's callback
	// and carries the post-login destination across the redirect flow.
	AuthURL(ctx context.Context, state string) string

	// Exchange completes the authorization-code exchange and verifies the
	// resulting ID token. It returns the full token set along with the
	// projected identity claims.
	Exchange(ctx context.Context, code string) (TokenSet, Claims, error)

	// EndSessionURL returns the URL of the provider's end-session endpoint for
	// a browser redirect. The prior ID token is passed as a hint and the given
	// post-logout URL is where the provider sends the browser afterwards.
	EndSessionURL(idTokenHint, postLogoutRedirect string) (string, error)
}

// TokenSet is the bundle of tokens returned by a successful code exchange.
// It is kept on the session so logout can notify the provider later.
type TokenSet struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	IDToken      string    `json:"id_token"`
	Expiry       time.Time `json:"expiry"`
}

// Claims contain the user identity asserted by the provider inside the ID token.
type Claims struct {
	// Subject is attached from the verified ID token, not from the raw claims.
	Subject string `json:"-"`

	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

// DiscoveryError means the provider's metadata document could not be fetched
// or parsed. It is fatal: the connector must not serve traffic without it.
type DiscoveryError struct {
	Issuer string
	Err    error
}

func (e *DiscoveryError) Error() string {
	return "oidc discovery against " + e.Issuer + " failed: " + e.Err.Error()
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// ExchangeError means a code exchange or the subsequent ID token verification
// failed. It is recoverable: the user simply restarts the login flow.
type ExchangeError struct {
	Reason string
	Err    error
}

func (e *ExchangeError) Error() string {
	if e.Err != nil {
		return "token exchange failed: " + e.Reason + ": " + e.Err.Error()
	}
	return "token exchange failed: " + e.Reason
}

func (e *ExchangeError) Unwrap() error { return e.Err }
