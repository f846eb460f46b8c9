package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/gatewaystack/okta-connector/internal/config"
)

// Name is the fixed name under which this connector registers with the gateway.
const Name = "okta"

// Okta implements the Provider interface for an Okta org.
//
// Discovery happens exactly once, at construction. The redirect URI presented
// during discovery is the same one used for every code exchange. Okta enforces
// an exact match, so it must never vary per request.
type Okta struct {
	oauth2Config oauth2.Config
	verifier     *oidc.IDTokenVerifier

	// endSessionEndpoint comes from the discovery document. Empty if the org
	// does not advertise one.
	endSessionEndpoint string

	httpClient   *http.Client
	timeout      time.Duration
	maxClockSkew time.Duration

	// now is a field so tests can control the clock.
	now func() time.Time
}

// oktaMetadata captures the discovery document fields that go-oidc does not
// surface through provider.Endpoint().
type oktaMetadata struct {
	EndSessionEndpoint string `json:"end_session_endpoint"`
}

// New discovers the Okta org described by the given config and returns a
// ready-to-use provider. A failure here is a *DiscoveryError.
func New(ctx context.Context, conf config.Config) (*Okta, error) {
	issuer := strings.TrimSuffix(conf.Okta.Issuer, "/")
	httpClient := newHTTPClient(conf.Application.Name, conf.Okta.RequestTimeout)

	// Bound the discovery call and route it through the identifying client.
	dctx, cancel := context.WithTimeout(ctx, conf.Okta.RequestTimeout)
	defer cancel()
	dctx = oidc.ClientContext(dctx, httpClient)

	oidcProvider, err := oidc.NewProvider(dctx, issuer)
	if err != nil {
		return nil, &DiscoveryError{Issuer: issuer, Err: err}
	}

	var metadata oktaMetadata
	if err := oidcProvider.Claims(&metadata); err != nil {
		return nil, &DiscoveryError{Issuer: issuer, Err: fmt.Errorf("failed to decode provider metadata: %w", err)}
	}

	// Expiry and issued-at are checked manually against the configured clock
	// skew tolerance, see Exchange.
	verifier := oidcProvider.Verifier(&oidc.Config{
		ClientID:        conf.Okta.ClientID,
		SkipExpiryCheck: true,
	})

	return &Okta{
		oauth2Config: oauth2.Config{
			ClientID:     conf.Okta.ClientID,
			ClientSecret: conf.Okta.ClientSecret,
			RedirectURL:  RedirectURL(conf.Application.BaseURL),
			Endpoint:     oidcProvider.Endpoint(),
			Scopes:       strings.Fields(conf.Okta.Scopes),
		},
		verifier:           verifier,
		endSessionEndpoint: metadata.EndSessionEndpoint,
		httpClient:         httpClient,
		timeout:            conf.Okta.RequestTimeout,
		maxClockSkew:       conf.Okta.MaxClockSkew,
		now:                time.Now,
	}, nil
}

// RedirectURL returns the fixed provider callback URL for the given base URL.
func RedirectURL(baseURL string) string {
	return fmt.Sprintf("%s/auth/login/plugin/%s/return", strings.TrimSuffix(baseURL, "/"), Name)
}

func (o *Okta) Name() string {
	return Name
}

func (o *Okta) AuthURL(_ context.Context, state string) string {
	return o.oauth2Config.AuthCodeURL(state)
}

func (o *Okta) Exchange(ctx context.Context, code string) (TokenSet, Claims, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()
	// Routes both the code exchange and the verifier's key fetch through the
	// identifying client.
	ctx = oidc.ClientContext(ctx, o.httpClient)

	token, err := o.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return TokenSet{}, Claims{}, &ExchangeError{Reason: "provider rejected the authorization code", Err: err}
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return TokenSet{}, Claims{}, &ExchangeError{Reason: "token response carries no id_token"}
	}

	idToken, err := o.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return TokenSet{}, Claims{}, &ExchangeError{Reason: "id_token verification failed", Err: err}
	}

	// Timestamp checks with the configured skew tolerance.
	now := o.now()
	if idToken.Expiry.Add(o.maxClockSkew).Before(now) {
		return TokenSet{}, Claims{}, &ExchangeError{
			Reason: fmt.Sprintf("id_token expired at %s", idToken.Expiry.Format(time.RFC3339)),
		}
	}
	if idToken.IssuedAt.After(now.Add(o.maxClockSkew)) {
		return TokenSet{}, Claims{}, &ExchangeError{
			Reason: fmt.Sprintf("id_token issued in the future at %s", idToken.IssuedAt.Format(time.RFC3339)),
		}
	}

	var claims Claims
	if err := idToken.Claims(&claims); err != nil {
		return TokenSet{}, Claims{}, &ExchangeError{Reason: "failed to decode id_token claims", Err: err}
	}
	claims.Subject = idToken.Subject

	tokenSet := TokenSet{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		IDToken:      rawIDToken,
		Expiry:       token.Expiry,
	}

	return tokenSet, claims, nil
}

func (o *Okta) EndSessionURL(idTokenHint, postLogoutRedirect string) (string, error) {
	if o.endSessionEndpoint == "" {
		return "", ErrNoEndSession
	}

	endURL, err := url.Parse(o.endSessionEndpoint)
	if err != nil {
		return "", fmt.Errorf("invalid end_session_endpoint: %w", err)
	}

	query := endURL.Query()
	query.Set("id_token_hint", idTokenHint)
	query.Set("post_logout_redirect_uri", postLogoutRedirect)
	query.Set("client_id", o.oauth2Config.ClientID)
	endURL.RawQuery = query.Encode()

	return endURL.String(), nil
}
