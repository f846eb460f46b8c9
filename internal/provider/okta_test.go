package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/oauth2-proxy/mockoidc"
	"github.com/stretchr/testify/require"

	"github.com/gatewaystack/okta-connector/internal/config"
)

// newDiscoveryServer serves a minimal discovery document whose endpoints all
// point back at the server itself.
func newDiscoveryServer(t *testing.T, withEndSession bool) (*httptest.Server, *string) {
	t.Helper()

	var gotUserAgent string
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")

		doc := map[string]any{
			"issuer":                 server.URL,
			"authorization_endpoint": server.URL + "/oauth2/v1/authorize",
			"token_endpoint":         server.URL + "/oauth2/v1/token",
			"jwks_uri":               server.URL + "/oauth2/v1/keys",
		}
		if withEndSession {
			doc["end_session_endpoint"] = server.URL + "/oauth2/v1/logout"
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	})

	return server, &gotUserAgent
}

func TestNew(t *testing.T) {
	server, gotUserAgent := newDiscoveryServer(t, true)

	conf := config.LoadMock()
	conf.Okta.Issuer = server.URL

	okta, err := New(context.Background(), conf)
	require.NoError(t, err, "New should not have returned an error")
	require.Equal(t, Name, okta.Name(), "Provider has the wrong name")

	// Discovery must identify itself.
	require.Equal(t, UserAgent(conf.Application.Name), *gotUserAgent, "Discovery sent the wrong user agent")

	// The auth URL must come from the discovery document and carry the state verbatim.
	authURL, err := url.Parse(okta.AuthURL(context.Background(), "https://example.org/dashboard"))
	require.NoError(t, err, "Failed to parse the auth URL")
	require.Equal(t, "/oauth2/v1/authorize", authURL.Path, "Auth URL has the wrong path")
	require.Equal(t, conf.Okta.ClientID, authURL.Query().Get("client_id"), "Auth URL has the wrong client_id")
	require.Equal(t, "https://example.org/dashboard", authURL.Query().Get("state"), "Auth URL has the wrong state")
	require.Equal(t, RedirectURL(conf.Application.BaseURL), authURL.Query().Get("redirect_uri"),
		"Auth URL has the wrong redirect_uri")
}

func TestNew_TrailingSlashIssuer(t *testing.T) {
	server, _ := newDiscoveryServer(t, false)

	conf := config.LoadMock()
	conf.Okta.Issuer = server.URL + "/"

	_, err := New(context.Background(), conf)
	require.NoError(t, err, "New should tolerate a trailing slash on the issuer")
}

func TestNew_DiscoveryFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	conf := config.LoadMock()
	conf.Okta.Issuer = server.URL

	_, err := New(context.Background(), conf)
	require.Error(t, err, "New should have returned an error")

	discErr := &DiscoveryError{}
	require.ErrorAs(t, err, &discErr, "Error should be a DiscoveryError")
	require.Equal(t, server.URL, discErr.Issuer, "DiscoveryError carries the wrong issuer")
}

func TestNew_DiscoveryTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	conf := config.LoadMock()
	conf.Okta.Issuer = server.URL
	conf.Okta.RequestTimeout = 50 * time.Millisecond

	_, err := New(context.Background(), conf)
	require.Error(t, err, "New should have returned an error")
	require.ErrorAs(t, err, new(*DiscoveryError), "Error should be a DiscoveryError")
}

func TestEndSessionURL(t *testing.T) {
	server, _ := newDiscoveryServer(t, true)

	conf := config.LoadMock()
	conf.Okta.Issuer = server.URL

	okta, err := New(context.Background(), conf)
	require.NoError(t, err, "New should not have returned an error")

	endURL, err := okta.EndSessionURL("mock-id-token", "https://example.org/goodbye")
	require.NoError(t, err, "EndSessionURL should not have returned an error")

	parsed, err := url.Parse(endURL)
	require.NoError(t, err, "Failed to parse the end-session URL")
	require.Equal(t, "/oauth2/v1/logout", parsed.Path, "End-session URL has the wrong path")
	require.Equal(t, "mock-id-token", parsed.Query().Get("id_token_hint"), "Wrong id_token_hint")
	require.Equal(t, "https://example.org/goodbye", parsed.Query().Get("post_logout_redirect_uri"),
		"Wrong post_logout_redirect_uri")
	require.Equal(t, conf.Okta.ClientID, parsed.Query().Get("client_id"), "Wrong client_id")
}

func TestEndSessionURL_NotAdvertised(t *testing.T) {
	server, _ := newDiscoveryServer(t, false)

	conf := config.LoadMock()
	conf.Okta.Issuer = server.URL

	okta, err := New(context.Background(), conf)
	require.NoError(t, err, "New should not have returned an error")

	_, err = okta.EndSessionURL("mock-id-token", "https://example.org/goodbye")
	require.ErrorIs(t, err, ErrNoEndSession, "EndSessionURL should report the missing endpoint")
}

// newMockProvider spins up a full mock OIDC server and discovers it.
func newMockProvider(t *testing.T) (*mockoidc.MockOIDC, *Okta) {
	t.Helper()

	m, err := mockoidc.Run()
	require.NoError(t, err, "Failed to start the mock OIDC server")
	t.Cleanup(func() { _ = m.Shutdown() })

	conf := config.LoadMock()
	conf.Okta.Issuer = m.Issuer()
	conf.Okta.ClientID = m.Config().ClientID
	conf.Okta.ClientSecret = m.Config().ClientSecret

	okta, err := New(context.Background(), conf)
	require.NoError(t, err, "New should not have returned an error")

	return m, okta
}

// obtainCode drives the authorization leg for the queued user and returns the
// code from the redirect back to the callback URL.
func obtainCode(t *testing.T, okta *Okta, state string) string {
	t.Helper()

	// Stop at the redirect back to the connector instead of following it.
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Get(okta.AuthURL(context.Background(), state))
	require.NoError(t, err, "Authorization request failed")
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusFound, resp.StatusCode, "Authorization should redirect")

	loc, err := resp.Location()
	require.NoError(t, err, "Redirect carries no location")
	require.Equal(t, state, loc.Query().Get("state"), "State did not round-trip")

	code := loc.Query().Get("code")
	require.NotEmpty(t, code, "Redirect carries no code")
	return code
}

func TestExchange(t *testing.T) {
	m, okta := newMockProvider(t)
	m.QueueUser(&mockoidc.MockUser{Subject: "user-1", Email: "jane@example.org"})

	code := obtainCode(t, okta, "https://example.org/dashboard")

	tokenSet, claims, err := okta.Exchange(context.Background(), code)
	require.NoError(t, err, "Exchange should not have returned an error")

	require.Equal(t, "user-1", claims.Subject, "Claims carry the wrong subject")
	require.Equal(t, "jane@example.org", claims.Email, "Claims carry the wrong email")

	require.NotEmpty(t, tokenSet.AccessToken, "Token set carries no access token")
	require.NotEmpty(t, tokenSet.IDToken, "Token set carries no ID token")
	require.True(t, tokenSet.Expiry.After(time.Now()), "Access token already expired")
}

func TestExchange_BadCode(t *testing.T) {
	_, okta := newMockProvider(t)

	_, _, err := okta.Exchange(context.Background(), "not-a-real-code")
	require.Error(t, err, "Exchange should have returned an error")
	require.ErrorAs(t, err, new(*ExchangeError), "Error should be an ExchangeError")
}

func TestExchange_ClockSkew(t *testing.T) {
	for _, tc := range []struct {
		name       string
		nowOffset  time.Duration
		wantReason string
	}{
		{
			name: "Clock far ahead, token looks expired.",
			// Well past the token TTL plus the tolerated skew.
			nowOffset:  48 * time.Hour,
			wantReason: "expired",
		},
		{
			name: "Clock far behind, token looks issued in the future.",
			nowOffset:  -48 * time.Hour,
			wantReason: "issued in the future",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m, okta := newMockProvider(t)
			m.QueueUser(&mockoidc.MockUser{Subject: "user-1", Email: "jane@example.org"})
			okta.now = func() time.Time { return time.Now().Add(tc.nowOffset) }

			code := obtainCode(t, okta, "https://example.org/dashboard")

			_, _, err := okta.Exchange(context.Background(), code)
			require.Error(t, err, "Exchange should have returned an error")

			exchErr := &ExchangeError{}
			require.ErrorAs(t, err, &exchErr, "Error should be an ExchangeError")
			require.Contains(t, exchErr.Reason, tc.wantReason, "ExchangeError has the wrong reason")
		})
	}
}

func TestRedirectURL(t *testing.T) {
	expected := fmt.Sprintf("https://example.org/auth/login/plugin/%s/return", Name)
	require.Equal(t, expected, RedirectURL("https://example.org"), "Wrong redirect URL")
	require.Equal(t, expected, RedirectURL("https://example.org/"), "Trailing slash should not change the redirect URL")
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent("")
	require.Contains(t, ua, "okta-connector/"+Version, "Empty app name should fall back to the connector name")
	require.Contains(t, UserAgent("gateway"), "gateway/"+Version, "User agent should carry the app name")
}
