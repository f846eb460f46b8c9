package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/gatewaystack/okta-connector/internal/config"
	"github.com/gatewaystack/okta-connector/internal/provider"
)

// Marker identifies which connector established a session. The gateway uses
// the logout URL, when present, to offer the user an upstream logout.
type Marker struct {
	Plugin string `json:"plugin"`
	// LogoutURL is only set when the connector runs with explicit logout.
	LogoutURL string `json:"logout_url,omitempty"`
}

// Record is an authenticated session as produced by a completed login flow.
type Record struct {
	UserID      int64  `json:"user_id"`
	Subject     string `json:"subject"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`

	// Token is the gateway token minted for this session.
	Token string `json:"token"`
	// TokenSet is the raw token set returned by the provider. A record
	// without one is treated as already logged out upstream.
	TokenSet provider.TokenSet `json:"token_set"`

	Marker    Marker    `json:"marker"`
	CreatedAt time.Time `json:"created_at"`
}

// Store owns session records and the cookie that references them.
type Store interface {
	// Establish creates a session for the given record and sets the session cookie.
	Establish(w http.ResponseWriter, r *http.Request, rec Record) error

	// Destroy removes the session referenced by the request's cookie, if any,
	// and clears the cookie. It reports the destroyed record so callers can
	// reach its token set. Calling it with no active session is a no-op.
	Destroy(w http.ResponseWriter, r *http.Request) (Record, bool, error)
}

// cookieOptions are the cookie attributes shared by both store implementations.
type cookieOptions struct {
	name   string
	maxAge int
	secure bool
}

func cookieOptionsFromConfig(conf config.Config) cookieOptions {
	return cookieOptions{
		name:   conf.Session.CookieName,
		maxAge: int(conf.Session.TTL.Seconds()),
		// Secure mode when the application runs over HTTPS.
		secure: strings.HasPrefix(conf.Application.BaseURL, "https://"),
	}
}

// setCookie attaches the session ID cookie to the response.
func (c cookieOptions) setCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   c.maxAge,
		Secure:   c.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearCookie removes the session ID cookie from the browser.
func (c cookieOptions) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   c.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// sessionID extracts the session ID from the request's cookie.
func (c cookieOptions) sessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(c.name)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
