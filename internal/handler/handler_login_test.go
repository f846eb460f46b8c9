package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gatewaystack/okta-connector/internal/config"
)

func TestHandler_Login_DestinationResolution(t *testing.T) {
	conf := config.LoadMock()

	for _, tc := range []struct {
		name          string
		inputRedirect string
		wantState     string
	}{
		{
			name:          "Absent redirect falls back to the configured default",
			inputRedirect: "",
			wantState:     conf.Okta.DefaultRedirect,
		},
		{
			name:          "Relative redirect is resolved against the base URL",
			inputRedirect: "/dashboard",
			wantState:     "https://example.org/dashboard",
		},
		{
			name:          "Absolute redirect is used as is",
			inputRedirect: "https://other.example.org/after",
			wantState:     "https://other.example.org/after",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			mProvider := &mockProvider{name: "okta", authURL: "https://acme.okta.com/oauth2/v1/authorize?mock=1"}
			mHandler := NewHandler(conf, mProvider, &mockResolver{}, &mockSessionStore{})

			// Mock HTTP response and request.
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, mHandler.MountPath(), nil)

			// Set query params.
			q := req.URL.Query()
			q.Set("redirect", tc.inputRedirect)
			req.URL.RawQuery = q.Encode()

			// Call the method to test.
			mHandler.Login(rr, req)

			// Verifications.
			require.Equal(t, http.StatusFound, rr.Code, "Expected 302 status code")
			require.Equal(t, mProvider.authURL, rr.Header().Get("Location"))
			require.Equal(t, tc.wantState, mProvider.argState, "State must carry the resolved destination")
		})
	}
}

func TestHandler_Login_FrameBlockingHeaders(t *testing.T) {
	mProvider := &mockProvider{name: "okta", authURL: "https://acme.okta.com/authorize"}
	mHandler := NewHandler(config.LoadMock(), mProvider, &mockResolver{}, &mockSessionStore{})

	rr := httptest.NewRecorder()
	mHandler.Login(rr, httptest.NewRequest(http.MethodGet, "/auth/login/plugin/okta", nil))

	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	require.Equal(t, "frame-ancestors 'none'", rr.Header().Get("Content-Security-Policy"))
}
