package handler

import (
	"context"

	"github.com/gatewaystack/okta-connector/internal/provider"
)

// mockProvider is a mock implementation of the provider.Provider interface.
type mockProvider struct {
	// To mock the Name method.
	name string
	// To mock the AuthURL method.
	argState string
	authURL  string
	// To mock the Exchange method.
	argCode     string
	errExchange error
	tokenSet    provider.TokenSet
	claims      provider.Claims
	// To mock the EndSessionURL method.
	argIDTokenHint        string
	argPostLogoutRedirect string
	errEndSession         error
	endSessionURL         string
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) AuthURL(_ context.Context, state string) string {
	m.argState = state
	return m.authURL
}

func (m *mockProvider) Exchange(_ context.Context, code string) (provider.TokenSet, provider.Claims, error) {
	m.argCode = code
	if m.errExchange != nil {
		return provider.TokenSet{}, provider.Claims{}, m.errExchange
	}
	return m.tokenSet, m.claims, nil
}

func (m *mockProvider) EndSessionURL(idTokenHint, postLogoutRedirect string) (string, error) {
	m.argIDTokenHint = idTokenHint
	m.argPostLogoutRedirect = postLogoutRedirect
	if m.errEndSession != nil {
		return "", m.errEndSession
	}
	return m.endSessionURL, nil
}

// Clone is a utility method to quickly create a copy.
func (m *mockProvider) Clone() *mockProvider {
	clone := &mockProvider{}
	*clone = *m
	return clone
}
