package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gatewaystack/okta-connector/internal/identity"
)

// mockResolver is a mock implementation of identity.Resolver.
type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) ResolveOrCreate(ctx context.Context, profile identity.Profile, plugin string) (identity.UserToken, error) {
	args := m.Called(ctx, profile, plugin)
	return args.Get(0).(identity.UserToken), args.Error(1)
}
