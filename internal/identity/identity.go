// Package identity resolves a provider-asserted identity into a persistent
// gateway user and a freshly minted gateway token.
package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/gatewaystack/okta-connector/internal/repository"
	"github.com/gatewaystack/okta-connector/internal/token"
)

// Profile is the identity asserted by the provider, projected from ID token claims.
type Profile struct {
	Subject     string
	Email       string
	DisplayName string
	GivenName   string
	FamilyName  string
}

// UserToken is the result of a successful resolution.
type UserToken struct {
	UserID int64
	Token  string
	Expiry time.Time
}

// Resolver turns a Profile into a persistent user and a gateway token.
// Resolution must be idempotent per (plugin, subject) pair.
type Resolver interface {
	ResolveOrCreate(ctx context.Context, profile Profile, plugin string) (UserToken, error)
}

// ResolutionError means the user could not be resolved or the gateway token
// could not be minted. It is recoverable per request.
type ResolutionError struct {
	Err error
}

func (e *ResolutionError) Error() string {
	return "identity resolution failed: " + e.Err.Error()
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// resolver implements Resolver on top of the user repository and the token minter.
type resolver struct {
	repo   repository.Repository
	minter *token.Minter
}

// NewResolver returns a new implementation of Resolver.
func NewResolver(repo repository.Repository, minter *token.Minter) Resolver {
	return &resolver{repo: repo, minter: minter}
}

func (r *resolver) ResolveOrCreate(ctx context.Context, profile Profile, plugin string) (UserToken, error) {
	userID, err := r.repo.UpsertUser(ctx, repository.User{
		Plugin:      plugin,
		Subject:     profile.Subject,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
		GivenName:   profile.GivenName,
		FamilyName:  profile.FamilyName,
	})
	if err != nil {
		return UserToken{}, &ResolutionError{Err: fmt.Errorf("error in UpsertUser call: %w", err)}
	}

	minted, expiry, err := r.minter.Mint(profile.Subject, profile.Email, profile.DisplayName, plugin)
	if err != nil {
		return UserToken{}, &ResolutionError{Err: fmt.Errorf("error in Mint call: %w", err)}
	}

	return UserToken{UserID: userID, Token: minted, Expiry: expiry}, nil
}
