package token

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"
)

// Minter mints the gateway's own tokens after the upstream identity has been
// resolved. The surrounding gateway verifies them with the shared signing key.
type Minter struct {
	key    jwk.Key
	issuer string
	ttl    time.Duration

	// now is a field so tests can control the clock.
	now func() time.Time
}

// NewMinter returns a Minter signing with the given symmetric key.
func NewMinter(signingKey []byte, issuer string, ttl time.Duration) (*Minter, error) {
	key, err := jwk.Import(signingKey)
	if err != nil {
		return nil, fmt.Errorf("error in jwk.Import call: %w", err)
	}

	return &Minter{key: key, issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// Mint returns a signed gateway token for the given identity along with its
// expiry time.
func (m *Minter) Mint(subject, email, name, plugin string) (string, time.Time, error) {
	now := m.now()
	expiry := now.Add(m.ttl)

	tok, err := jwt.NewBuilder().
		Issuer(m.issuer).
		Subject(subject).
		IssuedAt(now).
		Expiration(expiry).
		Claim("email", email).
		Claim("name", name).
		Claim("plugin", plugin).
		Build()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("error in jwt Build call: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256(), m.key))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("error in jwt.Sign call: %w", err)
	}

	return string(signed), expiry, nil
}
