package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shoenig/go-conceal"
)

var (
	// ErrMalformed indicates an access token that could not be decoded.
	ErrMalformed = errors.New("tokens: access token is malformed")
)

// Claims are the parts of an access token the session layer reads.
type Claims struct {
	// Subject is the sub claim; may be empty.
	Subject string

	// Expiry is the exp claim; zero if the token has none.
	Expiry time.Time
}

// Decode reads the claims of the given access token.
//
// NOTE: the signature is not verified; the API verifies tokens presented
// to it.
func Decode(token *conceal.Text) (*Claims, error) {
	if token == nil || token.Unveil() == "" {
		return nil, ErrMalformed
	}

	registered := new(jwt.RegisteredClaims)
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token.Unveil(), registered); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	claims := &Claims{Subject: registered.Subject}
	if registered.ExpiresAt != nil {
		claims.Expiry = registered.ExpiresAt.Time
	}
	return claims, nil
}

// Valid returns whether the claims are unexpired at now, compared in whole
// Unix seconds. A token without an expiry is never valid, and a token
// expiring at exactly now is already expired.
func (c *Claims) Valid(now time.Time) bool {
	if c.Expiry.IsZero() {
		return false
	}
	return c.Expiry.Unix() > now.Unix()
}
