// Package auth carries the bearer credential for the coparently API. The
// credential is passed into operations explicitly instead of being read from
// ambient process state, so every caller is testable.
package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	appErrors "github.com/carolinadevia11/coparently/errors"
)

// Credential is an opaque bearer token for the authenticated API.
type Credential struct {
	Token string
}

// FromEnv reads the credential from API_TOKEN.
func FromEnv() Credential {
	return Credential{Token: os.Getenv("API_TOKEN")}
}

// Authorization returns the Authorization header value.
func (c Credential) Authorization() string {
	return "Bearer " + c.Token
}

// Check rejects an empty credential before any request goes out. When the
// token happens to be a JWT carrying an exp claim, an already-expired token
// is rejected too, with a distinct message. Opaque tokens pass through; the
// server has the final word either way.
func (c Credential) Check() error {
	if c.Token == "" {
		return fmt.Errorf("%w: no session token", appErrors.ErrNotAuthenticated)
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(c.Token, claims); err != nil {
		return nil // not a JWT
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if exp.Before(time.Now()) {
		return fmt.Errorf("%w: session expired at %s", appErrors.ErrNotAuthenticated, exp.Format(time.RFC3339))
	}
	return nil
}
