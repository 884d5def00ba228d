package auth

import (
	"strings"

	"room-chat/domain"
	"room-chat/errors"
)

// Authenticator validates the credential a peer presents when connecting.
// It runs exactly once per connection, before any room operation.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret []byte) *Authenticator {
	return &Authenticator{secret: secret}
}

// Verify resolves a bearer token into an Identity. A missing token fails
// with ErrUnauthenticated, a malformed or expired one with
// ErrInvalidCredential. No other state is touched.
func (a *Authenticator) Verify(token string) (domain.Identity, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return "", errors.ErrUnauthenticated
	}

	claims, err := ValidateToken(token, a.secret)
	if err != nil {
		return "", errors.ErrInvalidCredential
	}
	if claims.Username == "" {
		return "", errors.ErrInvalidCredential
	}
	return domain.Identity(claims.Username), nil
}
