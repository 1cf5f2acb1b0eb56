package auth

import (
	"errors"
	"strings"
)

var (
	// ErrMissingCredentials means no Authorization header was sent.
	ErrMissingCredentials = errors.New("missing credentials")
	// ErrInvalidCredentials means the header was present but did not verify.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

const bearerPrefix = "Bearer "

// Authenticate resolves an Authorization header value to claims.
// The "Bearer " prefix is optional; a bare token is accepted as-is.
func Authenticate(header, secret string) (*Claims, error) {
	if header == "" {
		return nil, ErrMissingCredentials
	}

	token := strings.TrimPrefix(header, bearerPrefix)
	claims, err := ParseToken(token, secret)
	if err != nil {
		return nil, errors.Join(ErrInvalidCredentials, err)
	}
	return claims, nil
}
