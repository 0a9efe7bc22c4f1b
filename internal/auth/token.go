// Package auth supplies the bearer token attached to every API request.
package auth

import (
	"context"
	"errors"
	"strings"
)

// ErrNoToken is returned when a token manager holds no usable token.
var ErrNoToken = errors.New("no API token available")

// TokenManager provides the access token for outgoing requests.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
}

// StaticTokenManager hands out a single API token for its whole lifetime.
// Coda API tokens do not expire and are never refreshed.
type StaticTokenManager struct {
	token string
}

// NewStaticTokenManager creates a token manager for token, trimming
// surrounding whitespace.
func NewStaticTokenManager(token string) *StaticTokenManager {
	return &StaticTokenManager{token: strings.TrimSpace(token)}
}

// GetToken returns the token, or ErrNoToken when it is empty.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if m.token == "" {
		return "", ErrNoToken
	}

	return m.token, nil
}
