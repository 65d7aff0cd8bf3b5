package api

import (
	"strings"
	"sync"

	"golang.org/x/oauth2"
)

// TokenSource hands out the current bearer token. The token can be swapped
// at runtime when the auth collaborator rewrites the token file.
type TokenSource struct {
	mu    sync.RWMutex
	token string
}

// NewTokenSource creates a token source holding token
func NewTokenSource(token string) *TokenSource {
	return &TokenSource{token: strings.TrimSpace(token)}
}

// Set replaces the token used by subsequent requests
func (s *TokenSource) Set(token string) {
	s.mu.Lock()
	s.token = strings.TrimSpace(token)
	s.mu.Unlock()
}

// Token implements oauth2.TokenSource
func (s *TokenSource) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		return nil, ErrNoToken
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}
