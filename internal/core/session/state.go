// Package session holds the in-memory session state of a client runtime: the
// current user and the token pair. It is the fallback the API client's token
// resolver reads from, so call sites do not have to thread a token through
// every request.
package session

import (
	"sync"

	"github.com/hirewave/portal-gateway/internal/core/domain"
)

// State is a mutex-guarded holder of the signed-in user and tokens. Nothing
// is persisted; Logout or process exit discards everything.
type State struct {
	mu     sync.RWMutex
	user   *domain.User
	tokens domain.TokenPair
}

func NewState() *State {
	return &State{}
}

// Login installs a user and token pair. It rejects empty tokens and nil
// users, and on rejection leaves any previously held session untouched.
func (s *State) Login(user *domain.User, accessToken, refreshToken string) error {
	if accessToken == "" {
		return domain.ErrEmptyAccessToken
	}
	if refreshToken == "" {
		return domain.ErrEmptyRefreshToken
	}
	if user == nil {
		return domain.ErrNilUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.tokens = domain.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}
	return nil
}

// Logout unconditionally clears the session. It never fails.
func (s *State) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.tokens = domain.TokenPair{}
}

// IsAuthenticated reports whether a user is set and both tokens are present.
func (s *State) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.tokens.Complete()
}

func (s *State) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *State) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.AccessToken
}

func (s *State) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.RefreshToken
}
