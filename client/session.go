// Package client is a Go consumer of the relief hub API. It carries the
// transaction pipeline each spend flow runs through: fetch the balance,
// validate the intent locally, submit it once, and reconcile the returned
// balance.
package client

import "sync"

// SessionUser is the profile slice the client keeps after login.
type SessionUser struct {
	ID       string `json:"userId"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Session holds the bearer token and user for the current login. All network
// call sites read from it, and a 401/403 response tears it down through
// Expire. The zero value is an unauthenticated session.
type Session struct {
	mu       sync.RWMutex
	token    string
	user     SessionUser
	onExpire func()
}

// NewSession builds an unauthenticated session. onExpire runs whenever the
// server rejects the token, after local state is cleared; callers use it to
// route back to the login view. It may be nil.
func NewSession(onExpire func()) *Session {
	return &Session{onExpire: onExpire}
}

// Establish stores the token and user after a successful login.
func (s *Session) Establish(token string, user SessionUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

// Clear drops all session state.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = SessionUser{}
}

// Expire clears the session and invokes the expiry hook. Called by the
// transport on any 401 or 403.
func (s *Session) Expire() {
	s.Clear()
	if s.onExpire != nil {
		s.onExpire()
	}
}

// Token returns the current bearer token, empty when unauthenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the logged-in user.
func (s *Session) User() SessionUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}
