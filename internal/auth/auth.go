// Package auth manages the single operator session. This is a demo-grade
// single-profile login, not real authentication: one fixed credential pair
// is accepted and the session token is an opaque local string.
package auth

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"iffidb/internal/audit"
	"iffidb/internal/store"
)

const (
	adminEmail    = "iffibaloch334@gmail.com"
	adminPassword = "admin"
)

// DefaultLoginDelay is the documented artificial login latency.
const DefaultLoginDelay = 800 * time.Millisecond

// Roles a session user can hold.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the current operator session, persisted until logout.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

// AuthError reports rejected credentials at login.
type AuthError struct {
	Email string
}

func (e *AuthError) Error() string {
	return "Invalid credentials. (Hint: iffibaloch334@gmail.com / admin)"
}

// Sessions performs login, logout, and session lookup against the store.
type Sessions struct {
	store  *store.Store
	audit  *audit.Log
	delay  time.Duration
	logger *zap.Logger
}

// NewSessions wires a session manager. Pass a zero delay in tests.
func NewSessions(st *store.Store, log *audit.Log, delay time.Duration, logger *zap.Logger) *Sessions {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sessions{store: st, audit: log, delay: delay, logger: logger}
}

// Login validates the credentials after the artificial latency. Success
// persists the session and writes a LOGIN audit entry; failure writes an
// ERROR entry, persists nothing, and returns an AuthError.
func (s *Sessions) Login(ctx context.Context, email, password string) (User, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return User{}, ctx.Err()
		case <-timer.C:
		}
	}

	if email != adminEmail || password != adminPassword {
		s.audit.Append(audit.ActionError, fmt.Sprintf("Failed login attempt for %s.", email))
		return User{}, &AuthError{Email: email}
	}

	user := User{
		ID:    "admin-1",
		Name:  "Iftikhar Ali",
		Email: email,
		Role:  RoleAdmin,
		Token: fmt.Sprintf("jwt-fake-token-%d", time.Now().UnixMilli()),
	}
	if err := s.store.Write(store.KeyUser, user); err != nil {
		return User{}, fmt.Errorf("failed to persist session: %w", err)
	}

	s.logger.Debug("Session created", zap.String("email", email))
	s.audit.Append(audit.ActionLogin, fmt.Sprintf("User %s logged in successfully.", email))
	return user, nil
}

// Logout clears the persisted session and writes a LOGIN audit entry.
func (s *Sessions) Logout() error {
	s.audit.Append(audit.ActionLogin, "User logged out.")
	return s.store.Delete(store.KeyUser)
}

// Current returns the persisted session, if any.
func (s *Sessions) Current() (User, bool) {
	var user User
	ok, err := s.store.Read(store.KeyUser, &user)
	if err != nil {
		s.logger.Error("Failed to read session", zap.Error(err))
		return User{}, false
	}
	return user, ok && user.Token != ""
}
