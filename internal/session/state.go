// Package session holds the signed-in user for one browser.
package session

import (
	"context"
	"strings"
	"sync"

	apperrors "credit-console/internal/common/errors"
	"credit-console/internal/common/logger"
	"credit-console/internal/models"
)

// Authenticator is the part of the backend gateway that verifies identities.
type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (*models.User, error)
	Register(ctx context.Context, profile models.RegistrationProfile) (*models.User, error)
}

// State holds at most one user. Concurrent logins are not coordinated; the last to finish wins.
type State struct {
	mu     sync.RWMutex
	user   *models.User
	auth   Authenticator
	logger logger.Logger
}

func NewState(auth Authenticator, log logger.Logger) *State {
	return &State{
		auth:   auth,
		logger: log.WithFields(map[string]interface{}{"component": "session"}),
	}
}

// Current returns a copy of the signed-in user, or nil.
func (s *State) Current() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Login replaces the current user on success and leaves it untouched on failure.
func (s *State) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" {
		return nil, apperrors.NewAuthenticationError("username is required")
	}

	user, err := s.auth.Login(ctx, creds)
	if err != nil {
		s.logger.Warn("login failed", map[string]interface{}{
			"username": creds.Username,
			"error":    err.Error(),
		})
		return nil, err
	}
	s.set(user)
	s.logger.Info("user signed in", map[string]interface{}{
		"userId": user.ID,
		"role":   user.Role,
	})
	return s.Current(), nil
}

// Register creates the account and signs it in. Failures leave the state unchanged.
func (s *State) Register(ctx context.Context, profile models.RegistrationProfile) (*models.User, error) {
	profile.Username = strings.TrimSpace(profile.Username)
	if profile.Username == "" || profile.Password == "" {
		return nil, apperrors.NewAuthenticationError("username and password are required")
	}
	if profile.Role == "" {
		profile.Role = models.RoleUser
	}

	user, err := s.auth.Register(ctx, profile)
	if err != nil {
		s.logger.Warn("registration failed", map[string]interface{}{
			"username": profile.Username,
			"error":    err.Error(),
		})
		return nil, err
	}
	s.set(user)
	s.logger.Info("user registered", map[string]interface{}{
		"userId": user.ID,
		"role":   user.Role,
	})
	return s.Current(), nil
}

// Logout clears the user without contacting the backend.
func (s *State) Logout() {
	s.set(nil)
}

func (s *State) set(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user == nil {
		s.user = nil
		return
	}
	u := *user
	s.user = &u
}
