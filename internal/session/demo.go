package session

import (
	"fmt"
	"strings"

	"credit-console/internal/models"
)

// DemoUserID is the fixed id given to demo identities so the predict flow has a numeric user.
const DemoUserID int64 = 1

// LoginAs installs an unverified identity for quick role switching.
// It performs no authentication and is only reachable when demo mode is enabled.
func (s *State) LoginAs(email string, role models.Role) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	s.set(&models.User{ID: DemoUserID, Username: email, Role: role})
	s.logger.Warn("demo identity installed without authentication", map[string]interface{}{
		"username": email,
		"role":     role,
	})
	return s.Current(), nil
}
