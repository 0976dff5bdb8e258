package models

import (
	"fmt"
	"strings"
)

// Role is the closed set of console roles.
type Role string

const (
	RoleUser  Role = "USER"
	RoleStaff Role = "STAFF"
	RoleAdmin Role = "ADMIN"
)

// AllRoles lists every role in display order.
var AllRoles = []Role{RoleUser, RoleStaff, RoleAdmin}

// ParseRole accepts any casing of USER, STAFF or ADMIN.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleUser, RoleStaff, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// User is the signed-in identity held by session state.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
}

// HasID reports whether the user carries a usable backend id.
func (u *User) HasID() bool {
	return u != nil && u.ID > 0
}

// Credentials are sent to the login endpoint.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegistrationProfile is sent to the register endpoint.
type RegistrationProfile struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role,omitempty"`
}
