// Package access decides whether a screen may be shown to the current user.
package access

import "credit-console/internal/models"

// Outcome is the tagged result of a guard check.
type Outcome int

const (
	Unauthenticated Outcome = iota
	Forbidden
	Allowed
)

func (o Outcome) String() string {
	switch o {
	case Allowed:
		return "allowed"
	case Forbidden:
		return "forbidden"
	default:
		return "unauthenticated"
	}
}

// Check is a pure function of the user and the allowed roles. An empty allowed set admits any signed-in role.
func Check(user *models.User, allowed []models.Role) Outcome {
	if user == nil {
		return Unauthenticated
	}
	if len(allowed) == 0 {
		return Allowed
	}
	for _, r := range allowed {
		if r == user.Role {
			return Allowed
		}
	}
	return Forbidden
}

// Decision carries the outcome plus what a forbidden caller would need.
type Decision struct {
	Outcome      Outcome       `json:"-"`
	Result       string        `json:"outcome"`
	AllowedRoles []models.Role `json:"allowedRoles,omitempty"`
}

func Decide(user *models.User, allowed []models.Role) Decision {
	o := Check(user, allowed)
	d := Decision{Outcome: o, Result: o.String()}
	if o == Forbidden {
		d.AllowedRoles = allowed
	}
	return d
}
