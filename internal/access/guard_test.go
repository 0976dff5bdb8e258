package access

import (
	"testing"

	"credit-console/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	staffOrAdmin := []models.Role{models.RoleStaff, models.RoleAdmin}

	tests := []struct {
		name    string
		user    *models.User
		allowed []models.Role
		want    Outcome
	}{
		{"no session, restricted", nil, staffOrAdmin, Unauthenticated},
		{"no session, open", nil, nil, Unauthenticated},
		{"no session, every role", nil, models.AllRoles, Unauthenticated},
		{"staff on staff screen", &models.User{Role: models.RoleStaff}, staffOrAdmin, Allowed},
		{"admin on staff screen", &models.User{Role: models.RoleAdmin}, staffOrAdmin, Allowed},
		{"user on staff screen", &models.User{Role: models.RoleUser}, staffOrAdmin, Forbidden},
		{"user on open screen", &models.User{Role: models.RoleUser}, nil, Allowed},
		{"unknown role", &models.User{Role: models.Role("GUEST")}, models.AllRoles, Forbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(tt.user, tt.allowed))
		})
	}
}

func TestDecide(t *testing.T) {
	allowed := []models.Role{models.RoleStaff, models.RoleAdmin}

	d := Decide(&models.User{Role: models.RoleUser}, allowed)
	assert.Equal(t, Forbidden, d.Outcome)
	assert.Equal(t, "forbidden", d.Result)
	assert.Equal(t, allowed, d.AllowedRoles)

	d = Decide(nil, allowed)
	assert.Equal(t, "unauthenticated", d.Result)
	assert.Empty(t, d.AllowedRoles)

	d = Decide(&models.User{Role: models.RoleAdmin}, allowed)
	assert.Equal(t, "allowed", d.Result)
}
