// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"credit-console/internal/models"
)

// Default mirrors the console's built-in routing.
func Default() *ScreenRegistry {
	return &ScreenRegistry{
		Version: "1.0.0",
		Screens: []Screen{
			{ID: ScreenDashboard, Path: "/dashboard", DisplayName: "Dashboard", RequiresAuth: true},
			{ID: ScreenPredict, Path: "/predict", DisplayName: "Credit prediction", RequiresAuth: true},
			{ID: ScreenRisk, Path: "/risk", DisplayName: "Risk analysis", RequiresAuth: true},
			{ID: ScreenWhatIf, Path: "/what-if", DisplayName: "What-if simulation", RequiresAuth: true},
			{ID: ScreenHistory, Path: "/history", DisplayName: "Application history", RequiresAuth: true},
			{
				ID:           ScreenMonitoring,
				Path:         "/monitoring",
				DisplayName:  "Model monitoring",
				AllowedRoles: []string{string(models.RoleStaff), string(models.RoleAdmin)},
				RequiresAuth: true,
			},
		},
	}
}

func LoadRegistry(path string) (*ScreenRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ScreenRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, err
	}
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("registry %s: %w", path, err)
	}
	return &reg, nil
}

// Validate rejects duplicate ids and unknown role names.
func (r *ScreenRegistry) Validate() error {
	seen := make(map[string]bool, len(r.Screens))
	for _, s := range r.Screens {
		if s.ID == "" {
			return fmt.Errorf("screen with path %q has no id", s.Path)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate screen id %q", s.ID)
		}
		seen[s.ID] = true
		if _, err := s.Roles(); err != nil {
			return fmt.Errorf("screen %q: %w", s.ID, err)
		}
	}
	return nil
}

func (r *ScreenRegistry) Lookup(id string) (Screen, bool) {
	for _, s := range r.Screens {
		if s.ID == id {
			return s, true
		}
	}
	return Screen{}, false
}

// Roles parses AllowedRoles. An empty result admits any signed-in role.
func (s Screen) Roles() ([]models.Role, error) {
	roles := make([]models.Role, 0, len(s.AllowedRoles))
	for _, name := range s.AllowedRoles {
		role, err := models.ParseRole(name)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}
