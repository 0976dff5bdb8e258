// pkg/registry/schema.go
package registry

type ScreenRegistry struct {
	Version     string   `json:"version"`
	LastUpdated string   `json:"lastUpdated,omitempty"`
	Screens     []Screen `json:"screens"`
}

type Screen struct {
	ID           string   `json:"id"`
	Path         string   `json:"path"`
	DisplayName  string   `json:"displayName"`
	Description  string   `json:"description,omitempty"`
	AllowedRoles []string `json:"allowedRoles"`
	RequiresAuth bool     `json:"requiresAuth"`
}

// Screen ids served by the console.
const (
	ScreenDashboard  = "dashboard"
	ScreenPredict    = "predict"
	ScreenRisk       = "risk"
	ScreenWhatIf     = "what-if"
	ScreenHistory    = "history"
	ScreenMonitoring = "monitoring"
)
