package views

import "credit-console/internal/models"

type MonitoringView struct {
	Accuracy     []models.Point `json:"accuracy"`
	LatencyMs    []int64        `json:"latencyMs"`
	ModelVersion string         `json:"modelVersion,omitempty"`
	// ShowAdmin enables the administrator-only section.
	ShowAdmin bool `json:"showAdmin"`
}

func BuildMonitoring(user *models.User, m models.MonitoringMetrics) MonitoringView {
	view := MonitoringView{
		Accuracy:     m.AccuracyOverTime,
		LatencyMs:    m.APILatencyMs,
		ModelVersion: m.ModelVersion,
		ShowAdmin:    user != nil && user.Role == models.RoleAdmin,
	}
	if view.Accuracy == nil {
		view.Accuracy = []models.Point{}
	}
	if view.LatencyMs == nil {
		view.LatencyMs = []int64{}
	}
	return view
}
