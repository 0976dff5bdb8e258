// Package views turns gateway and workflow output into screen view models.
package views

import (
	"fmt"

	"credit-console/internal/models"
)

type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type QuickAction struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

type roleConfig struct {
	title        string
	subtitle     string
	quickActions []QuickAction
}

var roleConfigs = map[models.Role]roleConfig{
	models.RoleUser: {
		title:    "Customer dashboard",
		subtitle: "Track your loan applications and credit standing",
		quickActions: []QuickAction{
			{Label: "New application", Description: "Apply for a new loan"},
			{Label: "View history", Description: "Past applications"},
			{Label: "Support", Description: "Contact support"},
		},
	},
	models.RoleStaff: {
		title:    "Staff dashboard",
		subtitle: "Review loan applications and assist customers",
		quickActions: []QuickAction{
			{Label: "Process applications", Description: "Review new applications"},
			{Label: "Reports", Description: "Performance reports"},
			{Label: "Customers", Description: "Manage customers"},
		},
	},
	models.RoleAdmin: {
		title:    "Admin dashboard",
		subtitle: "System overview and operations",
		quickActions: []QuickAction{
			{Label: "System settings", Description: "Configure the system"},
			{Label: "Consolidated reports", Description: "Full reporting"},
			{Label: "User management", Description: "Assign roles"},
		},
	},
}

func configFor(role models.Role) roleConfig {
	if cfg, ok := roleConfigs[role]; ok {
		return cfg
	}
	return roleConfigs[models.RoleUser]
}

type DashboardView struct {
	Role         models.Role    `json:"role"`
	Greeting     string         `json:"greeting"`
	Title        string         `json:"title"`
	Subtitle     string         `json:"subtitle"`
	Stats        []Stat         `json:"stats"`
	Pie          []models.Point `json:"pie"`
	Bar          []models.Point `json:"bar"`
	Line         []models.Point `json:"line"`
	QuickActions []QuickAction  `json:"quickActions"`
}

// BuildDashboard renders a summary, which is all zeros when the backend was unreachable.
func BuildDashboard(user *models.User, summary models.DashboardSummary) DashboardView {
	role := models.RoleUser
	name := "Guest"
	if user != nil {
		role = user.Role
		if user.Username != "" {
			name = user.Username
		}
	}
	cfg := configFor(role)

	return DashboardView{
		Role:     role,
		Greeting: "Hello, " + name,
		Title:    cfg.title,
		Subtitle: cfg.subtitle,
		Stats: []Stat{
			{Label: "Total applications", Value: fmt.Sprintf("%d", summary.TotalApplications)},
			{Label: "Approved", Value: fmt.Sprintf("%d", summary.ApprovedCount)},
			{Label: "Rejected", Value: fmt.Sprintf("%d", summary.RejectedCount)},
			{Label: "Approval rate", Value: approvalRate(summary)},
		},
		Pie: []models.Point{
			{Name: "Approve", Value: float64(summary.ApprovedCount)},
			{Name: "Reject", Value: float64(summary.RejectedCount)},
		},
		Bar: []models.Point{
			{Name: "Total Applications", Value: float64(summary.TotalApplications)},
			{Name: "Average Score", Value: models.SafeNumber(summary.AverageScore)},
		},
		Line:         []models.Point{},
		QuickActions: cfg.quickActions,
	}
}

func approvalRate(s models.DashboardSummary) string {
	if s.TotalApplications <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(s.ApprovedCount)/float64(s.TotalApplications)*100)
}
