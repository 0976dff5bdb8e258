package models

import "time"

// HistoryItem is one past application of the signed-in user.
type HistoryItem struct {
	ApplicationID int64    `json:"application_id,omitempty"`
	Date          string   `json:"date"`
	Score         float64  `json:"score"`
	Decision      Decision `json:"decision"`
	LoanAmount    float64  `json:"loan_amount,omitempty"`
}

// DashboardSummary aggregates all applications known to the backend.
type DashboardSummary struct {
	TotalApplications int64   `json:"total_applications"`
	ApprovedCount     int64   `json:"approved_count"`
	RejectedCount     int64   `json:"rejected_count"`
	AverageScore      float64 `json:"average_score"`
}

// Point is a named value for chart series.
type Point struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type MonitoringMetrics struct {
	AccuracyOverTime []Point `json:"accuracy_over_time"`
	APILatencyMs     []int64 `json:"api_latency_ms,omitempty"`
	ModelVersion     string  `json:"model_version,omitempty"`
}

// DateLayout is how history dates are rendered.
const DateLayout = "2006-01-02"

// FormatDate renders t as YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
