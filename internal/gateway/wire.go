package gateway

import (
	"math"
	"strconv"
	"strings"
	"time"

	"credit-console/internal/models"

	"github.com/spf13/cast"
)

// object is a decoded JSON object read leniently: numbers may arrive as strings
// and the backend mixes snake_case and camelCase keys.
type object map[string]interface{}

func asObject(v interface{}) (object, bool) {
	m, ok := v.(map[string]interface{})
	return object(m), ok
}

// asList reports false for anything but a JSON array, null included.
func asList(v interface{}) ([]interface{}, bool) {
	list, ok := v.([]interface{})
	return list, ok
}

func (o object) lookup(keys ...string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := o[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (o object) number(keys ...string) float64 {
	n, _ := o.optNumber(keys...)
	if n == nil {
		return 0
	}
	return *n
}

// optNumber returns nil when the key is absent or not numeric.
func (o object) optNumber(keys ...string) (*float64, bool) {
	v, ok := o.lookup(keys...)
	if !ok {
		return nil, false
	}
	if _, isBool := v.(bool); isBool {
		return nil, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return nil, false
	}
	f = models.SafeNumber(f)
	return &f, true
}

// integer reads whole decimal numbers only. Booleans, fractions and strings in
// other bases give 0, which callers treat as a missing id.
func (o object) integer(keys ...string) int64 {
	v, ok := o.lookup(keys...)
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case bool:
		return 0
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0
		}
		return n
	case float64:
		if t != math.Trunc(t) || math.Abs(t) > maxExactInt {
			return 0
		}
		return int64(t)
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0
	}
	return n
}

// maxExactInt is the largest integer a float64 holds exactly.
const maxExactInt = 1 << 53

func (o object) str(keys ...string) string {
	v, ok := o.lookup(keys...)
	if !ok {
		return ""
	}
	return cast.ToString(v)
}

// --- outgoing bodies ---

type credentialsDTO struct {
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
}

type registerDTO struct {
	Username        string `json:"username"`
	PasswordHash    string `json:"passwordHash"`
	FullName        string `json:"fullName,omitempty"`
	Email           string `json:"email,omitempty"`
	Role            string `json:"role,omitempty"`
	ThemePreference string `json:"themePreference,omitempty"`
}

type applicationDTO struct {
	UserID                 int64    `json:"userId"`
	LoanAmnt               float64  `json:"loanAmnt"`
	PersonAge              int      `json:"personAge"`
	PersonIncome           float64  `json:"personIncome"`
	PersonHomeOwnership    string   `json:"personHomeOwnership"`
	LoanIntent             string   `json:"loanIntent"`
	CbPersonDefaultOnFile  string   `json:"cbPersonDefaultOnFile"`
	PersonEmpLength        *float64 `json:"personEmpLength,omitempty"`
	CbPersonCredHistLength *float64 `json:"cbPersonCredHistLength,omitempty"`
}

func toApplicationDTO(userID int64, req models.LoanApplicationRequest) applicationDTO {
	return applicationDTO{
		UserID:                 userID,
		LoanAmnt:               req.LoanAmount,
		PersonAge:              req.Age,
		PersonIncome:           req.MonthlyIncome,
		PersonHomeOwnership:    string(req.HomeOwnership),
		LoanIntent:             string(req.LoanIntent),
		CbPersonDefaultOnFile:  yesNo(req.PriorDefault),
		PersonEmpLength:        req.EmploymentYears,
		CbPersonCredHistLength: req.CreditHistoryYears,
	}
}

func yesNo(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

// --- incoming bodies ---

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05",
		models.DateLayout,
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func decodeApplication(o object, fallback models.LoanApplicationRequest) *models.LoanApplication {
	app := &models.LoanApplication{
		ID:                     o.integer("id", "applicationId"),
		LoanApplicationRequest: fallback,
		Status:                 o.str("status"),
	}
	if ts, ok := parseTime(o.str("createdAt", "created_at")); ok {
		app.CreatedAt = &ts
	}
	if _, ok := o.lookup("loanAmnt"); ok {
		app.LoanAmount = o.number("loanAmnt")
	}
	if _, ok := o.lookup("personIncome"); ok {
		app.MonthlyIncome = o.number("personIncome")
	}
	if _, ok := o.lookup("personAge"); ok {
		app.Age = int(o.integer("personAge"))
	}
	if uid := o.integer("userId"); uid > 0 {
		app.OwnerUserID = uid
	}
	return app
}

func decodePrediction(o object) models.Prediction {
	return models.Prediction{
		Decision:           o.str("decision"),
		ProbabilityApprove: o.number("probability_approve", "probabilityApprove"),
		ProbabilityReject:  o.number("probability_reject", "probabilityReject"),
		CreditScore:        o.number("credit_score", "creditScore"),
	}
}

func decodeExplanation(o object) models.Explanation {
	out := models.Explanation{
		Method:   models.ParseExplanationMethod(o.str("method")),
		Features: []models.FeatureContribution{},
	}
	details, ok := o["details"].([]interface{})
	if !ok {
		return out
	}
	for _, d := range details {
		item, ok := asObject(d)
		if !ok {
			continue
		}
		weight, _ := item.optNumber("shapValue", "contributionWeight", "shap")
		value, _ := item.lookup("featureValue", "value")
		out.Features = append(out.Features, models.FeatureContribution{
			Name:               item.str("featureName", "name"),
			Value:              value,
			ContributionWeight: weight,
		})
	}
	return out
}

func decodeRecommendation(o object) models.Recommendation {
	gain, _ := o.optNumber("expectedGain", "expected_gain")
	return models.Recommendation{
		Code:         o.str("recCode", "rec_code", "code"),
		Message:      o.str("message"),
		ExpectedGain: gain,
	}
}

func decodeHistoryItem(o object) models.HistoryItem {
	item := models.HistoryItem{
		ApplicationID: o.integer("id"),
		Score:         o.number("creditScore", "credit_score"),
		Decision:      normalizeDecision(o.str("decision")),
		LoanAmount:    o.number("loanAmnt", "loan_amount"),
	}
	if ts, ok := parseTime(o.str("createdAt", "created_at")); ok {
		item.Date = models.FormatDate(ts)
	}
	return item
}

func normalizeDecision(s string) models.Decision {
	switch d := models.Decision(strings.ToLower(strings.TrimSpace(s))); d {
	case models.DecisionApprove, models.DecisionReject:
		return d
	default:
		return models.DecisionPending
	}
}

func decodeSummary(o object) models.DashboardSummary {
	return models.DashboardSummary{
		TotalApplications: o.integer("totalApplications"),
		ApprovedCount:     o.integer("approvedCount"),
		RejectedCount:     o.integer("rejectedCount"),
		AverageScore:      o.number("averageScore"),
	}
}

func decodeMonitoring(o object) models.MonitoringMetrics {
	out := models.MonitoringMetrics{
		AccuracyOverTime: []models.Point{},
		ModelVersion:     o.str("modelVersion"),
	}
	if series, ok := o["accuracyOverTime"].([]interface{}); ok {
		for _, s := range series {
			p, ok := asObject(s)
			if !ok {
				continue
			}
			out.AccuracyOverTime = append(out.AccuracyOverTime, models.Point{
				Name:  p.str("date", "name"),
				Value: p.number("accuracy", "value"),
			})
		}
	}
	if latency, ok := o["apiLatencyMs"].([]interface{}); ok {
		for _, l := range latency {
			out.APILatencyMs = append(out.APILatencyMs, cast.ToInt64(l))
		}
	}
	return out
}
