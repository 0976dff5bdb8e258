package models

import "strings"

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
	DecisionPending Decision = "pending"
)

// Prediction is one candidate row returned for an inference run, already coerced to finite numbers.
type Prediction struct {
	Decision           string  `json:"decision"`
	ProbabilityApprove float64 `json:"probability_approve"`
	ProbabilityReject  float64 `json:"probability_reject"`
	CreditScore        float64 `json:"credit_score"`
}

// IsApprove compares the raw backend decision case-insensitively.
func (p Prediction) IsApprove() bool {
	return strings.EqualFold(strings.TrimSpace(p.Decision), "APPROVE")
}

// PredictionResult is the single scored outcome shown to the user.
type PredictionResult struct {
	Decision    Decision `json:"decision"`
	Probability float64  `json:"probability"`
	CreditScore float64  `json:"credit_score"`
	// Placeholder marks the synthesized result used when the backend returned no prediction row.
	Placeholder bool `json:"placeholder,omitempty"`
}

// ExplanationMethod names how contributions were computed.
type ExplanationMethod string

const (
	MethodSHAP  ExplanationMethod = "SHAP"
	MethodLIME  ExplanationMethod = "LIME"
	MethodRules ExplanationMethod = "RULES"
)

// ParseExplanationMethod falls back to SHAP for anything unrecognised.
func ParseExplanationMethod(s string) ExplanationMethod {
	switch m := ExplanationMethod(strings.ToUpper(strings.TrimSpace(s))); m {
	case MethodSHAP, MethodLIME, MethodRules:
		return m
	default:
		return MethodSHAP
	}
}

type FeatureContribution struct {
	Name               string      `json:"name"`
	Value              interface{} `json:"value,omitempty"`
	ContributionWeight *float64    `json:"contribution_weight,omitempty"`
}

// Explanation keeps features in presentation order.
type Explanation struct {
	Method   ExplanationMethod     `json:"method"`
	Features []FeatureContribution `json:"features"`
}

// EmptyExplanation is the degraded value for a failed explanation fetch.
func EmptyExplanation() Explanation {
	return Explanation{Method: MethodSHAP, Features: []FeatureContribution{}}
}

type Recommendation struct {
	Code         string   `json:"code"`
	Message      string   `json:"message"`
	ExpectedGain *float64 `json:"expected_gain,omitempty"`
}
