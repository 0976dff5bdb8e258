package views

import (
	"strconv"
	"strings"

	"credit-console/internal/models"
	"credit-console/internal/workflows/prediction"
)

// TopFeatureCount is how many explanation features the predict screen lists.
const TopFeatureCount = 5

// Health bar colour bands.
const (
	BandRed    = "red"
	BandYellow = "yellow"
	BandGreen  = "green"
)

type PredictFormView struct {
	Subtitle       string                        `json:"subtitle"`
	Defaults       models.LoanApplicationRequest `json:"defaults"`
	HomeOwnerships []models.HomeOwnership        `json:"homeOwnerships"`
	LoanIntents    []models.LoanIntent           `json:"loanIntents"`
}

var predictSubtitles = map[models.Role]string{
	models.RoleUser:  "Create a new application and get an approval prediction",
	models.RoleStaff: "Assess customer applications and decide on approval",
	models.RoleAdmin: "Monitor and analyse the whole prediction pipeline",
}

func BuildPredictForm(user *models.User) PredictFormView {
	subtitle := predictSubtitles[models.RoleAdmin]
	if user != nil {
		if s, ok := predictSubtitles[user.Role]; ok {
			subtitle = s
		}
	}
	return PredictFormView{
		Subtitle:       subtitle,
		Defaults:       models.DefaultLoanApplication(),
		HomeOwnerships: models.HomeOwnerships,
		LoanIntents:    models.LoanIntents,
	}
}

type HealthBar struct {
	Value   float64 `json:"value"`
	Percent int     `json:"percent"`
	Band    string  `json:"band"`
}

type FeatureRow struct {
	Name         string      `json:"name"`
	Value        interface{} `json:"value,omitempty"`
	Contribution string      `json:"contribution"`
	// Sign is "positive", "negative" or empty when no contribution was given.
	Sign string `json:"sign,omitempty"`
}

type RecommendationRow struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Gain    string `json:"gain,omitempty"`
}

type PredictResultView struct {
	ApplicationID      int64               `json:"applicationId"`
	Decision           models.Decision     `json:"decision"`
	DecisionLabel      string              `json:"decisionLabel"`
	ProbabilityPercent int                 `json:"probabilityPercent"`
	CreditScore        float64             `json:"creditScore"`
	Health             HealthBar           `json:"health"`
	Method             string              `json:"method"`
	TopFeatures        []FeatureRow        `json:"topFeatures"`
	Recommendations    []RecommendationRow `json:"recommendations"`
	Placeholder        bool                `json:"placeholder"`
}

func BuildPredictResult(out *prediction.Output) PredictResultView {
	res := out.Result
	view := PredictResultView{
		ApplicationID:      out.ApplicationID,
		Decision:           res.Decision,
		DecisionLabel:      strings.ToUpper(string(res.Decision)),
		ProbabilityPercent: models.Percent(res.Probability),
		CreditScore:        models.SafeNumber(res.CreditScore),
		Health:             BuildHealthBar(res.CreditScore),
		Method:             string(out.Explanation.Method),
		TopFeatures:        []FeatureRow{},
		Recommendations:    []RecommendationRow{},
		Placeholder:        res.Placeholder,
	}

	for i, f := range out.Explanation.Features {
		if i == TopFeatureCount {
			break
		}
		view.TopFeatures = append(view.TopFeatures, featureRow(f))
	}
	for _, r := range out.Recommendations {
		row := RecommendationRow{Code: r.Code, Message: r.Message}
		if r.ExpectedGain != nil {
			row.Gain = "+" + strconv.FormatFloat(models.SafeNumber(*r.ExpectedGain), 'f', -1, 64) + "%"
		}
		view.Recommendations = append(view.Recommendations, row)
	}
	return view
}

// BuildHealthBar maps a 0..1000 credit score onto the 0..100 bar.
func BuildHealthBar(creditScore float64) HealthBar {
	v := models.HealthValue(creditScore)
	band := BandGreen
	switch {
	case v < 40:
		band = BandRed
	case v < 70:
		band = BandYellow
	}
	return HealthBar{Value: v, Percent: int(v + 0.5), Band: band}
}

func featureRow(f models.FeatureContribution) FeatureRow {
	row := FeatureRow{Name: f.Name, Value: f.Value, Contribution: "N/A"}
	if f.ContributionWeight == nil {
		return row
	}
	w := models.SafeNumber(*f.ContributionWeight)
	row.Contribution = strconv.FormatFloat(w, 'f', 2, 64)
	row.Sign = "negative"
	if w > 0 {
		row.Sign = "positive"
	}
	return row
}
