package views

// RadarPoint compares the applicant's current standing with the ideal profile.
type RadarPoint struct {
	Subject string  `json:"subject"`
	Current float64 `json:"current"`
	Ideal   float64 `json:"ideal"`
}

type RiskFactor struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

type RiskView struct {
	Radar   []RadarPoint `json:"radar"`
	Factors []RiskFactor `json:"factors"`
}

// BuildRisk returns the fixed illustrative risk profile.
func BuildRisk() RiskView {
	return RiskView{
		Radar: []RadarPoint{
			{Subject: "Income", Current: 50, Ideal: 80},
			{Subject: "Loan", Current: 40, Ideal: 70},
			{Subject: "History", Current: 35, Ideal: 85},
			{Subject: "Bad debt", Current: 20, Ideal: 90},
			{Subject: "Employment", Current: 60, Ideal: 80},
		},
		Factors: []RiskFactor{
			{Name: "Low income", Weight: 25},
			{Name: "Bad debt", Weight: 18},
			{Name: "Large loan", Weight: 14},
		},
	}
}
