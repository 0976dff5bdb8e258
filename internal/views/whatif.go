package views

import (
	"strconv"

	"credit-console/internal/models"
)

const whatIfPoints = 6

type WhatIfView struct {
	Income     float64        `json:"income"`
	LoanAmount float64        `json:"loanAmount"`
	Series     []models.Point `json:"series"`
}

// BuildWhatIf projects an approval score for the given monthly income and loan amount.
// Nil inputs take the form defaults.
func BuildWhatIf(income, loanAmount *float64) WhatIfView {
	defaults := models.DefaultLoanApplication()
	in, loan := defaults.MonthlyIncome, defaults.LoanAmount
	if income != nil {
		in = models.SafeNumber(*income)
	}
	if loanAmount != nil {
		loan = models.SafeNumber(*loanAmount)
	}

	series := make([]models.Point, 0, whatIfPoints)
	for i := 0; i < whatIfPoints; i++ {
		v := 50 + in/100*2 - loan/1000*5 + float64(3*i)
		series = append(series, models.Point{Name: strconv.Itoa(i), Value: models.Clamp(v, 10, 95)})
	}
	return WhatIfView{Income: in, LoanAmount: loan, Series: series}
}
