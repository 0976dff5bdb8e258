package models

import "time"

type HomeOwnership string

const (
	HomeOwnershipRent     HomeOwnership = "RENT"
	HomeOwnershipOwn      HomeOwnership = "OWN"
	HomeOwnershipMortgage HomeOwnership = "MORTGAGE"
	HomeOwnershipOther    HomeOwnership = "OTHER"
)

type LoanIntent string

const (
	LoanIntentPersonal          LoanIntent = "PERSONAL"
	LoanIntentEducation         LoanIntent = "EDUCATION"
	LoanIntentMedical           LoanIntent = "MEDICAL"
	LoanIntentVenture           LoanIntent = "VENTURE"
	LoanIntentHomeImprovement   LoanIntent = "HOMEIMPROVEMENT"
	LoanIntentDebtConsolidation LoanIntent = "DEBTCONSOLIDATION"
)

var (
	HomeOwnerships = []HomeOwnership{HomeOwnershipRent, HomeOwnershipOwn, HomeOwnershipMortgage, HomeOwnershipOther}
	LoanIntents    = []LoanIntent{
		LoanIntentPersonal, LoanIntentEducation, LoanIntentMedical,
		LoanIntentVenture, LoanIntentHomeImprovement, LoanIntentDebtConsolidation,
	}
)

// LoanApplicationRequest is the predict form as the console holds it.
type LoanApplicationRequest struct {
	Age                int           `json:"age"`
	MonthlyIncome      float64       `json:"monthly_income"`
	LoanAmount         float64       `json:"loan_amount"`
	HomeOwnership      HomeOwnership `json:"home_ownership"`
	LoanIntent         LoanIntent    `json:"loan_intent"`
	PriorDefault       bool          `json:"prior_default"`
	EmploymentYears    *float64      `json:"employment_years,omitempty"`
	CreditHistoryYears *float64      `json:"credit_history_years,omitempty"`
	OwnerUserID        int64         `json:"owner_user_id,omitempty"`
}

// DefaultLoanApplication returns the prefilled predict form.
func DefaultLoanApplication() LoanApplicationRequest {
	emp, hist := 3.0, 5.0
	return LoanApplicationRequest{
		Age:                30,
		MonthlyIncome:      625,
		LoanAmount:         2083,
		HomeOwnership:      HomeOwnershipRent,
		LoanIntent:         LoanIntentPersonal,
		PriorDefault:       false,
		EmploymentYears:    &emp,
		CreditHistoryYears: &hist,
	}
}

// LoanApplication is the backend's stored application. ID 0 means the backend sent none.
type LoanApplication struct {
	ID int64 `json:"id"`
	LoanApplicationRequest
	Status    string     `json:"status,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// InferenceRun links an application to one scoring pass. RunID 0 means absent.
type InferenceRun struct {
	RunID int64 `json:"run_id"`
}
