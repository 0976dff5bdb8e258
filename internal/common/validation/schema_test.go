package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type form struct {
	Age           int     `json:"age"`
	MonthlyIncome float64 `json:"monthly_income"`
	LoanAmount    float64 `json:"loan_amount"`
	HomeOwnership string  `json:"home_ownership,omitempty"`
	LoanIntent    string  `json:"loan_intent,omitempty"`
}

func TestValidateLoanApplication_Valid(t *testing.T) {
	res, err := ValidateLoanApplication(form{
		Age: 30, MonthlyIncome: 625, LoanAmount: 2083,
		HomeOwnership: "RENT", LoanIntent: "PERSONAL",
	})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidateLoanApplication_Violations(t *testing.T) {
	tests := []struct {
		name  string
		in    form
		field string
	}{
		{
			name:  "too young",
			in:    form{Age: 12, MonthlyIncome: 1, LoanAmount: 1, HomeOwnership: "RENT", LoanIntent: "PERSONAL"},
			field: "age",
		},
		{
			name:  "zero loan",
			in:    form{Age: 30, MonthlyIncome: 1, LoanAmount: 0, HomeOwnership: "RENT", LoanIntent: "PERSONAL"},
			field: "loan_amount",
		},
		{
			name:  "unknown ownership",
			in:    form{Age: 30, MonthlyIncome: 1, LoanAmount: 1, HomeOwnership: "CASTLE", LoanIntent: "PERSONAL"},
			field: "home_ownership",
		},
		{
			name:  "missing intent",
			in:    form{Age: 30, MonthlyIncome: 1, LoanAmount: 1, HomeOwnership: "OWN"},
			field: "loan_intent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ValidateLoanApplication(tt.in)
			require.NoError(t, err)
			assert.False(t, res.Valid)
			assert.True(t, res.HasErrors(tt.field), "errors: %v", res.GetErrorMessages())
		})
	}
}

func TestValidateLoanApplication_UnencodableInput(t *testing.T) {
	_, err := ValidateLoanApplication(map[string]interface{}{"age": make(chan int)})
	assert.Error(t, err)
}
