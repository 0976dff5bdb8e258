// internal/workflows/prediction/config.go
package prediction

import "time"

type Config struct {
	// Timeout bounds a whole run; zero leaves it to the caller's context.
	Timeout time.Duration

	// Placeholder result used when the backend returns no prediction row.
	FallbackProbability float64
	FallbackCreditScore float64

	// ValidateInput checks the form against the loan application schema before step 2.
	// Off by default: the backend owns form validation and the console forwards values as typed.
	ValidateInput bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:             0,
		FallbackProbability: 0.42,
		FallbackCreditScore: 420,
		ValidateInput:       false,
	}
}
