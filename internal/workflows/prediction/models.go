// internal/workflows/prediction/models.go
package prediction

import (
	"fmt"

	"credit-console/internal/models"
)

// State is a position in the linear prediction workflow.
type State string

const (
	StateIdle               State = "Idle"
	StateApplicationCreated State = "ApplicationCreated"
	StateInferenceStarted   State = "InferenceStarted"
	StatePredictionFetched  State = "PredictionFetched"
	StateExplanationFetched State = "ExplanationFetched"
	StateDone               State = "Done"
	StateFailed             State = "Failed"
)

type Input struct {
	User        *models.User                  `json:"user"`
	Application models.LoanApplicationRequest `json:"application"`
}

// Output is only ever returned whole; a failed run returns no Output.
type Output struct {
	WorkflowID      string                  `json:"workflowId"`
	ApplicationID   int64                   `json:"applicationId"`
	RunID           int64                   `json:"runId"`
	Result          models.PredictionResult `json:"result"`
	Explanation     models.Explanation      `json:"explanation"`
	Recommendations []models.Recommendation `json:"recommendations"`
	States          []State                 `json:"states"`
}

// StepError reports the state a run was in when it failed.
type StepError struct {
	WorkflowID string
	FailedAt   State
	Err        error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("prediction workflow failed at %s: %v", e.FailedAt, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
