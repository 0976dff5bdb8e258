// internal/workflows/prediction/handler.go
package prediction

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "credit-console/internal/common/errors"
	"credit-console/internal/common/logger"
	"credit-console/internal/common/metrics"
	"credit-console/internal/common/observability"
	"credit-console/internal/common/validation"
	"credit-console/internal/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	WorkflowType = "prediction"
)

// Backend is the slice of the gateway the workflow drives.
type Backend interface {
	CreateApplication(ctx context.Context, userID int64, req models.LoanApplicationRequest) (*models.LoanApplication, error)
	RunInference(ctx context.Context, applicationID int64) (*models.InferenceRun, error)
	GetPredictions(ctx context.Context, runID int64) ([]models.Prediction, error)
	GetExplanation(ctx context.Context, applicationID int64) models.Explanation
	GetRecommendations(ctx context.Context, applicationID int64) []models.Recommendation
}

type Handler struct {
	config  *Config
	backend Backend
	obs     *observability.Observability
	logger  logger.Logger
}

// NewHandler accepts a nil obs; spans then go to the global tracer.
func NewHandler(config *Config, backend Backend, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		backend: backend,
		obs:     obs,
		logger:  log.WithFields(map[string]interface{}{"workflowType": WorkflowType}),
	}
}

// run tracks one pass through the states.
type run struct {
	id     string
	state  State
	states []State
	logger logger.Logger
}

func (r *run) transition(to State) {
	r.logger.Debug("workflow transition", map[string]interface{}{
		"from": r.state,
		"to":   to,
	})
	r.state = to
	r.states = append(r.states, to)
}

// Execute runs the whole workflow. It returns either a complete Output or an error, never both.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	id := uuid.NewString()
	ctx, span := h.obs.StartSpan(ctx, "prediction.workflow", attribute.String("workflow.id", id))
	defer span.End()

	output, err := h.execute(ctx, id, input)

	outcome := "done"
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome = "cancelled"
	case err != nil:
		outcome = "failed"
		span.RecordError(err)
	}
	metrics.PredictionWorkflows.WithLabelValues(outcome).Inc()
	h.obs.RecordRun(ctx, outcome)
	h.obs.RecordRunDuration(ctx, time.Since(start), outcome)
	return output, err
}

func (h *Handler) execute(ctx context.Context, id string, input *Input) (*Output, error) {
	r := &run{
		id:     id,
		state:  StateIdle,
		states: []State{StateIdle},
		logger: h.logger.WithFields(map[string]interface{}{"workflowId": id}),
	}

	if input == nil || !input.User.HasID() {
		return nil, h.fail(ctx, r, apperrors.NewMissingUserIDError())
	}
	userID := input.User.ID

	if h.config.ValidateInput {
		res, err := validation.ValidateLoanApplication(input.Application)
		if err != nil {
			return nil, h.fail(ctx, r, apperrors.NewInvalidApplicationInputError(err.Error()))
		}
		if !res.Valid {
			return nil, h.fail(ctx, r, apperrors.NewInvalidApplicationInputError(strings.Join(res.GetErrorMessages(), "; ")))
		}
	}

	// Step 2
	app, err := runStep(ctx, h.obs, "createApplication", func(ctx context.Context) (*models.LoanApplication, error) {
		return h.backend.CreateApplication(ctx, userID, input.Application)
	})
	if err != nil {
		return nil, h.fail(ctx, r, err)
	}
	if app == nil || app.ID <= 0 {
		return nil, h.fail(ctx, r, apperrors.NewMissingApplicationIDError())
	}
	applicationID := app.ID
	r.transition(StateApplicationCreated)

	// Step 3
	inference, err := runStep(ctx, h.obs, "runInference", func(ctx context.Context) (*models.InferenceRun, error) {
		return h.backend.RunInference(ctx, applicationID)
	})
	if err != nil {
		return nil, h.fail(ctx, r, err)
	}
	if inference == nil || inference.RunID <= 0 {
		return nil, h.fail(ctx, r, apperrors.NewMissingRunIDError(applicationID))
	}
	runID := inference.RunID
	r.transition(StateInferenceStarted)

	// Step 4
	preds, err := runStep(ctx, h.obs, "getPredictions", func(ctx context.Context) ([]models.Prediction, error) {
		return h.backend.GetPredictions(ctx, runID)
	})
	if err != nil {
		return nil, h.fail(ctx, r, err)
	}
	result := h.resolvePrediction(preds)
	if result.Placeholder {
		r.logger.Warn("backend returned no prediction, using placeholder result", map[string]interface{}{
			"runId": runID,
		})
	}
	r.transition(StatePredictionFetched)

	// Step 5: both calls degrade to empty, so the group never fails.
	var (
		explanation     models.Explanation
		recommendations []models.Recommendation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		spanCtx, span := h.obs.StartSpan(gctx, "prediction.getExplanation")
		defer span.End()
		explanation = h.backend.GetExplanation(spanCtx, applicationID)
		return nil
	})
	g.Go(func() error {
		spanCtx, span := h.obs.StartSpan(gctx, "prediction.getRecommendations")
		defer span.End()
		recommendations = h.backend.GetRecommendations(spanCtx, applicationID)
		return nil
	})
	_ = g.Wait()
	if recommendations == nil {
		recommendations = []models.Recommendation{}
	}
	if explanation.Features == nil {
		explanation.Features = []models.FeatureContribution{}
	}
	r.transition(StateExplanationFetched)

	// A caller that went away gets nothing.
	if err := ctx.Err(); err != nil {
		return nil, h.fail(ctx, r, err)
	}
	r.transition(StateDone)

	r.logger.Info("prediction completed", map[string]interface{}{
		"applicationId": applicationID,
		"runId":         runID,
		"decision":      result.Decision,
		"placeholder":   result.Placeholder,
	})

	return &Output{
		WorkflowID:      r.id,
		ApplicationID:   applicationID,
		RunID:           runID,
		Result:          result,
		Explanation:     explanation,
		Recommendations: recommendations,
		States:          r.states,
	}, nil
}

// runStep wraps a single backend call in a span.
func runStep[T any](ctx context.Context, obs *observability.Observability, name string, fn func(context.Context) (T, error)) (T, error) {
	spanCtx, span := obs.StartSpan(ctx, "prediction."+name)
	defer span.End()
	out, err := fn(spanCtx)
	if err != nil {
		span.RecordError(err)
	}
	return out, err
}

// resolvePrediction picks the first row, or the placeholder when there is none.
func (h *Handler) resolvePrediction(preds []models.Prediction) models.PredictionResult {
	if len(preds) == 0 {
		return models.PredictionResult{
			Decision:    models.DecisionReject,
			Probability: h.config.FallbackProbability,
			CreditScore: h.config.FallbackCreditScore,
			Placeholder: true,
		}
	}

	p := preds[0]
	decision, probability := models.DecisionReject, p.ProbabilityReject
	if p.IsApprove() {
		decision, probability = models.DecisionApprove, p.ProbabilityApprove
	}
	return models.PredictionResult{
		Decision:    decision,
		Probability: models.Clamp01(probability),
		CreditScore: models.SafeNumber(p.CreditScore),
	}
}

func (h *Handler) fail(ctx context.Context, r *run, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		err = ctxErr
	}
	failedAt := r.state
	r.transition(StateFailed)

	fields := map[string]interface{}{
		"failedAt": failedAt,
		"error":    err.Error(),
	}
	if stdErr, ok := apperrors.As(err); ok {
		fields["errorCode"] = stdErr.Code
	}
	r.logger.Error("prediction workflow failed", fields)

	return &StepError{WorkflowID: r.id, FailedAt: failedAt, Err: err}
}
