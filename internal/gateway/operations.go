package gateway

import (
	"context"
	"fmt"
	"net/http"

	apperrors "credit-console/internal/common/errors"
	"credit-console/internal/models"
)

// DefaultThemePreference is sent with every registration.
const DefaultThemePreference = "light"

// Register creates a backend user. Failures propagate.
func (g *Gateway) Register(ctx context.Context, profile models.RegistrationProfile) (*models.User, error) {
	role := profile.Role
	if role == "" {
		role = models.RoleUser
	}
	body := registerDTO{
		Username:        profile.Username,
		PasswordHash:    profile.Password,
		FullName:        profile.FullName,
		Email:           profile.Email,
		Role:            string(role),
		ThemePreference: DefaultThemePreference,
	}

	var raw interface{}
	if err := g.do(ctx, OpRegister, http.MethodPost, "/users/register", body, &raw); err != nil {
		return nil, err
	}
	return g.decodeUser(OpRegister, raw)
}

// Login checks credentials with the backend. Failures propagate.
func (g *Gateway) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	body := credentialsDTO{Username: creds.Username, PasswordHash: creds.Password}

	var raw interface{}
	if err := g.do(ctx, OpLogin, http.MethodPost, "/users/login", body, &raw); err != nil {
		return nil, err
	}
	return g.decodeUser(OpLogin, raw)
}

func (g *Gateway) decodeUser(op string, raw interface{}) (*models.User, error) {
	o, ok := asObject(raw)
	if !ok {
		return nil, apperrors.NewBackendDecodeError(op, fmt.Errorf("expected user object, got %T", raw))
	}

	role, err := models.ParseRole(o.str("role"))
	if err != nil {
		// Unknown roles get the least privileged one.
		g.logger.Warn("backend returned unknown role", map[string]interface{}{
			"operation": op,
			"role":      o.str("role"),
		})
		role = models.RoleUser
	}

	return &models.User{
		ID:       o.integer("id"),
		Username: o.str("username"),
		Role:     role,
		FullName: o.str("fullName"),
		Email:    o.str("email"),
	}, nil
}

// CreateApplication stores the form for userID. A response without an id yields ID 0.
func (g *Gateway) CreateApplication(ctx context.Context, userID int64, req models.LoanApplicationRequest) (*models.LoanApplication, error) {
	var raw interface{}
	path := idPath("/applications", userID)
	if err := g.do(ctx, OpCreateApplication, http.MethodPost, path, toApplicationDTO(userID, req), &raw); err != nil {
		return nil, err
	}

	o, ok := asObject(raw)
	if !ok && raw != nil {
		return nil, apperrors.NewBackendDecodeError(OpCreateApplication, fmt.Errorf("expected application object, got %T", raw))
	}
	req.OwnerUserID = userID
	return decodeApplication(o, req), nil
}

// RunInference starts scoring for an application. A response without runId yields RunID 0.
func (g *Gateway) RunInference(ctx context.Context, applicationID int64) (*models.InferenceRun, error) {
	var raw interface{}
	if err := g.do(ctx, OpRunInference, http.MethodPost, idPath("/inference/run", applicationID), nil, &raw); err != nil {
		return nil, err
	}

	o, ok := asObject(raw)
	if !ok && raw != nil {
		return nil, apperrors.NewBackendDecodeError(OpRunInference, fmt.Errorf("expected run object, got %T", raw))
	}
	return &models.InferenceRun{RunID: o.integer("runId", "run_id")}, nil
}

// GetPredictions returns the candidate rows for a run. Only a literal [] is empty; a null body fails to decode.
func (g *Gateway) GetPredictions(ctx context.Context, runID int64) ([]models.Prediction, error) {
	var raw interface{}
	if err := g.do(ctx, OpGetPredictions, http.MethodGet, idPath("/predictions/run", runID), nil, &raw); err != nil {
		return nil, err
	}

	list, ok := asList(raw)
	if !ok {
		return nil, apperrors.NewBackendDecodeError(OpGetPredictions, fmt.Errorf("expected prediction array, got %T", raw))
	}
	// A row that is not an object still counts as a candidate; it decodes as all zeros.
	out := make([]models.Prediction, 0, len(list))
	for _, item := range list {
		o, _ := asObject(item)
		out = append(out, decodePrediction(o))
	}
	return out, nil
}

// GetExplanation never fails; any error yields method SHAP with no features.
func (g *Gateway) GetExplanation(ctx context.Context, applicationID int64) models.Explanation {
	var raw interface{}
	if err := g.do(ctx, OpGetExplanation, http.MethodGet, idPath("/explanations/application", applicationID), nil, &raw); err != nil {
		g.degraded(OpGetExplanation, err)
		return models.EmptyExplanation()
	}
	o, ok := asObject(raw)
	if !ok {
		return models.EmptyExplanation()
	}
	return decodeExplanation(o)
}

// GetRecommendations never fails; any error yields an empty list.
func (g *Gateway) GetRecommendations(ctx context.Context, applicationID int64) []models.Recommendation {
	out := []models.Recommendation{}

	var raw interface{}
	if err := g.do(ctx, OpGetRecommendations, http.MethodGet, idPath("/recommendations/application", applicationID), nil, &raw); err != nil {
		g.degraded(OpGetRecommendations, err)
		return out
	}
	list, ok := asList(raw)
	if !ok {
		g.degraded(OpGetRecommendations, apperrors.NewBackendDecodeError(OpGetRecommendations, fmt.Errorf("expected array, got %T", raw)))
		return out
	}
	for _, item := range list {
		if o, ok := asObject(item); ok {
			out = append(out, decodeRecommendation(o))
		}
	}
	return out
}

// GetHistory never fails; any error yields an empty list.
func (g *Gateway) GetHistory(ctx context.Context, userID int64) []models.HistoryItem {
	out := []models.HistoryItem{}

	var raw interface{}
	if err := g.do(ctx, OpGetHistory, http.MethodGet, idPath("/applications/user", userID), nil, &raw); err != nil {
		g.degraded(OpGetHistory, err)
		return out
	}
	list, ok := asList(raw)
	if !ok {
		g.degraded(OpGetHistory, apperrors.NewBackendDecodeError(OpGetHistory, fmt.Errorf("expected array, got %T", raw)))
		return out
	}
	for _, item := range list {
		if o, ok := asObject(item); ok {
			out = append(out, decodeHistoryItem(o))
		}
	}
	return out
}

// GetDashboardSummary never fails; any error yields all zeros.
func (g *Gateway) GetDashboardSummary(ctx context.Context) models.DashboardSummary {
	var raw interface{}
	if err := g.do(ctx, OpGetDashboardSummary, http.MethodGet, "/dashboard/summary", nil, &raw); err != nil {
		g.degraded(OpGetDashboardSummary, err)
		return models.DashboardSummary{}
	}
	o, _ := asObject(raw)
	return decodeSummary(o)
}

// GetMonitoringMetrics never fails; any error yields an empty series.
func (g *Gateway) GetMonitoringMetrics(ctx context.Context) models.MonitoringMetrics {
	var raw interface{}
	if err := g.do(ctx, OpGetMonitoringMetrics, http.MethodGet, "/monitoring/metrics", nil, &raw); err != nil {
		g.degraded(OpGetMonitoringMetrics, err)
		return models.MonitoringMetrics{AccuracyOverTime: []models.Point{}}
	}
	o, _ := asObject(raw)
	return decodeMonitoring(o)
}
