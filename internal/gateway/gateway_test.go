package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"credit-console/internal/common/config"
	apperrors "credit-console/internal/common/errors"
	httpclient "credit-console/internal/common/http"
	"credit-console/internal/common/logger"
	"credit-console/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method  string
	path    string
	body    map[string]interface{}
	headers http.Header
}

type callLog struct {
	mu    sync.Mutex
	calls []recorded
}

func (l *callLog) add(r recorded) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, r)
}

func (l *callLog) all() []recorded {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]recorded(nil), l.calls...)
}

// fakeBackend serves canned responses keyed by "METHOD /path" under /api.
func fakeBackend(t *testing.T, routes map[string]func(w http.ResponseWriter, r *http.Request)) (*Gateway, *callLog) {
	t.Helper()
	calls := &callLog{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, headers: r.Header.Clone()}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		calls.add(rec)

		handler, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	gw := New(config.BackendConfig{BaseURL: server.URL + "/api"}, logger.NewTestLogger(t))
	return gw, calls
}

func respondJSON(status int, body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestLogin_Success(t *testing.T) {
	gw, calls := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /api/users/login": respondJSON(200, `{"id": 3, "username": "ana", "role": "staff", "fullName": "Ana B"}`),
	})

	user, err := gw.Login(context.Background(), models.Credentials{Username: "ana", Password: "s3cret"})
	require.NoError(t, err)

	assert.Equal(t, &models.User{ID: 3, Username: "ana", Role: models.RoleStaff, FullName: "Ana B"}, user)
	require.Len(t, calls.all(), 1)
	call := calls.all()[0]
	assert.Equal(t, "ana", call.body["username"])
	assert.Equal(t, "s3cret", call.body["passwordHash"])
	assert.Equal(t, "application/json", call.headers.Get("Content-Type"))
	assert.NotEmpty(t, call.headers.Get(httpclient.RequestIDHeader))
}

func TestLogin_UnknownRoleFallsBackToUser(t *testing.T) {
	gw, _ := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /api/users/login": respondJSON(200, `{"id": 3, "username": "ana", "role": "SUPERUSER"}`),
	})

	user, err := gw.Login(context.Background(), models.Credentials{Username: "ana"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
}

func TestLogin_NonSuccessStatus(t *testing.T) {
	gw, _ := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /api/users/login": respondJSON(401, `{"message": "bad credentials"}`),
	})

	user, err := gw.Login(context.Background(), models.Credentials{Username: "ana", Password: "x"})
	assert.Nil(t, user)
	require.Error(t, err)

	stdErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeBackendStatus, stdErr.Code)
	assert.Equal(t, OpLogin, stdErr.Operation)
	assert.Equal(t, 401, stdErr.StatusCode)
	assert.Equal(t, "API Error: 401 - Unauthorized", stdErr.Message)
}

func TestLogin_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	gw := New(config.BackendConfig{BaseURL: server.URL}, logger.NewTestLogger(t))

	_, err := gw.Login(context.Background(), models.Credentials{Username: "ana"})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeBackendUnavailable))
}

func TestRegister_SendsDefaults(t *testing.T) {
	gw, calls := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /api/users/register": respondJSON(200, `{"id": 9, "username": "new", "role": "USER", "createdAt": "2024-01-02T10:00:00"}`),
	})

	user, err := gw.Register(context.Background(), models.RegistrationProfile{
		Username: "new", Password: "pw", Email: "new@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), user.ID)

	body := calls.all()[0].body
	assert.Equal(t, "pw", body["passwordHash"])
	assert.Equal(t, "USER", body["role"])
	assert.Equal(t, "light", body["themePreference"])
	assert.Equal(t, "new@example.com", body["email"])
	_, hasFullName := body["fullName"]
	assert.False(t, hasFullName)
}

func TestCreateApplication_WireMapping(t *testing.T) {
	gw, calls := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /api/applications/1": respondJSON(200, `{"id": 7, "status": "PENDING", "createdAt": "2024-05-01T08:30:00Z", "loanAmnt": 2083}`),
	})

	app, err := gw.CreateApplication(context.Background(), 1, models.DefaultLoanApplication())
	require.NoError(t, err)
	assert.Equal(t, int64(7), app.ID)
	assert.Equal(t, "PENDING", app.Status)
	assert.Equal(t, int64(1), app.OwnerUserID)
	require.NotNil(t, app.CreatedAt)

	body := calls.all()[0].body
	assert.Equal(t, float64(1), body["userId"])
	assert.Equal(t, float64(2083), body["loanAmnt"])
	assert.Equal(t, float64(30), body["personAge"])
	assert.Equal(t, float64(625), body["personIncome"])
	assert.Equal(t, "RENT", body["personHomeOwnership"])
	assert.Equal(t, "PERSONAL", body["loanIntent"])
	assert.Equal(t, "N", body["cbPersonDefaultOnFile"])
	assert.Equal(t, float64(3), body["personEmpLength"])
	assert.Equal(t, float64(5), body["cbPersonCredHistLength"])
}

func TestCreateApplication_MissingIDYieldsZero(t *testing.T) {
	gw, _ := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /api/applications/1": respondJSON(200, `{"status": "PENDING"}`),
	})

	app, err := gw.CreateApplication(context.Background(), 1, models.DefaultLoanApplication())
	require.NoError(t, err)
	assert.Equal(t, int64(0), app.ID)
}

func TestRunInference_AcceptsStringRunID(t *testing.T) {
	gw, calls := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /api/inference/run/7": respondJSON(200, `{"runId": "42"}`),
	})

	run, err := gw.RunInference(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(42), run.RunID)
	assert.Nil(t, calls.all()[0].body)
}

func TestRunInference_RunIDMustBeWholeDecimal(t *testing.T) {
	gw, _ := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /api/inference/run/1": respondJSON(200, `{"runId": true}`),
		"POST /api/inference/run/2": respondJSON(200, `{"runId": "010"}`),
		"POST /api/inference/run/3": respondJSON(200, `{"runId": 42.5}`),
		"POST /api/inference/run/4": respondJSON(200, `{"runId": "0x2a"}`),
		"POST /api/inference/run/5": respondJSON(200, `{"run_id": 42.0}`),
	})

	tests := []struct {
		appID int64
		want  int64
	}{
		{1, 0},
		{2, 10},
		{3, 0},
		{4, 0},
		{5, 42},
	}
	for _, tt := range tests {
		run, err := gw.RunInference(context.Background(), tt.appID)
		require.NoError(t, err)
		assert.Equal(t, tt.want, run.RunID, "application %d", tt.appID)
	}
}

func TestGetPredictions_LenientDecoding(t *testing.T) {
	gw, _ := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/predictions/run/42": respondJSON(200, `[
			{"decision": "APPROVE", "probability_approve": 0.81, "probability_reject": 0.19, "credit_score": 710},
			{"decision": "REJECT", "probabilityApprove": "0.3", "probabilityReject": "abc", "creditScore": "512"}
		]`),
	})

	preds, err := gw.GetPredictions(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, preds, 2)

	assert.Equal(t, models.Prediction{Decision: "APPROVE", ProbabilityApprove: 0.81, ProbabilityReject: 0.19, CreditScore: 710}, preds[0])
	assert.Equal(t, 0.3, preds[1].ProbabilityApprove)
	assert.Equal(t, 0.0, preds[1].ProbabilityReject)
	assert.Equal(t, 512.0, preds[1].CreditScore)
}

func TestGetPredictions_EmptyAndMalformed(t *testing.T) {
	gw, _ := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/predictions/run/1": respondJSON(200, `[]`),
		"GET /api/predictions/run/2": respondJSON(200, `{"decision": "APPROVE"}`),
		"GET /api/predictions/run/3": respondJSON(503, ``),
		"GET /api/predictions/run/4": respondJSON(200, `null`),
		"GET /api/predictions/run/5": respondJSON(200, `[null, "x"]`),
	})

	preds, err := gw.GetPredictions(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, preds)

	_, err = gw.GetPredictions(context.Background(), 2)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeBackendDecodeFailed))

	_, err = gw.GetPredictions(context.Background(), 3)
	stdErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 503, stdErr.StatusCode)
	assert.True(t, stdErr.Retryable)

	preds, err = gw.GetPredictions(context.Background(), 4)
	assert.Nil(t, preds)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeBackendDecodeFailed))

	preds, err = gw.GetPredictions(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []models.Prediction{{}, {}}, preds)
}

func TestGetExplanation(t *testing.T) {
	gw, _ := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/explanations/application/7": respondJSON(200, `{"method": "SHAP", "details": [
			{"featureName": "loan_percent_income", "featureValue": "0.28", "shapValue": 0.42},
			{"featureName": "person_home_ownership", "featureValue": "RENT", "shapValue": null}
		]}`),
		"GET /api/explanations/application/8": respondJSON(200, `{"method": "LIME"}`),
		"GET /api/explanations/application/9": respondJSON(500, `boom`),
	})

	exp := gw.GetExplanation(context.Background(), 7)
	assert.Equal(t, models.MethodSHAP, exp.Method)
	require.Len(t, exp.Features, 2)
	assert.Equal(t, "loan_percent_income", exp.Features[0].Name)
	assert.Equal(t, "0.28", exp.Features[0].Value)
	require.NotNil(t, exp.Features[0].ContributionWeight)
	assert.Equal(t, 0.42, *exp.Features[0].ContributionWeight)
	assert.Nil(t, exp.Features[1].ContributionWeight)

	noDetails := gw.GetExplanation(context.Background(), 8)
	assert.Equal(t, models.MethodLIME, noDetails.Method)
	assert.Empty(t, noDetails.Features)

	failed := gw.GetExplanation(context.Background(), 9)
	assert.Equal(t, models.EmptyExplanation(), failed)
}

func TestGetRecommendations(t *testing.T) {
	gw, _ := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/recommendations/application/7": respondJSON(200, `[
			{"recCode": "LOWER_LOAN", "message": "Reduce the loan amount", "expectedGain": 12},
			{"recCode": "HISTORY", "message": "Build credit history"}
		]`),
	})

	recs := gw.GetRecommendations(context.Background(), 7)
	require.Len(t, recs, 2)
	assert.Equal(t, "LOWER_LOAN", recs[0].Code)
	require.NotNil(t, recs[0].ExpectedGain)
	assert.Equal(t, 12.0, *recs[0].ExpectedGain)
	assert.Nil(t, recs[1].ExpectedGain)

	failed := gw.GetRecommendations(context.Background(), 8)
	assert.NotNil(t, failed)
	assert.Empty(t, failed)
}

func TestGetHistory(t *testing.T) {
	gw, _ := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/applications/user/1": respondJSON(200, `[
			{"id": 7, "createdAt": "2024-05-01T08:30:00", "decision": "APPROVE", "creditScore": 710, "loanAmnt": 2083},
			{"id": 8, "createdAt": "2024-05-03T12:00:00Z", "decision": "REJECT", "creditScore": "455"},
			{"id": 9, "createdAt": "2024-05-04", "decision": null, "creditScore": null}
		]`),
	})

	items := gw.GetHistory(context.Background(), 1)
	require.Len(t, items, 3)
	assert.Equal(t, models.HistoryItem{ApplicationID: 7, Date: "2024-05-01", Score: 710, Decision: models.DecisionApprove, LoanAmount: 2083}, items[0])
	assert.Equal(t, models.DecisionReject, items[1].Decision)
	assert.Equal(t, 455.0, items[1].Score)
	assert.Equal(t, models.DecisionPending, items[2].Decision)
	assert.Equal(t, 0.0, items[2].Score)

	assert.Empty(t, gw.GetHistory(context.Background(), 2))
}

func TestGetDashboardSummary(t *testing.T) {
	gw, _ := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/dashboard/summary": respondJSON(200, `{"totalApplications": 10, "approvedCount": 6, "rejectedCount": 4, "averageScore": 612.5}`),
	})

	summary := gw.GetDashboardSummary(context.Background())
	assert.Equal(t, models.DashboardSummary{TotalApplications: 10, ApprovedCount: 6, RejectedCount: 4, AverageScore: 612.5}, summary)
}

func TestGetDashboardSummary_DegradesToZeros(t *testing.T) {
	gw, _ := fakeBackend(t, nil)
	assert.Equal(t, models.DashboardSummary{}, gw.GetDashboardSummary(context.Background()))
}

func TestGetMonitoringMetrics(t *testing.T) {
	gw, _ := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/monitoring/metrics": respondJSON(200, `{"accuracyOverTime": [{"date": "2024-05-01", "accuracy": 0.91}, {"date": "2024-05-02", "accuracy": "0.93"}]}`),
	})

	m := gw.GetMonitoringMetrics(context.Background())
	assert.Equal(t, []models.Point{{Name: "2024-05-01", Value: 0.91}, {Name: "2024-05-02", Value: 0.93}}, m.AccuracyOverTime)
}

func TestGetMonitoringMetrics_DegradesToEmpty(t *testing.T) {
	gw, _ := fakeBackend(t, nil)
	m := gw.GetMonitoringMetrics(context.Background())
	assert.NotNil(t, m.AccuracyOverTime)
	assert.Empty(t, m.AccuracyOverTime)
}

func TestRequestIDPropagatesFromContext(t *testing.T) {
	gw, calls := fakeBackend(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /api/dashboard/summary": respondJSON(200, `{}`),
	})

	ctx := httpclient.WithRequestID(context.Background(), "console-req-1")
	gw.GetDashboardSummary(ctx)
	assert.Equal(t, "console-req-1", calls.all()[0].headers.Get(httpclient.RequestIDHeader))
}
