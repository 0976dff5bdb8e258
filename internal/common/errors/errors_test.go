package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	messages []string
	fields   []map[string]interface{}
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.messages = append(l.messages, msg)
	l.fields = append(l.fields, fields)
}

func TestNewBackendStatusError(t *testing.T) {
	err := NewBackendStatusError("login", http.StatusUnauthorized, "")

	assert.Equal(t, ErrCodeBackendStatus, err.Code)
	assert.Equal(t, "login", err.Operation)
	assert.Equal(t, http.StatusUnauthorized, err.StatusCode)
	assert.Equal(t, "API Error: 401 - Unauthorized", err.Message)
	assert.False(t, err.Retryable)
	assert.Contains(t, err.Error(), "login")

	assert.True(t, NewBackendStatusError("getPredictions", 503, "Service Unavailable").Retryable)
}

func TestAs_UnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", NewMissingRunIDError(7))

	stdErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeMissingRunID, stdErr.Code)
	assert.True(t, HasCode(wrapped, ErrCodeMissingRunID))
	assert.False(t, HasCode(wrapped, ErrCodeMissingUserID))

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestBackendUnavailableError_UnwrapsCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := NewBackendUnavailableError("runInference", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, err.Retryable)
}

func TestGetErrorCategory(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeBackendUnavailable, "TRANSPORT"},
		{ErrCodeBackendStatus, "TRANSPORT"},
		{ErrCodeMissingApplicationID, "WORKFLOW"},
		{ErrCodeInvalidApplicationInput, "VALIDATION"},
		{ErrCodeAuthenticationFailed, "AUTH"},
		{ErrCodeInvalidRequest, "VALIDATION"},
		{"SOMETHING_ELSE", "OTHER"},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, GetErrorCategory(tt.code))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(NewInvalidApplicationInputError("age")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(NewInvalidRequestError("bad json")))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(NewMissingUserIDError()))
	assert.Equal(t, http.StatusConflict, HTTPStatus(NewBackendStatusError("register", 409, "Conflict")))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(NewBackendStatusError("getPredictions", 500, "")))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(NewMissingApplicationIDError()))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(fmt.Errorf("boom")))
}

func TestErrorHandler_HandleRequestError(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/screens/predict", nil)
	h.HandleRequestError(rec, req, NewMissingApplicationIDError())

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Error StandardError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrCodeMissingApplicationID, body.Error.Code)
	assert.Equal(t, "missing applicationId", body.Error.Message)

	require.Len(t, log.messages, 1)
	assert.Equal(t, "WORKFLOW", log.fields[0]["errorCategory"])
}

func TestErrorHandler_NormalizesPlainErrors(t *testing.T) {
	h := NewErrorHandler(&recordingLogger{})

	rec := httptest.NewRecorder()
	h.HandleRequestError(rec, httptest.NewRequest(http.MethodGet, "/", nil), fmt.Errorf("unexpected"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}
