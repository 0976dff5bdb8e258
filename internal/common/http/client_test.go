package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSONRequest_SetsHeadersAndBody(t *testing.T) {
	var gotBody map[string]interface{}
	var gotHeaders http.Header
	var gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/api/", 0)
	assert.Equal(t, server.URL+"/api", client.BaseURL())

	ctx := WithRequestID(context.Background(), "req-123")
	req, err := client.NewJSONRequest(ctx, http.MethodPost, "/users/login", map[string]string{"username": "ana"})
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "/api/users/login", gotPath)
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "application/json", gotHeaders.Get("Accept"))
	assert.Equal(t, "req-123", gotHeaders.Get(RequestIDHeader))
	assert.Equal(t, "ana", gotBody["username"])
}

func TestNewJSONRequest_GeneratesRequestID(t *testing.T) {
	client := NewClient("http://backend:8080/api", 0)
	req, err := client.NewJSONRequest(context.Background(), http.MethodGet, "dashboard/summary", nil)
	require.NoError(t, err)

	assert.Equal(t, "http://backend:8080/api/dashboard/summary", req.URL.String())
	assert.NotEmpty(t, req.Header.Get(RequestIDHeader))
	assert.Nil(t, req.Body)
}

func TestNewJSONRequest_RejectsUnencodableBody(t *testing.T) {
	client := NewClient("http://backend", 0)
	_, err := client.NewJSONRequest(context.Background(), http.MethodPost, "x", map[string]interface{}{"c": make(chan int)})
	assert.Error(t, err)
}
