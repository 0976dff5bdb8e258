// Package gateway is the typed client for the credit-scoring backend.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"credit-console/internal/common/config"
	apperrors "credit-console/internal/common/errors"
	httpclient "credit-console/internal/common/http"
	"credit-console/internal/common/logger"
	"credit-console/internal/common/metrics"
)

// Operation names, used in errors, logs and metric labels.
const (
	OpRegister             = "register"
	OpLogin                = "login"
	OpCreateApplication    = "createApplication"
	OpRunInference         = "runInference"
	OpGetPredictions       = "getPredictions"
	OpGetExplanation       = "getExplanation"
	OpGetRecommendations   = "getRecommendations"
	OpGetHistory           = "getHistory"
	OpGetDashboardSummary  = "getDashboardSummary"
	OpGetMonitoringMetrics = "getMonitoringMetrics"
)

type Gateway struct {
	client *httpclient.Client
	logger logger.Logger
}

func New(cfg config.BackendConfig, log logger.Logger) *Gateway {
	return NewWithClient(httpclient.NewClient(cfg.BaseURL, config.GetDuration(cfg.Timeout)), log)
}

func NewWithClient(client *httpclient.Client, log logger.Logger) *Gateway {
	return &Gateway{
		client: client,
		logger: log.WithFields(map[string]interface{}{
			"component": "gateway",
			"baseURL":   client.BaseURL(),
		}),
	}
}

// do issues one request and decodes a 2xx body into out. It never retries.
func (g *Gateway) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	start := time.Now()
	fields := map[string]interface{}{
		"operation": op,
		"method":    method,
		"path":      path,
	}

	req, err := g.client.NewJSONRequest(ctx, method, path, body)
	if err != nil {
		return g.finish(op, start, fields, apperrors.NewBackendUnavailableError(op, err))
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return g.finish(op, start, fields, apperrors.NewBackendUnavailableError(op, err))
	}
	defer resp.Body.Close()
	fields["status"] = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return g.finish(op, start, fields, apperrors.NewBackendStatusError(op, resp.StatusCode, reasonPhrase(resp)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return g.finish(op, start, fields, apperrors.NewBackendDecodeError(op, err))
		}
	}
	return g.finish(op, start, fields, nil)
}

func (g *Gateway) finish(op string, start time.Time, fields map[string]interface{}, err error) error {
	elapsed := time.Since(start)
	metrics.GatewayRequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	fields["durationMs"] = elapsed.Milliseconds()

	if err != nil {
		metrics.GatewayRequests.WithLabelValues(op, metrics.OutcomeFailure).Inc()
		fields["error"] = err.Error()
		g.logger.Debug("backend call failed", fields)
		return err
	}
	metrics.GatewayRequests.WithLabelValues(op, metrics.OutcomeSuccess).Inc()
	g.logger.Debug("backend call completed", fields)
	return nil
}

// degraded records a listing call whose failure was replaced by an empty result.
func (g *Gateway) degraded(op string, err error) {
	metrics.GatewayDegraded.WithLabelValues(op).Inc()
	g.logger.Warn("backend call failed, returning empty result", map[string]interface{}{
		"operation": op,
		"error":     err.Error(),
	})
}

// reasonPhrase strips the numeric prefix from resp.Status.
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}

func idPath(prefix string, id int64) string {
	return prefix + "/" + strconv.FormatInt(id, 10)
}
