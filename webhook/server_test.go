/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"chainguard.dev/hookagent/agents/agenttrace"
	"chainguard.dev/hookagent/agents/orchestrator"
	"chainguard.dev/hookagent/agents/toolcall"
)

type runnerFunc func(ctx context.Context, eventType string, payload any) (*orchestrator.Result, error)

func (f runnerFunc) Run(ctx context.Context, eventType string, payload any) (*orchestrator.Result, error) {
	return f(ctx, eventType, payload)
}

type call struct {
	event   string
	payload any
	exec    agenttrace.ExecutionContext
}

func newServer(t *testing.T, run runnerFunc, opts ...Option) (*Server, *[]call) {
	t.Helper()
	var calls []call
	runner := runnerFunc(func(ctx context.Context, eventType string, payload any) (*orchestrator.Result, error) {
		calls = append(calls, call{event: eventType, payload: payload, exec: agenttrace.GetExecutionContext(ctx)})
		if run != nil {
			return run(ctx, eventType, payload)
		}
		msg := "pong"
		return &orchestrator.Result{FinalMessage: &msg, Actions: []toolcall.Outcome{}, IterationsUsed: 1}, nil
	})
	opts = append([]Option{WithRegisterer(prometheus.NewRegistry())}, opts...)
	s, err := New(runner, opts...)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 6e6, time.UTC) }
	return s, &calls
}

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func deliver(t *testing.T, s *Server, event, body string, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook/github", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if event != "" {
		req.Header.Set("X-GitHub-Event", event)
	}
	req.Header.Set("X-GitHub-Delivery", "d-1")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got), rec.Body.String())
	return rec, got
}

const pingBody = `{"zen":"Simplicity","repository":{"full_name":"o/r"}}`

func TestDeliveryWithoutSecret(t *testing.T) {
	s, calls := newServer(t, nil)

	rec, got := deliver(t, s, "ping", pingBody, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, map[string]any{
		"success":    true,
		"deliveryId": "d-1",
		"event":      "ping",
		"result": map[string]any{
			"finalMessage":   "pong",
			"actions":        []any{},
			"iterationsUsed": float64(1),
			"exhausted":      false,
		},
	}, got)

	require.Len(t, *calls, 1)
	c := (*calls)[0]
	require.Equal(t, "ping", c.event)
	require.Equal(t, map[string]any{"zen": "Simplicity", "repository": map[string]any{"full_name": "o/r"}}, c.payload)
	require.Equal(t, agenttrace.ExecutionContext{DeliveryID: "d-1", EventType: "ping", Repository: "o/r"}, c.exec)

	require.Equal(t, 1.0, testutil.ToFloat64(s.metrics.deliveries.WithLabelValues("ping", outcomeCompleted)))
	require.Equal(t, 1, testutil.CollectAndCount(s.metrics.iterations))
}

func TestDeliverySignature(t *testing.T) {
	const secret = "s3cret"

	for _, tc := range []struct {
		name      string
		signature string
		wantCode  int
		wantCalls int
	}{
		{name: "valid", signature: sign(secret, pingBody), wantCode: http.StatusOK, wantCalls: 1},
		{name: "wrong secret", signature: sign("other", pingBody), wantCode: http.StatusUnauthorized},
		{name: "missing", signature: "", wantCode: http.StatusUnauthorized},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, calls := newServer(t, nil, WithSecret(secret))
			headers := map[string]string{}
			if tc.signature != "" {
				headers["X-Hub-Signature-256"] = tc.signature
			}

			rec, got := deliver(t, s, "ping", pingBody, headers)
			require.Equal(t, tc.wantCode, rec.Code)
			require.Len(t, *calls, tc.wantCalls)
			if tc.wantCode == http.StatusUnauthorized {
				require.Equal(t, map[string]any{"error": "Invalid signature"}, got)
				require.Equal(t, 1.0, testutil.ToFloat64(s.metrics.deliveries.WithLabelValues("ping", outcomeRejected)))
			}
		})
	}
}

func TestDeliveryTooLarge(t *testing.T) {
	const secret = "s3cret"
	body := `{"zen":"` + strings.Repeat("a", maxPayloadBytes) + `"}`

	for _, tc := range []struct {
		name    string
		opts    []Option
		headers map[string]string
	}{
		{name: "without secret"},
		{name: "signed", opts: []Option{WithSecret(secret)}, headers: map[string]string{"X-Hub-Signature-256": sign(secret, body)}},
		{name: "unsigned", opts: []Option{WithSecret(secret)}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, calls := newServer(t, nil, tc.opts...)
			rec, got := deliver(t, s, "ping", body, tc.headers)
			require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
			require.Equal(t, map[string]any{"error": "Payload too large"}, got)
			require.Empty(t, *calls)
			require.Equal(t, 1.0, testutil.ToFloat64(s.metrics.deliveries.WithLabelValues("ping", outcomeRejected)))
		})
	}
}

func TestDeliveryRejectsBadRequests(t *testing.T) {
	for _, tc := range []struct {
		name    string
		event   string
		body    string
		wantErr string
	}{
		{name: "missing event", event: "", body: pingBody, wantErr: "Missing X-GitHub-Event header"},
		{name: "malformed json", event: "issues", body: `{"action":`, wantErr: "Invalid JSON payload"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, calls := newServer(t, nil)
			rec, got := deliver(t, s, tc.event, tc.body, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, map[string]any{"error": tc.wantErr}, got)
			require.Empty(t, *calls)
		})
	}
}

func TestDeliveryFailures(t *testing.T) {
	partial := &orchestrator.Result{Actions: []toolcall.Outcome{{Tool: "add_label", Result: "ok"}}, IterationsUsed: 2}

	for _, tc := range []struct {
		name        string
		err         error
		wantOutcome string
		wantResult  bool
	}{
		{name: "engine", err: &orchestrator.EngineError{Iteration: 2, Result: partial, Err: errors.New("401")}, wantOutcome: outcomeEngineError, wantResult: true},
		{name: "abandoned", err: &orchestrator.AbandonedError{Result: partial, Err: context.Canceled}, wantOutcome: outcomeAbandoned, wantResult: true},
		{name: "other", err: errors.New("boom"), wantOutcome: outcomeFailed},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newServer(t, func(context.Context, string, any) (*orchestrator.Result, error) {
				return nil, tc.err
			})

			rec, got := deliver(t, s, "issues", `{"action":"opened"}`, nil)
			require.Equal(t, http.StatusInternalServerError, rec.Code)
			require.Equal(t, false, got["success"])
			require.Equal(t, tc.err.Error(), got["error"])
			_, hasResult := got["result"]
			require.Equal(t, tc.wantResult, hasResult)
			require.Equal(t, 1.0, testutil.ToFloat64(s.metrics.deliveries.WithLabelValues("issues", tc.wantOutcome)))
		})
	}
}

func TestDeliveryRunTimeout(t *testing.T) {
	s, _ := newServer(t, func(ctx context.Context, _ string, _ any) (*orchestrator.Result, error) {
		deadline, ok := ctx.Deadline()
		require.True(t, ok)
		require.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
		return &orchestrator.Result{Actions: []toolcall.Outcome{}, IterationsUsed: 5, Exhausted: true}, nil
	}, WithRunTimeout(time.Minute))

	rec, _ := deliver(t, s, "issues", `{}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1.0, testutil.ToFloat64(s.metrics.deliveries.WithLabelValues("issues", outcomeExhausted)))
}

func TestInfoRoutes(t *testing.T) {
	s, _ := newServer(t, nil, WithVersion("2.3.4"))

	for _, tc := range []struct {
		path string
		want map[string]any
	}{
		{"/webhook/ping", map[string]any{"message": "pong", "timestamp": "2026-01-02T03:04:05.006Z"}},
		{"/health", map[string]any{"status": "ok", "timestamp": "2026-01-02T03:04:05.006Z"}},
		{"/", map[string]any{
			"name":    "hookagent",
			"version": "2.3.4",
			"endpoints": map[string]any{
				"health":  "/health",
				"webhook": "/webhook/github",
				"ping":    "/webhook/ping",
			},
		}},
	} {
		t.Run(tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var got map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			require.Equal(t, tc.want, got)
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newServer(t, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhook/github", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNewValidates(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	_, err = New(runnerFunc(nil), WithRunTimeout(-time.Second), WithRegisterer(prometheus.NewRegistry()))
	require.Error(t, err)
}
