/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/go-github/v84/github"
	"github.com/prometheus/client_golang/prometheus"

	"chainguard.dev/hookagent/agents/agenttrace"
	"chainguard.dev/hookagent/agents/orchestrator"
)

// GitHub caps webhook payloads at 25MB.
const maxPayloadBytes = 25 << 20

// timestampLayout matches JavaScript's Date.toISOString.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// Runner handles one decoded event.
type Runner interface {
	Run(ctx context.Context, eventType string, payload any) (*orchestrator.Result, error)
}

// Server routes webhook deliveries to a Runner.
type Server struct {
	runner     Runner
	secret     []byte
	runTimeout time.Duration
	name       string
	version    string
	registerer prometheus.Registerer
	metrics    *serverMetrics
	now        func() time.Time
}

// Option configures a Server.
type Option func(*Server) error

// WithSecret enables signature verification with the webhook secret.
func WithSecret(secret string) Option {
	return func(s *Server) error {
		s.secret = []byte(secret)
		return nil
	}
}

// WithRunTimeout bounds each run. Zero disables the bound.
func WithRunTimeout(d time.Duration) Option {
	return func(s *Server) error {
		if d < 0 {
			return fmt.Errorf("run timeout cannot be negative, got %v", d)
		}
		s.runTimeout = d
		return nil
	}
}

// WithVersion sets the version reported on the root route.
func WithVersion(version string) Option {
	return func(s *Server) error {
		if version == "" {
			return errors.New("version cannot be empty")
		}
		s.version = version
		return nil
	}
}

// WithRegisterer registers the server's metrics with reg instead of the
// default registerer.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Server) error {
		if reg == nil {
			return errors.New("registerer cannot be nil")
		}
		s.registerer = reg
		return nil
	}
}

// New returns a Server for runner.
func New(runner Runner, opts ...Option) (*Server, error) {
	if runner == nil {
		return nil, errors.New("runner cannot be nil")
	}
	s := &Server{
		runner:     runner,
		runTimeout: 5 * time.Minute,
		name:       "hookagent",
		version:    "1.0.0",
		registerer: prometheus.DefaultRegisterer,
		now:        time.Now,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}
	s.metrics = newMetrics(s.registerer)
	return s, nil
}

// Handler returns the routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.root)
	r.Get("/health", s.health)
	r.Route("/webhook", func(r chi.Router) {
		r.Post("/github", s.github)
		r.Get("/ping", s.ping)
	})
	return r
}

type deliveryResponse struct {
	Success    bool                 `json:"success"`
	DeliveryID string               `json:"deliveryId,omitempty"`
	Event      string               `json:"event,omitempty"`
	Result     *orchestrator.Result `json:"result,omitempty"`
	Error      string               `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) github(w http.ResponseWriter, r *http.Request) {
	event := github.WebHookType(r)
	delivery := github.DeliveryID(r)
	log := clog.FromContext(r.Context()).With("delivery_id", delivery, "event", event)
	label := event
	if label == "" {
		label = "unknown"
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPayloadBytes)
	body, err := s.readPayload(r)
	if err != nil {
		s.metrics.deliveries.WithLabelValues(label, outcomeRejected).Inc()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.With("limit", tooLarge.Limit).Warn("Webhook payload too large")
			writeJSON(r.Context(), w, http.StatusRequestEntityTooLarge, errorResponse{Error: "Payload too large"})
			return
		}
		if len(s.secret) > 0 {
			log.With("error", err).Warn("Invalid webhook signature")
			writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{Error: "Invalid signature"})
			return
		}
		log.With("error", err).Warn("Unreadable webhook payload")
		writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "Invalid payload"})
		return
	}
	if event == "" {
		s.metrics.deliveries.WithLabelValues(label, outcomeRejected).Inc()
		writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "Missing X-GitHub-Event header"})
		return
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		s.metrics.deliveries.WithLabelValues(label, outcomeRejected).Inc()
		log.With("error", err).Warn("Malformed webhook payload")
		writeJSON(r.Context(), w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON payload"})
		return
	}

	log.Info("Received GitHub event")
	ctx := clog.WithLogger(r.Context(), log)
	ctx = agenttrace.WithExecutionContext(ctx, agenttrace.ExecutionContext{
		DeliveryID: delivery,
		EventType:  event,
		Repository: repository(payload),
	})
	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	start := s.now()
	res, err := s.runner.Run(ctx, event, payload)
	s.metrics.duration.WithLabelValues(label).Observe(s.now().Sub(start).Seconds())

	if err != nil {
		s.metrics.deliveries.WithLabelValues(label, failureOutcome(err)).Inc()
		log.With("error", err).Error("Error processing webhook")
		partial, _ := orchestrator.PartialResult(err)
		writeJSON(ctx, w, http.StatusInternalServerError, deliveryResponse{
			Success: false,
			Result:  partial,
			Error:   err.Error(),
		})
		return
	}

	outcome := outcomeCompleted
	if res.Exhausted {
		outcome = outcomeExhausted
	}
	s.metrics.deliveries.WithLabelValues(label, outcome).Inc()
	s.metrics.iterations.WithLabelValues(label).Observe(float64(res.IterationsUsed))
	log.With("iterations", res.IterationsUsed, "actions", len(res.Actions), "exhausted", res.Exhausted).Info("Processed GitHub event")

	writeJSON(ctx, w, http.StatusOK, deliveryResponse{
		Success:    true,
		DeliveryID: delivery,
		Event:      event,
		Result:     res,
	})
}

// readPayload returns the raw payload, verifying its signature when a
// secret is configured.
func (s *Server) readPayload(r *http.Request) ([]byte, error) {
	if len(s.secret) > 0 {
		return github.ValidatePayload(r, s.secret)
	}
	return io.ReadAll(r.Body)
}

func failureOutcome(err error) string {
	var ee *orchestrator.EngineError
	var ae *orchestrator.AbandonedError
	switch {
	case errors.As(err, &ee):
		return outcomeEngineError
	case errors.As(err, &ae):
		return outcomeAbandoned
	default:
		return outcomeFailed
	}
}

// repository returns repository.full_name from a decoded payload.
func repository(payload any) string {
	m, _ := payload.(map[string]any)
	repo, _ := m["repository"].(map[string]any)
	name, _ := repo["full_name"].(string)
	return name
}

func (s *Server) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"message":   "pong",
		"timestamp": s.timestamp(),
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": s.timestamp(),
	})
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"name":    s.name,
		"version": s.version,
		"endpoints": map[string]string{
			"health":  "/health",
			"webhook": "/webhook/github",
			"ping":    "/webhook/ping",
		},
	})
}

func (s *Server) timestamp() string {
	return s.now().UTC().Format(timestampLayout)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		clog.FromContext(ctx).With("error", err).Warn("Writing response")
	}
}
