/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package webhook

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Delivery outcomes.
const (
	outcomeCompleted   = "completed"
	outcomeExhausted   = "exhausted"
	outcomeEngineError = "engine_error"
	outcomeAbandoned   = "abandoned"
	outcomeFailed      = "failed"
	outcomeRejected    = "rejected"
)

type serverMetrics struct {
	deliveries *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	iterations *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *serverMetrics {
	f := promauto.With(reg)
	return &serverMetrics{
		deliveries: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hookagent_deliveries_total",
				Help: "Webhook deliveries handled, by event and outcome",
			},
			[]string{"event", "outcome"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hookagent_run_duration_seconds",
				Help:    "Time spent running a delivery",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"event"},
		),
		iterations: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hookagent_run_iterations",
				Help:    "Engine round trips used per run",
				Buckets: prometheus.LinearBuckets(1, 1, 10),
			},
			[]string{"event"},
		),
	}
}
