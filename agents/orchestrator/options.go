/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"errors"
	"fmt"
	"time"

	"chainguard.dev/hookagent/agents/metrics"
)

// Defaults applied by New.
const (
	DefaultMaxIterations  = 5
	DefaultRequestTimeout = 2 * time.Minute
	DefaultToolTimeout    = 30 * time.Second
)

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithMaxIterations sets the iteration ceiling.
func WithMaxIterations(n int) Option {
	return func(o *Orchestrator) error {
		if n <= 0 {
			return fmt.Errorf("max iterations must be positive, got %d", n)
		}
		o.maxIterations = n
		return nil
	}
}

// WithRequestTimeout bounds each engine request. Zero disables the bound.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *Orchestrator) error {
		if d < 0 {
			return fmt.Errorf("request timeout cannot be negative, got %v", d)
		}
		o.requestTimeout = d
		return nil
	}
}

// WithToolTimeout bounds each tool call. Zero disables the bound.
func WithToolTimeout(d time.Duration) Option {
	return func(o *Orchestrator) error {
		if d < 0 {
			return fmt.Errorf("tool timeout cannot be negative, got %v", d)
		}
		o.toolTimeout = d
		return nil
	}
}

// WithModel names the model in tool call metrics.
func WithModel(model string) Option {
	return func(o *Orchestrator) error {
		if model == "" {
			return errors.New("model cannot be empty")
		}
		o.model = model
		return nil
	}
}

// WithMetrics records tool calls on m.
func WithMetrics(m *metrics.GenAI) Option {
	return func(o *Orchestrator) error {
		if m == nil {
			return errors.New("metrics cannot be nil")
		}
		o.metrics = m
		return nil
	}
}
