/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudeengine

import (
	"errors"
	"fmt"

	"chainguard.dev/hookagent/agents/metrics"
)

// Option configures an Engine.
type Option func(*Engine) error

// WithMaxTokens caps the tokens of each response.
func WithMaxTokens(tokens int64) Option {
	return func(e *Engine) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		if tokens > 64000 {
			return fmt.Errorf("max tokens %d exceeds maximum of 64000", tokens)
		}
		e.maxTokens = tokens
		return nil
	}
}

// WithTemperature sets the sampling temperature, between 0.0 and 1.0.
func WithTemperature(temp float64) Option {
	return func(e *Engine) error {
		if temp < 0.0 || temp > 1.0 {
			return fmt.Errorf("temperature must be between 0.0 and 1.0, got %f", temp)
		}
		e.temperature = temp
		return nil
	}
}

// WithMetrics records usage on m.
func WithMetrics(m *metrics.GenAI) Option {
	return func(e *Engine) error {
		if m == nil {
			return errors.New("metrics cannot be nil")
		}
		e.metrics = m
		return nil
	}
}
