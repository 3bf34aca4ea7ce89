/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleengine

import (
	"errors"
	"fmt"

	"chainguard.dev/hookagent/agents/metrics"
)

// Option configures an Engine.
type Option func(*Engine) error

// WithMaxOutputTokens caps the tokens of each response.
func WithMaxOutputTokens(tokens int32) Option {
	return func(e *Engine) error {
		if tokens <= 0 {
			return fmt.Errorf("max output tokens must be positive, got %d", tokens)
		}
		e.maxOutputTokens = tokens
		return nil
	}
}

// WithTemperature sets the sampling temperature, between 0.0 and 2.0.
func WithTemperature(temp float32) Option {
	return func(e *Engine) error {
		if temp < 0.0 || temp > 2.0 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temp)
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
