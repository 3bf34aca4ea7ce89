/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package openaiengine

import (
	"errors"
	"fmt"

	"chainguard.dev/hookagent/agents/metrics"
)

// Option configures an Engine.
type Option func(*Engine) error

// WithMaxTokens caps the completion tokens of each response.
func WithMaxTokens(tokens int64) Option {
	return func(e *Engine) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		e.maxTokens = tokens
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
