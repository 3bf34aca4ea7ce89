/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// ExecutionContext describes the webhook delivery a run serves.
type ExecutionContext struct {
	DeliveryID string `json:"delivery_id,omitempty"`
	EventType  string `json:"event_type,omitempty"`
	Repository string `json:"repository,omitempty"` // "owner/name"
	Iteration  int    `json:"iteration,omitempty"`
}

// EnrichAttributes appends bounded execution attributes to baseAttrs.
//
// delivery_id is left out: every delivery is unique and would create a new
// time series. It stays on spans, where cardinality does not matter.
func (e ExecutionContext) EnrichAttributes(baseAttrs []attribute.KeyValue) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, len(baseAttrs), len(baseAttrs)+3)
	copy(attrs, baseAttrs)

	if e.EventType != "" {
		attrs = append(attrs, attribute.String("event", e.EventType))
	}
	if e.Repository != "" {
		attrs = append(attrs, attribute.String("repository", e.Repository))
	}
	return append(attrs, attribute.Int("iteration", e.Iteration))
}

func (e ExecutionContext) spanAttributes() []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if e.DeliveryID != "" {
		attrs = append(attrs, attribute.String("github.delivery_id", e.DeliveryID))
	}
	if e.EventType != "" {
		attrs = append(attrs, attribute.String("github.event", e.EventType))
	}
	if e.Repository != "" {
		attrs = append(attrs, attribute.String("github.repository", e.Repository))
	}
	return attrs
}

type executionContextKey struct{}

// WithExecutionContext attaches execCtx to ctx.
func WithExecutionContext(ctx context.Context, execCtx ExecutionContext) context.Context {
	return context.WithValue(ctx, executionContextKey{}, execCtx)
}

// GetExecutionContext returns the execution context on ctx, or the zero value.
func GetExecutionContext(ctx context.Context) ExecutionContext {
	if execCtx, ok := ctx.Value(executionContextKey{}).(ExecutionContext); ok {
		return execCtx
	}
	return ExecutionContext{}
}

// WithIteration returns ctx with the execution context's iteration set.
func WithIteration(ctx context.Context, iteration int) context.Context {
	execCtx := GetExecutionContext(ctx)
	execCtx.Iteration = iteration
	return WithExecutionContext(ctx, execCtx)
}
