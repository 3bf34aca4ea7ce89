/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"

	"github.com/chainguard-dev/clog"
)

// Tracer creates traces and records them once complete.
type Tracer interface {
	NewTrace(ctx context.Context, prompt string) *Trace
	RecordTrace(trace *Trace)
}

// TraceCallback receives completed traces.
type TraceCallback func(*Trace)

type byCodeTracer struct {
	callbacks []TraceCallback
}

// ByCode returns a Tracer that hands completed traces to callbacks, in order.
func ByCode(callbacks ...TraceCallback) Tracer {
	return &byCodeTracer{callbacks: callbacks}
}

func (t *byCodeTracer) NewTrace(ctx context.Context, prompt string) *Trace {
	return newTrace(ctx, t, prompt)
}

func (t *byCodeTracer) RecordTrace(trace *Trace) {
	for _, cb := range t.callbacks {
		if cb != nil {
			cb(trace)
		}
	}
}

// NewDefaultTracer logs each completed trace to the logger on ctx.
func NewDefaultTracer(ctx context.Context) Tracer {
	logger := clog.FromContext(ctx)
	return ByCode(func(trace *Trace) {
		log := logger.With(
			"trace_id", trace.ID,
			"duration_ms", trace.Duration().Milliseconds(),
			"iterations", trace.Iterations,
			"tool_calls", len(trace.ToolCalls),
		)
		if trace.Error != nil {
			log.With("error", trace.Error).Warn("Agent run failed", "trace", trace.String())
			return
		}
		log.Info("Agent run completed", "trace", trace.String())
	})
}

type tracerKey struct{}

// WithTracer returns a context carrying tracer.
func WithTracer(ctx context.Context, tracer Tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, tracer)
}

// TracerFromContext returns the tracer on ctx, or a default logging tracer.
func TracerFromContext(ctx context.Context) Tracer {
	if tracer, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return tracer
	}
	return NewDefaultTracer(ctx)
}

// StartTrace starts a trace with the tracer on ctx.
func StartTrace(ctx context.Context, prompt string) *Trace {
	return TracerFromContext(ctx).NewTrace(ctx, prompt)
}

type traceKey struct{}

// WithTrace returns a context carrying the active trace, so engines can
// attribute token usage to it.
func WithTrace(ctx context.Context, trace *Trace) context.Context {
	return context.WithValue(ctx, traceKey{}, trace)
}

// FromContext returns the active trace, or nil.
func FromContext(ctx context.Context) *Trace {
	trace, _ := ctx.Value(traceKey{}).(*Trace)
	return trace
}
