/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package agenttrace

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentation = "chainguard.dev/hookagent/agents/agenttrace"

func tracer() oteltrace.Tracer {
	return otel.Tracer(instrumentation, oteltrace.WithInstrumentationVersion("1.0.0"))
}

// Usage is the token consumption of one engine request.
type Usage struct {
	Model        string `json:"model"`
	InputTokens  int64  `json:"input_tokens"`
	OutputTokens int64  `json:"output_tokens"`
}

// ToolCall is one tool invocation within a trace.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Params    map[string]any `json:"params"`
	Result    any            `json:"result"`
	Error     error          `json:"error,omitempty"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time"`

	trace *Trace
	span  oteltrace.Span
	once  sync.Once
}

// Trace is one orchestrated run.
type Trace struct {
	ID          string           `json:"id"`
	InputPrompt string           `json:"input_prompt"`
	ExecContext ExecutionContext `json:"exec_context,omitempty"`
	ToolCalls   []*ToolCall      `json:"tool_calls"`
	Usage       []Usage          `json:"usage,omitempty"`
	Iterations  int              `json:"iterations"`
	Result      any              `json:"result"`
	Error       error            `json:"error,omitempty"`
	StartTime   time.Time        `json:"start_time"`
	EndTime     time.Time        `json:"end_time"`

	tracer Tracer
	mu     sync.Mutex
	ctx    context.Context
	span   oteltrace.Span
	once   sync.Once
}

func newTrace(ctx context.Context, tr Tracer, prompt string) *Trace {
	execCtx := GetExecutionContext(ctx)

	attrs := append([]attribute.KeyValue{attribute.String("agent.prompt", prompt)}, execCtx.spanAttributes()...)
	ctx, span := tracer().Start(ctx, "agent.run", oteltrace.WithAttributes(attrs...))

	return &Trace{
		ID:          uuid.NewString(),
		InputPrompt: prompt,
		ExecContext: execCtx,
		ToolCalls:   []*ToolCall{},
		StartTime:   time.Now(),
		tracer:      tr,
		ctx:         ctx,
		span:        span,
	}
}

// Context returns ctx carrying the trace's span, for child operations.
func (t *Trace) Context(ctx context.Context) context.Context {
	return oteltrace.ContextWithSpan(ctx, t.span)
}

// StartToolCall opens a child span for a tool invocation.
func (t *Trace) StartToolCall(id, name string, params map[string]any) *ToolCall {
	_, span := tracer().Start(t.ctx, "agent.tool_call", oteltrace.WithAttributes(
		attribute.String("tool.name", name),
		attribute.String("tool.id", id),
	))
	return &ToolCall{
		ID:        id,
		Name:      name,
		Params:    params,
		StartTime: time.Now(),
		trace:     t,
		span:      span,
	}
}

// SetIterations records how many engine round trips the run has used.
func (t *Trace) SetIterations(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Iterations = n
	t.span.SetAttributes(attribute.Int("agent.iterations", n))
}

// RecordTokenUsage adds one request's token usage to the trace and its span.
func (t *Trace) RecordTokenUsage(model string, inputTokens, outputTokens int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.Usage = append(t.Usage, Usage{Model: model, InputTokens: inputTokens, OutputTokens: outputTokens})

	var in, out int64
	for _, u := range t.Usage {
		in += u.InputTokens
		out += u.OutputTokens
	}
	t.span.SetAttributes(
		attribute.String("model", model),
		attribute.Int64("tokens.input", in),
		attribute.Int64("tokens.output", out),
		attribute.Int64("tokens.total", in+out),
	)
}

// Complete closes the tool call span and adds the call to its trace.
// Only the first call has any effect.
func (tc *ToolCall) Complete(result any, err error) {
	tc.once.Do(func() {
		tc.Result = result
		tc.Error = err
		tc.EndTime = time.Now()
		endSpan(tc.span, err)

		tc.trace.mu.Lock()
		defer tc.trace.mu.Unlock()
		tc.trace.ToolCalls = append(tc.trace.ToolCalls, tc)
	})
}

// Duration returns how long the tool call took, or has taken so far.
func (tc *ToolCall) Duration() time.Duration {
	if tc.EndTime.IsZero() {
		return time.Since(tc.StartTime)
	}
	return tc.EndTime.Sub(tc.StartTime)
}

// Complete closes the trace and hands it to its tracer.
// Only the first call has any effect.
func (t *Trace) Complete(result any, err error) {
	t.once.Do(func() {
		t.mu.Lock()
		t.Result = result
		t.Error = err
		t.EndTime = time.Now()
		t.mu.Unlock()

		endSpan(t.span, err)
		t.tracer.RecordTrace(t)
	})
}

// Duration returns how long the run took, or has taken so far.
func (t *Trace) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.durationLocked()
}

func (t *Trace) durationLocked() time.Duration {
	if t.EndTime.IsZero() {
		return time.Since(t.StartTime)
	}
	return t.EndTime.Sub(t.StartTime)
}

func endSpan(span oteltrace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// String renders the trace for logs.
func (t *Trace) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Trace %s ===\n", t.ID)
	if t.ExecContext.DeliveryID != "" {
		fmt.Fprintf(&sb, "Delivery: %s (%s)\n", t.ExecContext.DeliveryID, t.ExecContext.EventType)
	}
	fmt.Fprintf(&sb, "Prompt: %q\n", truncate(t.InputPrompt, 200))
	fmt.Fprintf(&sb, "Duration: %v\n", t.durationLocked())
	fmt.Fprintf(&sb, "Iterations: %d\n", t.Iterations)

	if len(t.ToolCalls) == 0 {
		sb.WriteString("\nNo tool calls\n")
	} else {
		fmt.Fprintf(&sb, "\nTool Calls (%d):\n", len(t.ToolCalls))
		for i, tc := range t.ToolCalls {
			fmt.Fprintf(&sb, "  [%d] %s (ID: %s) %v\n", i+1, tc.Name, tc.ID, tc.Duration())
			keys := make([]string, 0, len(tc.Params))
			for k := range tc.Params {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				fmt.Fprintf(&sb, "      %s: %s\n", k, truncate(fmt.Sprint(tc.Params[k]), 200))
			}
			if tc.Error != nil {
				fmt.Fprintf(&sb, "      Error: %v\n", tc.Error)
			} else if tc.Result != nil {
				fmt.Fprintf(&sb, "      Result: %s\n", truncate(fmt.Sprint(tc.Result), 200))
			}
		}
	}

	sb.WriteString("\nCompletion:\n")
	switch {
	case t.Error != nil:
		fmt.Fprintf(&sb, "  Error: %v\n", t.Error)
	case t.Result != nil:
		fmt.Fprintf(&sb, "  Result: %s\n", truncate(fmt.Sprint(t.Result), 500))
	default:
		sb.WriteString("  Result: <nil>\n")
	}
	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
