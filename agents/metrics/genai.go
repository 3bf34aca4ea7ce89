/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics provides OpenTelemetry counters for reasoning engine usage.
package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"chainguard.dev/hookagent/agents/agenttrace"
)

// MeterName is the meter shared by every engine and the orchestrator.
// The model is a dimension on each measurement.
const MeterName = "chainguard.dev/hookagent"

// AttributeEnricher adds contextual attributes to the base attributes of a measurement.
type AttributeEnricher func(ctx context.Context, baseAttrs []attribute.KeyValue) []attribute.KeyValue

// ExecutionEnricher adds the delivery's bounded attributes from agenttrace.
func ExecutionEnricher(ctx context.Context, baseAttrs []attribute.KeyValue) []attribute.KeyValue {
	return agenttrace.GetExecutionContext(ctx).EnrichAttributes(baseAttrs)
}

// GenAI counts tokens, tool calls and requests. Counters that fail to
// initialize degrade to no-ops.
type GenAI struct {
	promptTokens     metric.Int64Counter
	completionTokens metric.Int64Counter
	toolCalls        metric.Int64Counter
	requests         metric.Int64Counter
	enrich           AttributeEnricher
}

// NewGenAI creates counters on the named meter, enriched with ExecutionEnricher.
func NewGenAI(meterName string) *GenAI {
	meter := otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0"))

	counter := func(name, description, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
		if err != nil {
			slog.Warn("Failed to create counter, metric will be disabled", "error", err, "meter", meterName, "counter", name)
			return noop.Int64Counter{}
		}
		return c
	}

	return &GenAI{
		promptTokens:     counter("genai.token.prompt", "The number of prompt tokens used", "{tokens}"),
		completionTokens: counter("genai.token.completion", "The number of completion tokens used", "{tokens}"),
		toolCalls:        counter("genai.tool.calls", "The number of tool calls made during execution", "{calls}"),
		requests:         counter("genai.requests", "The number of reasoning engine requests by outcome", "{requests}"),
		enrich:           ExecutionEnricher,
	}
}

// SetAttributeEnricher replaces the enricher; nil disables enrichment.
func (m *GenAI) SetAttributeEnricher(enricher AttributeEnricher) {
	m.enrich = enricher
}

func (m *GenAI) attributes(ctx context.Context, base []attribute.KeyValue, extra []attribute.KeyValue) metric.MeasurementOption {
	if m.enrich != nil {
		base = m.enrich(ctx, base)
	}
	return metric.WithAttributes(append(base, extra...)...)
}

// RecordTokens records prompt and completion token usage for model.
func (m *GenAI) RecordTokens(ctx context.Context, model string, promptTokens, completionTokens int64, attrs ...attribute.KeyValue) {
	opt := m.attributes(ctx, []attribute.KeyValue{attribute.String("model", model)}, attrs)
	m.promptTokens.Add(ctx, promptTokens, opt)
	m.completionTokens.Add(ctx, completionTokens, opt)
}

// RecordToolCall records one tool invocation and whether it succeeded.
func (m *GenAI) RecordToolCall(ctx context.Context, model, toolName string, ok bool, attrs ...attribute.KeyValue) {
	m.toolCalls.Add(ctx, 1, m.attributes(ctx, []attribute.KeyValue{
		attribute.String("model", model),
		attribute.String("tool", toolName),
		attribute.Bool("ok", ok),
	}, attrs))
}

// RecordRequest records one engine request and whether it succeeded.
func (m *GenAI) RecordRequest(ctx context.Context, model string, ok bool, attrs ...attribute.KeyValue) {
	m.requests.Add(ctx, 1, m.attributes(ctx, []attribute.KeyValue{
		attribute.String("model", model),
		attribute.Bool("ok", ok),
	}, attrs))
}
