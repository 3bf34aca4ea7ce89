/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package claudeengine answers conversations with Anthropic's Messages API.
package claudeengine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/chainguard-dev/clog"

	"chainguard.dev/hookagent/agents/agenttrace"
	"chainguard.dev/hookagent/agents/conversation"
	"chainguard.dev/hookagent/agents/metrics"
	"chainguard.dev/hookagent/agents/toolcall"
	"chainguard.dev/hookagent/agents/toolcall/claudetool"
)

// Engine calls Claude once per Complete.
type Engine struct {
	client      anthropic.Client
	model       string
	maxTokens   int64
	temperature float64
	metrics     *metrics.GenAI
}

// New returns an engine for model using client.
func New(client anthropic.Client, model string, opts ...Option) (*Engine, error) {
	if model == "" {
		return nil, errors.New("model is required")
	}
	e := &Engine{
		client:      client,
		model:       model,
		maxTokens:   8192,
		temperature: 0.2,
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}
	if e.metrics == nil {
		e.metrics = metrics.NewGenAI(metrics.MeterName)
	}
	return e, nil
}

// Complete sends the conversation and catalog and converts the reply.
func (e *Engine) Complete(ctx context.Context, conv conversation.Conversation, catalog []toolcall.Definition) (conversation.Assistant, error) {
	params := e.params(conv, catalog)

	clog.FromContext(ctx).With("model", e.model, "messages", len(params.Messages)).Debug("Sending Claude request")
	msg, err := e.client.Messages.New(ctx, params)
	if err != nil {
		e.metrics.RecordRequest(ctx, e.model, false)
		return conversation.Assistant{}, fmt.Errorf("claude request: %w", err)
	}
	e.metrics.RecordRequest(ctx, e.model, true)

	if msg.Usage.InputTokens > 0 || msg.Usage.OutputTokens > 0 {
		e.metrics.RecordTokens(ctx, e.model, msg.Usage.InputTokens, msg.Usage.OutputTokens)
		if trace := agenttrace.FromContext(ctx); trace != nil {
			trace.RecordTokenUsage(e.model, msg.Usage.InputTokens, msg.Usage.OutputTokens)
		}
	}
	return assistant(msg), nil
}

func (e *Engine) params(conv conversation.Conversation, catalog []toolcall.Definition) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(e.model),
		MaxTokens:   e.maxTokens,
		Messages:    messages(conv),
		Temperature: anthropic.Float(e.temperature),
	}
	if system := conv.System(); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if len(catalog) > 0 {
		params.Tools = claudetool.Definitions(catalog)
	}
	return params
}

// messages converts turns to Claude messages. Consecutive tool results are
// sent together as one user message, as the API requires.
func messages(conv conversation.Conversation) []anthropic.MessageParam {
	var out []anthropic.MessageParam
	var results []anthropic.ContentBlockParamUnion

	flush := func() {
		if len(results) > 0 {
			out = append(out, anthropic.NewUserMessage(results...))
			results = nil
		}
	}

	for _, turn := range conv.Turns() {
		switch t := turn.(type) {
		case conversation.System:
			// Sent as the system parameter.
		case conversation.User:
			flush()
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(t.Text)))
		case conversation.Assistant:
			flush()
			blocks := make([]anthropic.ContentBlockParamUnion, 0, 1+len(t.ToolCalls))
			if t.Text != "" {
				blocks = append(blocks, anthropic.NewTextBlock(t.Text))
			}
			for _, call := range t.ToolCalls {
				blocks = append(blocks, claudetool.ToolUse(call))
			}
			if len(blocks) > 0 {
				out = append(out, anthropic.NewAssistantMessage(blocks...))
			}
		case conversation.ToolResult:
			results = append(results, claudetool.ToolResult(t.CallID, t.Text, t.IsError))
		}
	}
	flush()
	return out
}

func assistant(msg *anthropic.Message) conversation.Assistant {
	var text []string
	var out conversation.Assistant
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			if block.Text != "" {
				text = append(text, block.Text)
			}
		case "tool_use":
			out.ToolCalls = append(out.ToolCalls, claudetool.ToolCall(block.ID, block.Name, block.Input))
		}
	}
	out.Text = strings.Join(text, "\n")
	return out
}
