/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package openaiengine answers conversations with any OpenAI-compatible
// chat completions endpoint.
package openaiengine

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"

	"chainguard.dev/hookagent/agents/agenttrace"
	"chainguard.dev/hookagent/agents/conversation"
	"chainguard.dev/hookagent/agents/metrics"
	"chainguard.dev/hookagent/agents/toolcall"
	"chainguard.dev/hookagent/agents/toolcall/openaitool"
)

// Engine calls the chat completions API once per Complete.
type Engine struct {
	client    openai.Client
	model     string
	maxTokens int64
	metrics   *metrics.GenAI
}

// New returns an engine for model using client.
func New(client openai.Client, model string, opts ...Option) (*Engine, error) {
	if model == "" {
		return nil, errors.New("model is required")
	}
	e := &Engine{client: client, model: model}
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
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(e.model),
		Messages: Messages(conv),
	}
	if len(catalog) > 0 {
		params.Tools = openaitool.Definitions(catalog)
	}
	if e.maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(e.maxTokens)
	}

	clog.FromContext(ctx).With("model", e.model, "messages", len(params.Messages)).Debug("Sending chat completion request")
	resp, err := e.client.Chat.Completions.New(ctx, params)
	if err != nil {
		e.metrics.RecordRequest(ctx, e.model, false)
		return conversation.Assistant{}, fmt.Errorf("chat completion request: %w", err)
	}
	e.metrics.RecordRequest(ctx, e.model, true)

	if resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0 {
		e.metrics.RecordTokens(ctx, e.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
		if trace := agenttrace.FromContext(ctx); trace != nil {
			trace.RecordTokenUsage(e.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
		}
	}

	if len(resp.Choices) == 0 {
		return conversation.Assistant{}, errors.New("chat completion response has no choices")
	}
	msg := resp.Choices[0].Message
	out := conversation.Assistant{Text: msg.Content}
	for _, tc := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, openaitool.ToolCall(tc))
	}
	return out, nil
}

// Messages converts turns to chat completion messages.
func Messages(conv conversation.Conversation) []openai.ChatCompletionMessageParamUnion {
	turns := conv.Turns()
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, turn := range turns {
		switch t := turn.(type) {
		case conversation.System:
			out = append(out, openai.SystemMessage(t.Text))
		case conversation.User:
			out = append(out, openai.UserMessage(t.Text))
		case conversation.Assistant:
			out = append(out, openaitool.Assistant(t.Text, t.ToolCalls))
		case conversation.ToolResult:
			out = append(out, openaitool.ToolResult(t.CallID, t.Text))
		}
	}
	return out
}
