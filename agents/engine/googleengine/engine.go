/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package googleengine answers conversations with Gemini through the GenAI SDK.
package googleengine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"google.golang.org/genai"

	"chainguard.dev/hookagent/agents/agenttrace"
	"chainguard.dev/hookagent/agents/conversation"
	"chainguard.dev/hookagent/agents/metrics"
	"chainguard.dev/hookagent/agents/toolcall"
	"chainguard.dev/hookagent/agents/toolcall/googletool"
)

// Engine calls Gemini once per Complete.
type Engine struct {
	client          *genai.Client
	model           string
	temperature     float32
	maxOutputTokens int32
	metrics         *metrics.GenAI
}

// New returns an engine for model using client.
func New(client *genai.Client, model string, opts ...Option) (*Engine, error) {
	if client == nil {
		return nil, errors.New("client is required")
	}
	if model == "" {
		return nil, errors.New("model is required")
	}
	e := &Engine{
		client:          client,
		model:           model,
		temperature:     0.2,
		maxOutputTokens: 8192,
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
	contents := Contents(conv)
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(e.temperature),
		MaxOutputTokens: e.maxOutputTokens,
		Tools:           googletool.Tools(catalog),
	}
	if system := conv.System(); system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	clog.FromContext(ctx).With("model", e.model, "contents", len(contents)).Debug("Sending Gemini request")
	resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, config)
	if err != nil {
		e.metrics.RecordRequest(ctx, e.model, false)
		return conversation.Assistant{}, fmt.Errorf("gemini request: %w", err)
	}
	e.metrics.RecordRequest(ctx, e.model, true)

	if u := resp.UsageMetadata; u != nil {
		in, out := int64(u.PromptTokenCount), int64(u.CandidatesTokenCount)
		e.metrics.RecordTokens(ctx, e.model, in, out)
		if trace := agenttrace.FromContext(ctx); trace != nil {
			trace.RecordTokenUsage(e.model, in, out)
		}
	}
	return Assistant(resp)
}

// Contents converts turns to Gemini contents. Consecutive tool results are
// sent together as one user content.
func Contents(conv conversation.Conversation) []*genai.Content {
	var out []*genai.Content
	var results []*genai.Part

	flush := func() {
		if len(results) > 0 {
			out = append(out, &genai.Content{Role: genai.RoleUser, Parts: results})
			results = nil
		}
	}

	for _, turn := range conv.Turns() {
		switch t := turn.(type) {
		case conversation.System:
			// Sent as the system instruction.
		case conversation.User:
			flush()
			out = append(out, &genai.Content{Role: genai.RoleUser, Parts: []*genai.Part{{Text: t.Text}}})
		case conversation.Assistant:
			flush()
			parts := make([]*genai.Part, 0, 1+len(t.ToolCalls))
			if t.Text != "" {
				parts = append(parts, &genai.Part{Text: t.Text})
			}
			for _, call := range t.ToolCalls {
				parts = append(parts, googletool.FunctionCall(call))
			}
			if len(parts) > 0 {
				out = append(out, &genai.Content{Role: genai.RoleModel, Parts: parts})
			}
		case conversation.ToolResult:
			results = append(results, googletool.FunctionResponse(t.CallID, t.Name, t.Text, t.IsError))
		}
	}
	flush()
	return out
}

// Assistant converts the first candidate of resp. Function calls without an
// id are given one so their results can be matched.
func Assistant(resp *genai.GenerateContentResponse) (conversation.Assistant, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		reason := "no candidates"
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			reason = fmt.Sprintf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return conversation.Assistant{}, fmt.Errorf("gemini response: %s", reason)
	}

	var out conversation.Assistant
	var text []string
	for _, part := range resp.Candidates[0].Content.Parts {
		switch {
		case part.Thought:
		case part.FunctionCall != nil:
			out.ToolCalls = append(out.ToolCalls, googletool.ToolCall(part.FunctionCall, "call_"+uuid.NewString()))
		case part.Text != "":
			text = append(text, part.Text)
		}
	}
	out.Text = strings.Join(text, "")
	return out, nil
}
