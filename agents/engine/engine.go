/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package engine selects and constructs the reasoning engine that drives a run.
//
// An Engine answers a conversation with the next assistant turn. Failures are
// returned as is: SDK retries are disabled and nothing here retries.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/vertex"
	"github.com/openai/openai-go"
	openaioption "github.com/openai/openai-go/option"
	"google.golang.org/genai"

	"chainguard.dev/hookagent/agents/conversation"
	"chainguard.dev/hookagent/agents/engine/claudeengine"
	"chainguard.dev/hookagent/agents/engine/googleengine"
	"chainguard.dev/hookagent/agents/engine/openaiengine"
	"chainguard.dev/hookagent/agents/metrics"
	"chainguard.dev/hookagent/agents/toolcall"
)

// Engine produces the next assistant turn for a conversation.
type Engine interface {
	Complete(ctx context.Context, conv conversation.Conversation, catalog []toolcall.Definition) (conversation.Assistant, error)
}

// Func adapts a function to Engine.
type Func func(ctx context.Context, conv conversation.Conversation, catalog []toolcall.Definition) (conversation.Assistant, error)

// Complete implements Engine.
func (f Func) Complete(ctx context.Context, conv conversation.Conversation, catalog []toolcall.Definition) (conversation.Assistant, error) {
	return f(ctx, conv, catalog)
}

var (
	_ Engine = (*claudeengine.Engine)(nil)
	_ Engine = (*googleengine.Engine)(nil)
	_ Engine = (*openaiengine.Engine)(nil)
)

// DefaultBaseURL is the endpoint used for OpenAI-compatible models.
const DefaultBaseURL = "https://api.openai.com/v1"

// Provider identifies the SDK behind an Engine.
type Provider string

const (
	Claude Provider = "claude"
	Gemini Provider = "gemini"
	OpenAI Provider = "openai"
)

// ProviderFor picks the provider by model name:
//   - "claude-*" models use Anthropic's SDK, directly or via Vertex AI
//   - "gemini-*" models use Google's GenAI SDK, Gemini API or Vertex AI
//   - anything else is sent to an OpenAI-compatible chat completions API
func ProviderFor(model string) Provider {
	m := strings.ToLower(model)
	switch {
	case strings.HasPrefix(m, "claude-"):
		return Claude
	case strings.HasPrefix(m, "gemini-"):
		return Gemini
	default:
		return OpenAI
	}
}

// Config selects and authenticates an engine.
type Config struct {
	Model string

	// APIKey authenticates against the provider's public API. When empty,
	// Claude and Gemini models are reached through Vertex AI.
	APIKey string

	// BaseURL overrides the OpenAI-compatible endpoint.
	BaseURL string

	// Project and Region locate Vertex AI.
	Project string
	Region  string

	MaxTokens int64
}

// NeedsVertex reports whether c reaches its model through Vertex AI.
func (c Config) NeedsVertex() bool {
	return c.APIKey == "" && ProviderFor(c.Model) != OpenAI
}

// New constructs the engine for cfg.Model.
func New(ctx context.Context, cfg Config) (Engine, error) {
	if cfg.Model == "" {
		return nil, errors.New("model is required")
	}
	if cfg.NeedsVertex() && (cfg.Project == "" || cfg.Region == "") {
		return nil, fmt.Errorf("model %s without an api key needs a vertex project and region", cfg.Model)
	}
	m := metrics.NewGenAI(metrics.MeterName)

	switch ProviderFor(cfg.Model) {
	case Claude:
		opts := []anthropicoption.RequestOption{anthropicoption.WithMaxRetries(0)}
		if cfg.APIKey != "" {
			opts = append(opts, anthropicoption.WithAPIKey(cfg.APIKey))
		} else {
			opts = append(opts, vertex.WithGoogleAuth(ctx, cfg.Region, cfg.Project))
		}
		copts := []claudeengine.Option{claudeengine.WithMetrics(m)}
		if cfg.MaxTokens > 0 {
			copts = append(copts, claudeengine.WithMaxTokens(cfg.MaxTokens))
		}
		e, err := claudeengine.New(anthropic.NewClient(opts...), cfg.Model, copts...)
		if err != nil {
			return nil, fmt.Errorf("creating Claude engine: %w", err)
		}
		return e, nil

	case Gemini:
		cc := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
		if cfg.APIKey == "" {
			cc = &genai.ClientConfig{Project: cfg.Project, Location: cfg.Region, Backend: genai.BackendVertexAI}
		}
		client, err := genai.NewClient(ctx, cc)
		if err != nil {
			return nil, fmt.Errorf("creating Google AI client: %w", err)
		}
		gopts := []googleengine.Option{googleengine.WithMetrics(m)}
		if cfg.MaxTokens > 0 {
			gopts = append(gopts, googleengine.WithMaxOutputTokens(int32(cfg.MaxTokens)))
		}
		e, err := googleengine.New(client, cfg.Model, gopts...)
		if err != nil {
			return nil, fmt.Errorf("creating Gemini engine: %w", err)
		}
		return e, nil

	default:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = DefaultBaseURL
		}
		client := openai.NewClient(
			openaioption.WithAPIKey(cfg.APIKey),
			openaioption.WithBaseURL(baseURL),
			openaioption.WithMaxRetries(0),
		)
		oopts := []openaiengine.Option{openaiengine.WithMetrics(m)}
		if cfg.MaxTokens > 0 {
			oopts = append(oopts, openaiengine.WithMaxTokens(cfg.MaxTokens))
		}
		e, err := openaiengine.New(client, cfg.Model, oopts...)
		if err != nil {
			return nil, fmt.Errorf("creating OpenAI engine: %w", err)
		}
		return e, nil
	}
}
