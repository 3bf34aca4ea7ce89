/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package enginetest provides a scripted engine for exercising the
// orchestration loop without a model.
package enginetest

import (
	"context"
	"errors"
	"sync"
	"time"

	"chainguard.dev/hookagent/agents/conversation"
	"chainguard.dev/hookagent/agents/toolcall"
)

// ErrScriptExhausted is returned once every step has been consumed.
var ErrScriptExhausted = errors.New("script exhausted")

// Step is one scripted reply.
type Step struct {
	Response conversation.Assistant
	Err      error

	// Delay is waited before replying. The wait ends early when the
	// request context is done, and Complete returns its error.
	Delay time.Duration
}

// Request is what the engine saw on one call.
type Request struct {
	Conversation conversation.Conversation
	Catalog      []toolcall.Definition
}

// Script replays Steps in order.
type Script struct {
	mu       sync.Mutex
	steps    []Step
	requests []Request
}

// New returns a Script that replies with steps.
func New(steps ...Step) *Script {
	return &Script{steps: steps}
}

// Reply is shorthand for a step that answers with text only.
func Reply(text string) Step {
	return Step{Response: conversation.Assistant{Text: text}}
}

// Call is shorthand for a step that requests the given tool calls.
func Call(calls ...toolcall.ToolCall) Step {
	return Step{Response: conversation.Assistant{ToolCalls: calls}}
}

// Complete implements engine.Engine.
func (s *Script) Complete(ctx context.Context, conv conversation.Conversation, catalog []toolcall.Definition) (conversation.Assistant, error) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{Conversation: conv, Catalog: catalog})
	if len(s.steps) == 0 {
		s.mu.Unlock()
		return conversation.Assistant{}, ErrScriptExhausted
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	s.mu.Unlock()

	if step.Delay > 0 {
		t := time.NewTimer(step.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return conversation.Assistant{}, ctx.Err()
		case <-t.C:
		}
	}
	if step.Err != nil {
		return conversation.Assistant{}, step.Err
	}
	return step.Response, nil
}

// Requests returns the requests seen so far.
func (s *Script) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Remaining reports how many steps have not been consumed.
func (s *Script) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.steps)
}
