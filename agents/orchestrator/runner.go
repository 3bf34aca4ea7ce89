/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"context"
	"errors"

	"github.com/chainguard-dev/clog"

	"chainguard.dev/hookagent/agents/agenttrace"
	"chainguard.dev/hookagent/agents/eventformat"
	"chainguard.dev/hookagent/agents/prompt"
	"chainguard.dev/hookagent/agents/skills"
)

// Runner turns an event into a run: it selects the capabilities for the
// event, composes the system prompt, formats the event and loops.
type Runner struct {
	registry *skills.Registry
	loop     *Orchestrator
}

// NewRunner returns a Runner over registry and loop.
func NewRunner(registry *skills.Registry, loop *Orchestrator) (*Runner, error) {
	if registry == nil {
		return nil, errors.New("registry cannot be nil")
	}
	if loop == nil {
		return nil, errors.New("orchestrator cannot be nil")
	}
	return &Runner{registry: registry, loop: loop}, nil
}

// Prompts returns the system prompt composed from the capabilities loaded for
// eventType and the user message describing payload.
func Prompts(registry *skills.Registry, eventType string, payload any) (system, user string) {
	return prompt.Compose(registry.ForEvent(eventType)), eventformat.Format(eventType, payload)
}

// Run handles one event.
func (r *Runner) Run(ctx context.Context, eventType string, payload any) (*Result, error) {
	execCtx := agenttrace.GetExecutionContext(ctx)
	if execCtx.EventType == "" {
		execCtx.EventType = eventType
		ctx = agenttrace.WithExecutionContext(ctx, execCtx)
	}

	system, user := Prompts(r.registry, eventType, payload)
	clog.FromContext(ctx).With("event", eventType, "system_bytes", len(system)).Info("Starting run")

	return r.loop.Loop(ctx, system, user)
}
