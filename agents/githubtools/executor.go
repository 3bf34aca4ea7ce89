/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubtools

import (
	"context"
	"slices"
	"strings"

	"github.com/chainguard-dev/clog"

	"chainguard.dev/hookagent/agents/toolcall"
)

// Executor runs tool calls against a Client.
type Executor struct {
	client Client
	tools  map[string]entry
	order  []string
}

// NewExecutor returns an executor offering the full catalog.
func NewExecutor(client Client) *Executor {
	e := &Executor{
		client: client,
		tools:  make(map[string]entry, len(catalog)),
		order:  make([]string, 0, len(catalog)),
	}
	for _, s := range catalog {
		e.tools[s.def.Name] = s
		e.order = append(e.order, s.def.Name)
	}
	return e
}

// Catalog returns the tool definitions in a stable order.
func (e *Executor) Catalog() []toolcall.Definition {
	defs := make([]toolcall.Definition, 0, len(e.order))
	for _, name := range e.order {
		def := e.tools[name].def
		def.Parameters = slices.Clone(def.Parameters)
		defs = append(defs, def)
	}
	return defs
}

// Execute runs one tool call. Every failure, including unknown tools, bad
// arguments, remote errors and panics, is reported on the Outcome.
func (e *Executor) Execute(ctx context.Context, call toolcall.ToolCall) (out toolcall.Outcome) {
	log := clog.FromContext(ctx).With("tool", call.Name, "tool_call_id", call.ID)

	defer func() {
		if r := recover(); r != nil {
			log.With("panic", r).Error("Tool panicked")
			out = toolcall.Errf(call, "tool %s panicked: %v", call.Name, r)
		}
	}()

	s, ok := e.tools[call.Name]
	if !ok {
		log.Warn("Unknown tool requested")
		return toolcall.Errf(call, "unknown tool: %s", call.Name)
	}
	if call.ArgsErr != nil {
		return toolcall.Errf(call, "%v", call.ArgsErr)
	}
	if missing := missingParams(s.def, call.Args); len(missing) > 0 {
		return toolcall.Errf(call, "missing required parameters: %s", strings.Join(missing, ", "))
	}

	act, err := s.decode(call.Args)
	if err != nil {
		return toolcall.Errf(call, "%v", err)
	}

	result, err := act.run(ctx, e.client)
	if err != nil {
		log.With("error", err).Warn("Tool failed")
		return toolcall.Errf(call, "%v", err)
	}
	log.Info("Tool succeeded")
	return toolcall.Ok(call, result)
}

func missingParams(def toolcall.Definition, args map[string]any) []string {
	var missing []string
	for _, name := range def.Required() {
		if v, ok := args[name]; !ok || v == nil {
			missing = append(missing, name)
		}
	}
	return missing
}
