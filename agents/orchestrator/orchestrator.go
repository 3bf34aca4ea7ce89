/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"

	"chainguard.dev/hookagent/agents/agenttrace"
	"chainguard.dev/hookagent/agents/conversation"
	"chainguard.dev/hookagent/agents/engine"
	"chainguard.dev/hookagent/agents/metrics"
	"chainguard.dev/hookagent/agents/toolcall"
)

// Tools offers a catalog and executes calls against it. Execute must not
// panic or fail; every failure belongs on the Outcome.
type Tools interface {
	Catalog() []toolcall.Definition
	Execute(ctx context.Context, call toolcall.ToolCall) toolcall.Outcome
}

// Orchestrator runs the loop for one engine and tool set. It holds no
// per-run state and is safe for concurrent runs.
type Orchestrator struct {
	engine engine.Engine
	tools  Tools

	maxIterations  int
	requestTimeout time.Duration
	toolTimeout    time.Duration
	model          string
	metrics        *metrics.GenAI
}

// New returns an Orchestrator driving eng with tools.
func New(eng engine.Engine, tools Tools, opts ...Option) (*Orchestrator, error) {
	if eng == nil {
		return nil, errors.New("engine cannot be nil")
	}
	if tools == nil {
		return nil, errors.New("tools cannot be nil")
	}
	o := &Orchestrator{
		engine:         eng,
		tools:          tools,
		maxIterations:  DefaultMaxIterations,
		requestTimeout: DefaultRequestTimeout,
		toolTimeout:    DefaultToolTimeout,
		model:          "unknown",
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}
	if o.metrics == nil {
		o.metrics = metrics.NewGenAI(metrics.MeterName)
	}
	return o, nil
}

// MaxIterations reports the iteration ceiling.
func (o *Orchestrator) MaxIterations() int { return o.maxIterations }

// Loop runs one conversation seeded with the system prompt and user message.
//
// The returned error is an *EngineError or an *AbandonedError; tool failures
// only ever appear in the Result.
func (o *Orchestrator) Loop(ctx context.Context, system, user string) (res *Result, err error) {
	trace := agenttrace.StartTrace(ctx, user)
	defer func() { trace.Complete(res, err) }()
	ctx = agenttrace.WithTrace(trace.Context(ctx), trace)

	log := clog.FromContext(ctx).With("trace_id", trace.ID)
	catalog := o.tools.Catalog()
	conv := conversation.New(system, user)
	res = newResult()

	for res.IterationsUsed < o.maxIterations {
		if err := ctx.Err(); err != nil {
			return nil, o.abandon(ctx, res, err)
		}
		res.IterationsUsed++
		trace.SetIterations(res.IterationsUsed)
		ictx := agenttrace.WithIteration(ctx, res.IterationsUsed)
		ilog := log.With("iteration", res.IterationsUsed)

		reply, err := o.request(ictx, conv, catalog)
		if err != nil {
			ilog.With("error", err).Error("Engine request failed")
			return nil, &EngineError{Iteration: res.IterationsUsed, Result: res, Err: err}
		}
		conv = conv.Append(reply)

		if len(reply.ToolCalls) == 0 {
			if reply.Text != "" {
				res.FinalMessage = &reply.Text
			}
			ilog.With("actions", len(res.Actions)).Info("Run completed")
			return res, nil
		}

		ilog.With("tool_calls", len(reply.ToolCalls)).Info("Executing tool calls")
		for _, call := range reply.ToolCalls {
			if err := ctx.Err(); err != nil {
				return nil, o.abandon(ctx, res, err)
			}
			out := o.execute(ictx, trace, call)
			conv = conv.Append(conversation.ToolResult{
				CallID:  call.ID,
				Name:    call.Name,
				Text:    out.Text(),
				IsError: !out.OK(),
			})
			res.Actions = append(res.Actions, out)
		}
	}

	log.With("iterations", res.IterationsUsed, "actions", len(res.Actions)).Warn("Iteration ceiling reached")
	res.Exhausted = true
	msg := ExhaustedMessage
	res.FinalMessage = &msg
	return res, nil
}

func (o *Orchestrator) request(ctx context.Context, conv conversation.Conversation, catalog []toolcall.Definition) (conversation.Assistant, error) {
	ctx, cancel := detach(ctx, o.requestTimeout)
	defer cancel()
	return o.engine.Complete(ctx, conv, catalog)
}

func (o *Orchestrator) execute(ctx context.Context, trace *agenttrace.Trace, call toolcall.ToolCall) toolcall.Outcome {
	ctx, cancel := detach(ctx, o.toolTimeout)
	defer cancel()

	tc := trace.StartToolCall(call.ID, call.Name, call.Args)
	out := o.tools.Execute(ctx, call)
	tc.Complete(out.Payload(), out.Error())
	o.metrics.RecordToolCall(ctx, o.model, call.Name, out.OK())
	return out
}

func (o *Orchestrator) abandon(ctx context.Context, res *Result, err error) error {
	clog.FromContext(ctx).With("iterations", res.IterationsUsed, "actions", len(res.Actions)).
		Warn("Run abandoned")
	return &AbandonedError{Result: res, Err: err}
}

// detach returns a context that keeps ctx's values but not its cancellation,
// bounded by timeout when positive.
func detach(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
