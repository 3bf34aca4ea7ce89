/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package agenttrace records what happened during one orchestrated run.

# Overview

  - ExecutionContext: delivery-level metadata (delivery id, event type, repository,
    iteration) used to enrich spans and metrics
  - Trace: one run from user message to result, with an OpenTelemetry span
  - ToolCall: one tool invocation within a trace, with a child span
  - Tracer: creates traces and receives them once complete

# Usage

Attach delivery metadata before starting a run:

	ctx = agenttrace.WithExecutionContext(ctx, agenttrace.ExecutionContext{
		DeliveryID: "72d3162e-cc78-11e3-81ab-4c9367dc0958",
		EventType:  "issues",
		Repository: "octo/hello",
	})

Traces are completed exactly once and handed to the tracer from the context,
which defaults to logging them through clog:

	tracer := agenttrace.ByCode(func(tr *agenttrace.Trace) {
		log.Printf("run %s used %d iterations", tr.ID, tr.Iterations)
	})
	ctx = agenttrace.WithTracer(ctx, tracer)

	tr := agenttrace.StartTrace(ctx, "GitHub Ping Event:\n...")
	ctx = agenttrace.WithTrace(ctx, tr)
	tc := tr.StartToolCall("call_1", "add_comment", args)
	tc.Complete(result, nil)
	tr.Complete(finalMessage, nil)
*/
package agenttrace
