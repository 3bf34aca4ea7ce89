/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package orchestrator drives the bounded conversation between a composed
// prompt and a reasoning engine.
//
// A run moves through Composing, then Requesting, then zero or more rounds of
// Executing and Requesting, and ends Done or Exhausted:
//
//	loop, err := orchestrator.New(eng, githubtools.NewExecutor(client),
//		orchestrator.WithMaxIterations(5),
//		orchestrator.WithToolTimeout(30*time.Second),
//	)
//	if err != nil {
//		return err
//	}
//	runner, err := orchestrator.NewRunner(registry, loop)
//	if err != nil {
//		return err
//	}
//	result, err := runner.Run(ctx, "issues", payload)
//
// Tool calls in a response run one after another in the order the engine
// emitted them, so the action log mirrors the engine's requests exactly. Tool
// failures are reported to the engine and never end a run. Engine failures end
// the run with an *EngineError and are not retried.
//
// Each step runs on a context detached from the caller's cancellation and
// bounded by its own timeout. Between steps the caller's context is checked;
// once it is done the run stops with an *AbandonedError holding every action
// completed so far.
package orchestrator
