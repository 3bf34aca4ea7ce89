/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package orchestrator

import (
	"errors"
	"fmt"

	"chainguard.dev/hookagent/agents/toolcall"
)

// ExhaustedMessage is the final message of a run that hit its iteration ceiling.
const ExhaustedMessage = "Max iterations reached"

// Result is the outcome of one run.
type Result struct {
	// FinalMessage is the engine's closing text, nil when it had none.
	FinalMessage *string `json:"finalMessage"`

	// Actions lists every executed tool call in execution order.
	Actions []toolcall.Outcome `json:"actions"`

	IterationsUsed int  `json:"iterationsUsed"`
	Exhausted      bool `json:"exhausted"`
}

func newResult() *Result {
	return &Result{Actions: []toolcall.Outcome{}}
}

// EngineError reports that the reasoning engine failed to answer.
type EngineError struct {
	// Iteration is the 1-based iteration whose request failed.
	Iteration int

	// Result holds the actions completed before the failure.
	Result *Result

	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine request failed on iteration %d: %v", e.Iteration, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// AbandonedError reports that the caller's context ended the run between steps.
type AbandonedError struct {
	Result *Result
	Err    error
}

func (e *AbandonedError) Error() string {
	return fmt.Sprintf("run abandoned after %d iterations and %d actions: %v",
		e.Result.IterationsUsed, len(e.Result.Actions), e.Err)
}

func (e *AbandonedError) Unwrap() error { return e.Err }

// PartialResult returns the result carried by a run error, if any.
func PartialResult(err error) (*Result, bool) {
	if ae := (*AbandonedError)(nil); errors.As(err, &ae) && ae.Result != nil {
		return ae.Result, true
	}
	if ee := (*EngineError)(nil); errors.As(err, &ee) && ee.Result != nil {
		return ee.Result, true
	}
	return nil, false
}
