/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package conversation models the ordered exchange between the orchestrator and a
// reasoning engine.
package conversation

import (
	"errors"
	"fmt"
	"slices"

	"chainguard.dev/hookagent/agents/toolcall"
)

// Turn is one entry of a Conversation. The set of variants is closed.
type Turn interface {
	isTurn()
}

// System carries the composed system prompt.
type System struct {
	Text string
}

// User carries the formatted event.
type User struct {
	Text string
}

// Assistant is a reasoning engine response.
type Assistant struct {
	Text      string
	ToolCalls []toolcall.ToolCall
}

// ToolResult answers exactly one tool call of the preceding Assistant turn.
type ToolResult struct {
	CallID  string
	Name    string
	Text    string
	IsError bool
}

func (System) isTurn()     {}
func (User) isTurn()       {}
func (Assistant) isTurn()  {}
func (ToolResult) isTurn() {}

// Conversation is an append-only sequence of turns. The zero value is empty
// and ready to use. Values are never mutated in place.
type Conversation struct {
	turns []Turn
}

// New starts a conversation with a system prompt and a user message.
func New(system, user string) Conversation {
	return Conversation{turns: []Turn{System{Text: system}, User{Text: user}}}
}

// Append returns a conversation with turns added after the receiver's turns.
func (c Conversation) Append(turns ...Turn) Conversation {
	next := slices.Clip(c.turns)
	return Conversation{turns: append(next, turns...)}
}

// Turns returns a copy of the turns in order.
func (c Conversation) Turns() []Turn {
	return slices.Clone(c.turns)
}

// Len returns the number of turns.
func (c Conversation) Len() int {
	return len(c.turns)
}

// System returns the text of the first System turn, if any.
func (c Conversation) System() string {
	for _, t := range c.turns {
		if s, ok := t.(System); ok {
			return s.Text
		}
	}
	return ""
}

// Validate checks that every tool call is answered by exactly one ToolResult
// before the next Assistant turn, and that no ToolResult is unsolicited.
func (c Conversation) Validate() error {
	var pending map[string]bool

	for i, t := range c.turns {
		switch t := t.(type) {
		case Assistant:
			if err := unanswered(pending); err != nil {
				return fmt.Errorf("turn %d: %w", i, err)
			}
			pending = make(map[string]bool, len(t.ToolCalls))
			for _, call := range t.ToolCalls {
				if pending[call.ID] {
					return fmt.Errorf("turn %d: duplicate tool call id %q", i, call.ID)
				}
				pending[call.ID] = true
			}

		case ToolResult:
			if !pending[t.CallID] {
				return fmt.Errorf("turn %d: result for unknown or answered call %q", i, t.CallID)
			}
			delete(pending, t.CallID)

		case System, User:
			if err := unanswered(pending); err != nil {
				return fmt.Errorf("turn %d: %w", i, err)
			}
		}
	}
	return nil
}

func unanswered(pending map[string]bool) error {
	if len(pending) == 0 {
		return nil
	}
	ids := make([]string, 0, len(pending))
	for id := range pending {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return errors.New("unanswered tool calls: " + fmt.Sprint(ids))
}
