/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package openaitool converts between toolcall types and the OpenAI chat completions API.
package openaitool

import (
	"encoding/json"

	"github.com/openai/openai-go"

	"chainguard.dev/hookagent/agents/toolcall"
)

// Definition renders def as an OpenAI function tool.
func Definition(def toolcall.Definition) openai.ChatCompletionToolParam {
	fn := openai.FunctionDefinitionParam{
		Name:       def.Name,
		Parameters: openai.FunctionParameters(def.InputSchema()),
	}
	if def.Description != "" {
		fn.Description = openai.String(def.Description)
	}
	return openai.ChatCompletionToolParam{Function: fn}
}

// Definitions renders a catalog in order.
func Definitions(defs []toolcall.Definition) []openai.ChatCompletionToolParam {
	out := make([]openai.ChatCompletionToolParam, 0, len(defs))
	for _, def := range defs {
		out = append(out, Definition(def))
	}
	return out
}

// ToolCall converts a tool call from a chat completion response.
func ToolCall(tc openai.ChatCompletionMessageToolCall) toolcall.ToolCall {
	args, err := toolcall.DecodeArgs(tc.Function.Arguments)
	return toolcall.ToolCall{ID: tc.ID, Name: tc.Function.Name, Args: args, ArgsErr: err}
}

// Assistant renders an assistant turn, including any tool calls it made.
func Assistant(text string, calls []toolcall.ToolCall) openai.ChatCompletionMessageParamUnion {
	msg := openai.ChatCompletionAssistantMessageParam{}
	if text != "" || len(calls) == 0 {
		msg.Content = openai.ChatCompletionAssistantMessageParamContentUnion{OfString: openai.String(text)}
	}
	for _, call := range calls {
		args := call.Args
		if args == nil {
			args = map[string]any{}
		}
		b, err := json.Marshal(args)
		if err != nil {
			b = []byte("{}")
		}
		msg.ToolCalls = append(msg.ToolCalls, openai.ChatCompletionMessageToolCallParam{
			ID: call.ID,
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      call.Name,
				Arguments: string(b),
			},
		})
	}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: &msg}
}

// ToolResult renders the answer to a tool call.
func ToolResult(callID, text string) openai.ChatCompletionMessageParamUnion {
	return openai.ToolMessage(text, callID)
}
