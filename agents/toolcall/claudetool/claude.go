/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package claudetool converts between toolcall types and the Anthropic SDK.
package claudetool

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"

	"chainguard.dev/hookagent/agents/toolcall"
)

// Definition renders def as an Anthropic tool declaration.
func Definition(def toolcall.Definition) anthropic.ToolUnionParam {
	param := anthropic.ToolParam{
		Name: def.Name,
		InputSchema: anthropic.ToolInputSchemaParam{
			Type:       "object",
			Properties: def.Properties(),
			Required:   def.Required(),
		},
	}
	if def.Description != "" {
		param.Description = anthropic.String(def.Description)
	}
	return anthropic.ToolUnionParam{OfTool: &param}
}

// Definitions renders a catalog in order.
func Definitions(defs []toolcall.Definition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, def := range defs {
		out = append(out, Definition(def))
	}
	return out
}

// ToolCall converts a tool_use block's fields into a ToolCall.
// Undecodable input is carried on ArgsErr.
func ToolCall(id, name string, input json.RawMessage) toolcall.ToolCall {
	args, err := toolcall.DecodeArgs(string(input))
	return toolcall.ToolCall{ID: id, Name: name, Args: args, ArgsErr: err}
}

// ToolUse renders a ToolCall as an assistant tool_use block.
func ToolUse(call toolcall.ToolCall) anthropic.ContentBlockParamUnion {
	args := call.Args
	if args == nil {
		args = map[string]any{}
	}
	return anthropic.ContentBlockParamUnion{
		OfToolUse: &anthropic.ToolUseBlockParam{
			ID:    call.ID,
			Name:  call.Name,
			Input: args,
		},
	}
}

// ToolResult renders the answer to a tool_use block.
func ToolResult(callID, text string, isError bool) anthropic.ContentBlockParamUnion {
	return anthropic.ContentBlockParamUnion{
		OfToolResult: &anthropic.ToolResultBlockParam{
			ToolUseID: callID,
			Content: []anthropic.ToolResultBlockParamContentUnion{{
				OfText: &anthropic.TextBlockParam{Text: text},
			}},
			IsError: anthropic.Bool(isError),
		},
	}
}
