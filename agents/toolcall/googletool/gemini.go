/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package googletool converts between toolcall types and the Google GenAI SDK.
package googletool

import (
	"encoding/json"

	"google.golang.org/genai"

	"chainguard.dev/hookagent/agents/toolcall"
)

var types = map[string]genai.Type{
	"string":  genai.TypeString,
	"integer": genai.TypeInteger,
	"number":  genai.TypeNumber,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

func schemaType(t string) genai.Type {
	if gt, ok := types[t]; ok {
		return gt
	}
	return genai.TypeString
}

// Definition renders def as a Gemini function declaration.
func Definition(def toolcall.Definition) *genai.FunctionDeclaration {
	props := make(map[string]*genai.Schema, len(def.Parameters))
	for _, p := range def.Parameters {
		s := &genai.Schema{
			Type:        schemaType(p.Type),
			Description: p.Description,
		}
		if p.Type == "array" {
			items := p.Items
			if items == "" {
				items = "string"
			}
			s.Items = &genai.Schema{Type: schemaType(items)}
		}
		props[p.Name] = s
	}

	return &genai.FunctionDeclaration{
		Name:        def.Name,
		Description: def.Description,
		Parameters: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: props,
			Required:   def.Required(),
		},
	}
}

// Tools renders a catalog as a single Gemini tool.
func Tools(defs []toolcall.Definition) []*genai.Tool {
	if len(defs) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, 0, len(defs))
	for _, def := range defs {
		decls = append(decls, Definition(def))
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// ToolCall converts a Gemini function call. Gemini may omit call ids, so
// id is used when the call carries none.
func ToolCall(fc *genai.FunctionCall, id string) toolcall.ToolCall {
	if fc.ID != "" {
		id = fc.ID
	}
	args := fc.Args
	if args == nil {
		args = map[string]any{}
	}
	return toolcall.ToolCall{ID: id, Name: fc.Name, Args: args}
}

// FunctionCall renders a ToolCall for replay in the model's turn.
func FunctionCall(call toolcall.ToolCall) *genai.Part {
	return &genai.Part{FunctionCall: &genai.FunctionCall{
		ID:   call.ID,
		Name: call.Name,
		Args: call.Args,
	}}
}

// FunctionResponse renders a tool result. Successful results are placed
// under "output" and failures under "error".
func FunctionResponse(callID, name, text string, isError bool) *genai.Part {
	var payload any
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		payload = text
	}

	response := map[string]any{"output": payload}
	if isError {
		if m, ok := payload.(map[string]any); ok && m["error"] != nil {
			response = map[string]any{"error": m["error"]}
		} else {
			response = map[string]any{"error": payload}
		}
	}
	return &genai.Part{FunctionResponse: &genai.FunctionResponse{
		ID:       callID,
		Name:     name,
		Response: response,
	}}
}
