/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package toolcall

import (
	"encoding/json"
	"errors"
	"fmt"

	"chainguard.dev/hookagent/agents/schema"
)

// ToolCall is a provider-independent representation of a tool call.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any

	// ArgsErr is set when the engine returned arguments that could not be
	// decoded into an object. The executor reports it instead of running the tool.
	ArgsErr error
}

// DecodeArgs parses raw JSON arguments as emitted by an engine.
// Empty input decodes to an empty map.
func DecodeArgs(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("invalid tool arguments: %w", err)
	}
	if args == nil {
		return map[string]any{}, nil
	}
	return args, nil
}

// Definition describes a tool's schema (name, description, parameters).
type Definition struct {
	Name        string
	Description string
	Parameters  []Parameter
}

// Parameter describes a single tool parameter.
type Parameter struct {
	Name        string
	Type        string // "string", "integer", "boolean", "number", "array"
	Items       string // element type when Type is "array"
	Description string
	Required    bool
}

// Required returns the names of the required parameters in declaration order.
func (d Definition) Required() []string {
	req := make([]string, 0, len(d.Parameters))
	for _, p := range d.Parameters {
		if p.Required {
			req = append(req, p.Name)
		}
	}
	return req
}

// Properties renders the parameters as JSON-schema property objects.
func (d Definition) Properties() map[string]any {
	props := make(map[string]any, len(d.Parameters))
	for _, p := range d.Parameters {
		prop := map[string]any{"type": p.Type}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if p.Type == "array" {
			items := p.Items
			if items == "" {
				items = "string"
			}
			prop["items"] = map[string]any{"type": items}
		}
		props[p.Name] = prop
	}
	return props
}

// InputSchema renders the parameters as a JSON-schema object.
func (d Definition) InputSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": d.Properties(),
		"required":   d.Required(),
	}
}

// ParametersOf derives a parameter list from the exported fields of T using
// its json and jsonschema tags.
func ParametersOf[T any]() []Parameter {
	s := schema.ReflectType[T]()
	if s == nil || s.Properties == nil {
		return nil
	}

	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}

	params := make([]Parameter, 0, s.Properties.Len())
	for p := s.Properties.Oldest(); p != nil; p = p.Next() {
		param := Parameter{
			Name:        p.Key,
			Type:        p.Value.Type,
			Description: p.Value.Description,
			Required:    required[p.Key],
		}
		if p.Value.Items != nil {
			param.Items = p.Value.Items.Type
		}
		params = append(params, param)
	}
	return params
}

// Outcome is the result of executing one tool call. Exactly one of Result
// and Err is meaningful: a non-empty Err marks a failure.
type Outcome struct {
	Tool      string
	Arguments map[string]any
	Result    any
	Err       string
}

// Ok returns a successful outcome.
func Ok(call ToolCall, result any) Outcome {
	return Outcome{Tool: call.Name, Arguments: call.Args, Result: result}
}

// Errf returns a failed outcome with a formatted message.
func Errf(call ToolCall, format string, args ...any) Outcome {
	msg := fmt.Sprintf(format, args...)
	if msg == "" {
		msg = "tool failed"
	}
	return Outcome{Tool: call.Name, Arguments: call.Args, Err: msg}
}

// OK reports whether the tool call succeeded.
func (o Outcome) OK() bool {
	return o.Err == ""
}

// Error returns the failure as an error, or nil on success.
func (o Outcome) Error() error {
	if o.OK() {
		return nil
	}
	return errors.New(o.Err)
}

// Payload is the value reported back to the engine: the result on success,
// or an object with a single "error" key on failure.
func (o Outcome) Payload() any {
	if o.OK() {
		return o.Result
	}
	return map[string]any{"error": o.Err}
}

// Text renders Payload as JSON for the engine.
func (o Outcome) Text() string {
	b, err := json.Marshal(o.Payload())
	if err != nil {
		b, _ = json.Marshal(map[string]any{"error": fmt.Sprintf("unserializable result: %v", err)})
	}
	return string(b)
}

type outcomeJSON struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments"`
	Result    any            `json:"result"`
}

// MarshalJSON renders the outcome as an action log entry.
func (o Outcome) MarshalJSON() ([]byte, error) {
	args := o.Arguments
	if args == nil {
		args = map[string]any{}
	}
	return json.Marshal(outcomeJSON{Tool: o.Tool, Arguments: args, Result: o.Payload()})
}
