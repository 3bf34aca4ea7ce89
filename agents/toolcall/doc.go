/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package toolcall defines the provider-independent shape of tools and tool calls.
//
// Engines translate their SDK's tool-use blocks into ToolCall values and render
// Definition values into SDK declarations (see the claudetool, googletool and
// openaitool subpackages). Executors answer each call with an Outcome:
//
//	def := toolcall.Definition{
//		Name:        "add_label",
//		Description: "Add a label to a GitHub issue or pull request",
//		Parameters:  toolcall.ParametersOf[AddLabelArgs](),
//	}
//
// An Outcome always serializes as {"tool", "arguments", "result"}, where result
// is {"error": msg} for failures, so the engine can observe and recover from its
// own mistakes.
package toolcall
