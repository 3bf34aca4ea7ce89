/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package prompt renders the system prompt that frames each webhook run.
package prompt

import (
	"strings"

	"chainguard.dev/hookagent/agents/skills"
)

// Preamble is the fixed role statement every system prompt opens with.
const Preamble = `You are an Agent Workflow Server that processes GitHub events and takes appropriate actions.

Your responsibilities:
1. Understand the incoming event
2. Decide what actions to take
3. Execute actions using the available tools
4. Report the results

`

// Compose renders the system prompt for the given capabilities.
// The output depends only on caps and their order.
func Compose(caps []skills.Capability) string {
	var sb strings.Builder
	sb.WriteString(Preamble)

	if len(caps) == 0 {
		return sb.String()
	}

	sb.WriteString("\n## Loaded Skills\n\n")
	for _, c := range caps {
		sb.WriteString("### ")
		sb.WriteString(c.Title())
		sb.WriteString("\n")
		sb.WriteString(c.Instruction)
		sb.WriteString("\n\n")

		writeList(&sb, "Examples:", c.Examples)
		writeList(&sb, "Constraints:", c.Constraints)
	}
	return sb.String()
}

func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading)
	sb.WriteString("\n")
	for _, item := range items {
		sb.WriteString("- ")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}
