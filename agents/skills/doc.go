/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package skills holds the capability catalog that shapes the agent's system prompt.
//
// A Capability is plain data: an instruction block plus optional examples and
// constraints, scoped to the webhook event types it applies to. The Registry filters
// capabilities for an incoming event type in registration order:
//
//	reg, err := skills.NewRegistry(skills.Builtin()...)
//	if err != nil {
//		return err
//	}
//	caps := reg.ForEvent("issues")
//
// Operators can extend the built-in set with a YAML document:
//
//	capabilities:
//	  - id: security-triage
//	    name: Security Triage
//	    instruction: Flag issues that describe a vulnerability.
//	    constraints:
//	      - Never disclose exploit details in comments
//	    events: [issues]
package skills
