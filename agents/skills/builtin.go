/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package skills

// Builtin returns the capabilities every deployment starts with.
func Builtin() []Capability {
	return []Capability{{
		ID:          "issue-triage",
		Name:        "Issue Triage",
		Description: "Automatically triage new issues by adding labels and assigning priority",
		Instruction: `When a new issue is opened, analyze its content and:
1. Determine the issue type (bug, feature request, question, documentation)
2. Assess the priority based on impact and urgency
3. Add appropriate labels
4. If needed, add a helpful comment acknowledging the issue`,
		Examples: []string{
			`Bug reports should get "bug" label and priority assessment`,
			`Feature requests should get "enhancement" label`,
			`Questions should get "question" label and may need redirection to discussions`,
		},
		Constraints: []string{
			"Do not close issues automatically",
			"Be polite and welcoming in all comments",
			"When in doubt, use lower priority labels",
		},
		Events: []string{"issues"},
	}, {
		ID:          "pr-review-helper",
		Name:        "PR Review Helper",
		Description: "Help with pull request reviews by checking common issues",
		Instruction: `When a pull request is opened or updated:
1. Check the PR description for completeness
2. Identify the type of change (bugfix, feature, refactor, docs)
3. Add relevant labels
4. Leave a welcoming comment if it's a new contributor`,
		Examples: []string{
			`PRs fixing bugs should get "bugfix" label`,
			`PRs with breaking changes should get "breaking-change" label`,
			"First-time contributors should receive a welcome message",
		},
		Constraints: []string{
			"Do not approve or reject PRs automatically",
			"Do not merge PRs",
			"Be constructive and helpful in feedback",
		},
		Events: []string{"pull_request"},
	}, {
		ID:          "ping-response",
		Name:        "Ping Response",
		Description: "Respond to GitHub ping events",
		Instruction: "When receiving a ping event, acknowledge the webhook is properly configured.",
		Events:      []string{"ping"},
	}}
}
