/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package githubtools is the set of GitHub actions a reasoning engine may request.
//
// Each tool couples a declaration (name, description and an argument struct whose
// json and jsonschema tags produce the parameter schema) with its execution path.
// The pairing is made by declare, which only accepts argument types implementing
// the unexported action interface, so a tool cannot be declared without being
// executable. The Executor dispatches from the same catalog:
//
//	gh, err := githubtools.NewGitHubClient(ctx, githubtools.Auth{Token: token})
//	if err != nil {
//		return err
//	}
//	exec := githubtools.NewExecutor(githubtools.NewClient(gh))
//	outcome := exec.Execute(ctx, call) // never fails, never panics
package githubtools
