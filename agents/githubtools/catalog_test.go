/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubtools

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCatalogMatchesDispatch(t *testing.T) {
	e := NewExecutor(nil)

	if got, want := len(e.tools), len(catalog); got != want {
		t.Fatalf("dispatch entries: got = %d, wanted = %d (duplicate names?)", got, want)
	}

	var names []string
	for _, def := range e.Catalog() {
		names = append(names, def.Name)
		s, ok := e.tools[def.Name]
		if !ok {
			t.Errorf("%s: declared but not dispatchable", def.Name)
			continue
		}
		if s.decode == nil {
			t.Errorf("%s: no decoder", def.Name)
		}
		if len(def.Parameters) == 0 {
			t.Errorf("%s: no parameters", def.Name)
		}
		if def.Description == "" {
			t.Errorf("%s: no description", def.Name)
		}
	}

	want := []string{"add_comment", "add_label", "get_file_content", "get_issue", "get_pull_request", "get_repository"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("Catalog() names mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalogParameters(t *testing.T) {
	tests := []struct {
		tool     string
		required []string
	}{
		{tool: "add_comment", required: []string{"owner", "repo", "issue_number", "body"}},
		{tool: "add_label", required: []string{"owner", "repo", "issue_number", "labels"}},
		{tool: "get_file_content", required: []string{"owner", "repo", "path"}},
		{tool: "get_issue", required: []string{"owner", "repo", "issue_number"}},
		{tool: "get_pull_request", required: []string{"owner", "repo", "pull_number"}},
		{tool: "get_repository", required: []string{"owner", "repo"}},
	}

	e := NewExecutor(nil)
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			def := e.tools[tt.tool].def
			if diff := cmp.Diff(tt.required, def.Required()); diff != "" {
				t.Errorf("Required() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	labels := e.tools["add_label"].def.Parameters[3]
	if labels.Type != "array" || labels.Items != "string" {
		t.Errorf("add_label labels: got = %+v, wanted array of string", labels)
	}
}

func TestCatalogIsolated(t *testing.T) {
	e := NewExecutor(nil)
	defs := e.Catalog()
	defs[0].Parameters[0].Name = "mutated"

	if got := e.Catalog()[0].Parameters[0].Name; got == "mutated" {
		t.Error("Catalog() exposes internal state")
	}
}
