/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package schema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"chainguard.dev/hookagent/agents/schema"
)

type labelArgs struct {
	Owner  string   `json:"owner" jsonschema:"required" jsonschema_description:"Repository owner"`
	Labels []string `json:"labels" jsonschema:"required" jsonschema_description:"Labels to add"`
	Ref    string   `json:"ref,omitempty" jsonschema_description:"Git ref (branch, tag, or commit)"`
	Number int      `json:"number"`
}

func TestReflectType(t *testing.T) {
	s := schema.ReflectType[labelArgs]()
	if s == nil {
		t.Fatal("ReflectType(): got = nil, wanted schema")
	}

	if diff := cmp.Diff([]string{"owner", "labels"}, s.Required); diff != "" {
		t.Errorf("Required mismatch (-want +got):\n%s", diff)
	}

	var names []string
	for p := s.Properties.Oldest(); p != nil; p = p.Next() {
		names = append(names, p.Key)
	}
	if diff := cmp.Diff([]string{"owner", "labels", "ref", "number"}, names); diff != "" {
		t.Errorf("property order mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		name     string
		typ      string
		items    string
		describe string
	}{
		{name: "owner", typ: "string", describe: "Repository owner"},
		{name: "labels", typ: "array", items: "string", describe: "Labels to add"},
		{name: "ref", typ: "string", describe: "Git ref (branch, tag, or commit)"},
		{name: "number", typ: "integer"},
	}
	for _, tt := range tests {
		prop, ok := s.Properties.Get(tt.name)
		if !ok {
			t.Errorf("missing property %q", tt.name)
			continue
		}
		if prop.Type != tt.typ {
			t.Errorf("%s type: got = %q, wanted = %q", tt.name, prop.Type, tt.typ)
		}
		if prop.Description != tt.describe {
			t.Errorf("%s description: got = %q, wanted = %q", tt.name, prop.Description, tt.describe)
		}
		if tt.items != "" && (prop.Items == nil || prop.Items.Type != tt.items) {
			t.Errorf("%s items: got = %+v, wanted type %q", tt.name, prop.Items, tt.items)
		}
	}
}

func TestReflectTypeCached(t *testing.T) {
	if a, b := schema.ReflectType[labelArgs](), schema.ReflectType[labelArgs](); a != b {
		t.Error("ReflectType() returned distinct schemas for the same type")
	}
}
