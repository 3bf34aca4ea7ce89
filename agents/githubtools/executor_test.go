/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubtools_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chainguard.dev/hookagent/agents/githubtools"
	"chainguard.dev/hookagent/agents/githubtools/githubtest"
	"chainguard.dev/hookagent/agents/toolcall"
)

func TestExecute(t *testing.T) {
	tests := []struct {
		name      string
		fake      *githubtest.Fake
		call      toolcall.ToolCall
		want      any
		wantErr   string
		wantCalls []githubtest.Call
	}{{
		name: "add comment",
		fake: &githubtest.Fake{},
		call: toolcall.ToolCall{ID: "1", Name: "add_comment", Args: map[string]any{
			"owner": "octo", "repo": "hello", "issue_number": float64(7), "body": "Thanks!",
		}},
		want:      &githubtools.Comment{ID: 1, URL: "https://github.com/octo/hello/issues/7#issuecomment-1"},
		wantCalls: []githubtest.Call{{Method: "AddComment", Args: []any{"octo", "hello", 7, "Thanks!"}}},
	}, {
		name: "add label",
		fake: &githubtest.Fake{},
		call: toolcall.ToolCall{ID: "2", Name: "add_label", Args: map[string]any{
			"owner": "octo", "repo": "hello", "issue_number": float64(7), "labels": []any{"bug", "p2"},
		}},
		want:      &githubtools.LabelSet{Labels: []string{"bug", "p2"}},
		wantCalls: []githubtest.Call{{Method: "AddLabels", Args: []any{"octo", "hello", 7, []string{"bug", "p2"}}}},
	}, {
		name: "get file content with ref",
		fake: &githubtest.Fake{
			GetFileContentFunc: func(_ context.Context, _, _, path, ref string) (*githubtools.File, error) {
				return &githubtools.File{Content: path + "@" + ref, SHA: "abc"}, nil
			},
		},
		call: toolcall.ToolCall{ID: "3", Name: "get_file_content", Args: map[string]any{
			"owner": "octo", "repo": "hello", "path": "README.md", "ref": "main",
		}},
		want:      &githubtools.File{Content: "README.md@main", SHA: "abc"},
		wantCalls: []githubtest.Call{{Method: "GetFileContent", Args: []any{"octo", "hello", "README.md", "main"}}},
	}, {
		name:    "unknown tool",
		fake:    &githubtest.Fake{},
		call:    toolcall.ToolCall{ID: "4", Name: "delete_repo", Args: map[string]any{}},
		wantErr: "unknown tool: delete_repo",
	}, {
		name: "missing parameters",
		fake: &githubtest.Fake{},
		call: toolcall.ToolCall{ID: "5", Name: "add_comment", Args: map[string]any{
			"owner": "octo", "body": nil,
		}},
		wantErr: "missing required parameters: repo, issue_number, body",
	}, {
		name: "wrong type",
		fake: &githubtest.Fake{},
		call: toolcall.ToolCall{ID: "6", Name: "get_repository", Args: map[string]any{
			"owner": "octo", "repo": []any{"x"},
		}},
		wantErr: "invalid arguments",
	}, {
		name: "fractional number",
		fake: &githubtest.Fake{},
		call: toolcall.ToolCall{ID: "7", Name: "get_issue", Args: map[string]any{
			"owner": "octo", "repo": "hello", "issue_number": 1.5,
		}},
		wantErr: "is not an integer",
	}, {
		name:    "undecodable arguments",
		fake:    &githubtest.Fake{},
		call:    toolcall.ToolCall{ID: "8", Name: "get_repository", ArgsErr: errors.New("invalid tool arguments: boom")},
		wantErr: "invalid tool arguments: boom",
	}, {
		name: "remote failure",
		fake: &githubtest.Fake{
			GetRepositoryFunc: func(context.Context, string, string) (*githubtools.Repository, error) {
				return nil, errors.New("502 bad gateway")
			},
		},
		call:      toolcall.ToolCall{ID: "9", Name: "get_repository", Args: map[string]any{"owner": "octo", "repo": "hello"}},
		wantErr:   "502 bad gateway",
		wantCalls: []githubtest.Call{{Method: "GetRepository", Args: []any{"octo", "hello"}}},
	}, {
		name: "not a file",
		fake: &githubtest.Fake{},
		call: toolcall.ToolCall{ID: "10", Name: "get_file_content", Args: map[string]any{
			"owner": "octo", "repo": "hello", "path": "docs",
		}},
		wantErr:   githubtools.ErrNotAFile.Error(),
		wantCalls: []githubtest.Call{{Method: "GetFileContent", Args: []any{"octo", "hello", "docs", ""}}},
	}, {
		name: "panic",
		fake: &githubtest.Fake{
			GetPullRequestFunc: func(context.Context, string, string, int) (*githubtools.PullRequest, error) {
				panic("nil map")
			},
		},
		call: toolcall.ToolCall{ID: "11", Name: "get_pull_request", Args: map[string]any{
			"owner": "octo", "repo": "hello", "pull_number": float64(3),
		}},
		wantErr:   "tool get_pull_request panicked: nil map",
		wantCalls: []githubtest.Call{{Method: "GetPullRequest", Args: []any{"octo", "hello", 3}}},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := githubtools.NewExecutor(tt.fake)
			got := exec.Execute(context.Background(), tt.call)

			if got.Tool != tt.call.Name {
				t.Errorf("Tool: got = %q, wanted = %q", got.Tool, tt.call.Name)
			}
			if tt.wantErr != "" {
				if got.OK() {
					t.Fatalf("Execute(): got success %v, wanted error containing %q", got.Result, tt.wantErr)
				}
				if !strings.Contains(got.Err, tt.wantErr) {
					t.Errorf("Err: got = %q, wanted to contain %q", got.Err, tt.wantErr)
				}
			} else {
				if !got.OK() {
					t.Fatalf("Execute(): got error %q", got.Err)
				}
				if diff := cmp.Diff(tt.want, got.Result); diff != "" {
					t.Errorf("Result mismatch (-want +got):\n%s", diff)
				}
			}
			if diff := cmp.Diff(tt.wantCalls, tt.fake.Calls()); diff != "" {
				t.Errorf("Calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExecuteNeverFailsForAnyTool(t *testing.T) {
	exec := githubtools.NewExecutor(&githubtest.Fake{})
	for _, def := range exec.Catalog() {
		for _, args := range []map[string]any{nil, {}, {"owner": 1, "repo": true}} {
			out := exec.Execute(context.Background(), toolcall.ToolCall{ID: "x", Name: def.Name, Args: args})
			if out.OK() {
				t.Errorf("%s(%v): got success, wanted error", def.Name, args)
			}
		}
	}
}
