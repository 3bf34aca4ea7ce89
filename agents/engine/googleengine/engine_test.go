/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleengine

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"

	"chainguard.dev/hookagent/agents/conversation"
	"chainguard.dev/hookagent/agents/toolcall"
)

func TestContents(t *testing.T) {
	conv := conversation.New("sys", "GitHub Push Event:").Append(
		conversation.Assistant{ToolCalls: []toolcall.ToolCall{
			{ID: "a", Name: "get_repository", Args: map[string]any{"owner": "o", "repo": "r"}},
			{ID: "b", Name: "get_file_content", Args: map[string]any{"owner": "o", "repo": "r", "path": "x"}},
		}},
		conversation.ToolResult{CallID: "a", Name: "get_repository", Text: `{"name":"r"}`},
		conversation.ToolResult{CallID: "b", Name: "get_file_content", Text: `{"error":"not a file"}`, IsError: true},
	)

	got := Contents(conv)

	var roles []string
	for _, c := range got {
		roles = append(roles, c.Role)
	}
	if diff := cmp.Diff([]string{genai.RoleUser, genai.RoleModel, genai.RoleUser}, roles); diff != "" {
		t.Errorf("roles mismatch (-want +got):\n%s", diff)
	}
	if n := len(got[2].Parts); n != 2 {
		t.Fatalf("tool results: got = %d parts, wanted = 2", n)
	}
	fr := got[2].Parts[1].FunctionResponse
	if fr.ID != "b" || fr.Name != "get_file_content" || fr.Response["error"] != "not a file" {
		t.Errorf("FunctionResponse: got = %+v", fr)
	}
}

func TestAssistant(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{
				{Text: "thinking about it", Thought: true},
				{Text: "Adding a label."},
				{FunctionCall: &genai.FunctionCall{Name: "add_label", Args: map[string]any{"labels": []any{"bug"}}}},
				{FunctionCall: &genai.FunctionCall{ID: "given", Name: "add_comment", Args: map[string]any{"body": "hi"}}},
			}},
		}},
	}

	got, err := Assistant(resp)
	if err != nil {
		t.Fatalf("Assistant() = %v", err)
	}
	if got.Text != "Adding a label." {
		t.Errorf("Text: got = %q", got.Text)
	}
	if len(got.ToolCalls) != 2 {
		t.Fatalf("ToolCalls: got = %d, wanted = 2", len(got.ToolCalls))
	}
	if id := got.ToolCalls[0].ID; !strings.HasPrefix(id, "call_") {
		t.Errorf("synthesized id: got = %q", id)
	}
	if id := got.ToolCalls[1].ID; id != "given" {
		t.Errorf("given id: got = %q, wanted = given", id)
	}
}

func TestAssistantNoCandidates(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{name: "nil", resp: nil, want: "no candidates"},
		{name: "empty", resp: &genai.GenerateContentResponse{}, want: "no candidates"},
		{name: "blocked", resp: &genai.GenerateContentResponse{
			PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
		}, want: "prompt blocked"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assistant(tt.resp)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Assistant(): got = %v, wanted error containing %q", err, tt.want)
			}
		})
	}
}

func TestNewValidates(t *testing.T) {
	if _, err := New(nil, "gemini-2.5-pro"); err == nil {
		t.Error("New(nil client): got = nil, wanted error")
	}
	if err := WithTemperature(3)(&Engine{}); err == nil {
		t.Error("WithTemperature(3): got = nil, wanted error")
	}
	if err := WithMaxOutputTokens(0)(&Engine{}); err == nil {
		t.Error("WithMaxOutputTokens(0): got = nil, wanted error")
	}
}
