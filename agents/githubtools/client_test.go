/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubtools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-github/v84/github"
)

func newTestClient(t *testing.T, mux *http.ServeMux) Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	gh := github.NewClient(nil)
	u, err := url.Parse(srv.URL + "/")
	if err != nil {
		t.Fatalf("url.Parse() = %v", err)
	}
	gh.BaseURL = u
	return NewClient(gh)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("Encode() = %v", err)
	}
}

func TestRemoteAddComment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/octo/hello/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		var got map[string]any
		_ = json.Unmarshal(b, &got)
		if got["body"] != "Thanks!" {
			t.Errorf("body: got = %v, wanted = Thanks!", got["body"])
		}
		w.WriteHeader(http.StatusCreated)
		writeJSON(t, w, map[string]any{"id": 99, "html_url": "https://github.com/octo/hello/issues/7#issuecomment-99"})
	})

	got, err := newTestClient(t, mux).AddComment(context.Background(), "octo", "hello", 7, "Thanks!")
	if err != nil {
		t.Fatalf("AddComment() = %v", err)
	}
	want := &Comment{ID: 99, URL: "https://github.com/octo/hello/issues/7#issuecomment-99"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("AddComment() mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoteAddLabels(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/octo/hello/issues/7/labels", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, []map[string]any{{"name": "triaged"}, {"name": "bug"}})
	})

	got, err := newTestClient(t, mux).AddLabels(context.Background(), "octo", "hello", 7, []string{"bug"})
	if err != nil {
		t.Fatalf("AddLabels() = %v", err)
	}
	if diff := cmp.Diff(&LabelSet{Labels: []string{"triaged", "bug"}}, got); diff != "" {
		t.Errorf("AddLabels() mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoteGetFileContent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/hello/contents/README.md", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("ref"); got != "main" {
			t.Errorf("ref: got = %q, wanted = main", got)
		}
		writeJSON(t, w, map[string]any{
			"type":     "file",
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString([]byte("# hello\n")),
			"sha":      "abc123",
		})
	})
	mux.HandleFunc("GET /repos/octo/hello/contents/docs", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, []map[string]any{{"type": "file", "name": "a.md"}})
	})

	c := newTestClient(t, mux)
	got, err := c.GetFileContent(context.Background(), "octo", "hello", "README.md", "main")
	if err != nil {
		t.Fatalf("GetFileContent() = %v", err)
	}
	if diff := cmp.Diff(&File{Content: "# hello\n", SHA: "abc123"}, got); diff != "" {
		t.Errorf("GetFileContent() mismatch (-want +got):\n%s", diff)
	}

	if _, err := c.GetFileContent(context.Background(), "octo", "hello", "docs", ""); !errors.Is(err, ErrNotAFile) {
		t.Errorf("GetFileContent(dir): got = %v, wanted = %v", err, ErrNotAFile)
	}
}

func TestRemoteReads(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/hello/issues/3", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"title": "Crash", "body": "boom", "state": "open", "labels": []map[string]any{{"name": "bug"}}})
	})
	mux.HandleFunc("GET /repos/octo/hello/pulls/4", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"title": "Fix", "state": "closed", "head": map[string]any{"ref": "fix"}, "base": map[string]any{"ref": "main"}})
	})
	mux.HandleFunc("GET /repos/octo/hello", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"name": "hello", "default_branch": "trunk"})
	})

	c := newTestClient(t, mux)
	ctx := context.Background()

	issue, err := c.GetIssue(ctx, "octo", "hello", 3)
	if err != nil {
		t.Fatalf("GetIssue() = %v", err)
	}
	if diff := cmp.Diff(&Issue{Title: "Crash", Body: github.Ptr("boom"), State: "open", Labels: []string{"bug"}}, issue); diff != "" {
		t.Errorf("GetIssue() mismatch (-want +got):\n%s", diff)
	}

	pr, err := c.GetPullRequest(ctx, "octo", "hello", 4)
	if err != nil {
		t.Fatalf("GetPullRequest() = %v", err)
	}
	if diff := cmp.Diff(&PullRequest{Title: "Fix", State: "closed", HeadRef: "fix", BaseRef: "main"}, pr); diff != "" {
		t.Errorf("GetPullRequest() mismatch (-want +got):\n%s", diff)
	}

	repo, err := c.GetRepository(ctx, "octo", "hello")
	if err != nil {
		t.Fatalf("GetRepository() = %v", err)
	}
	if diff := cmp.Diff(&Repository{Name: "hello", DefaultBranch: "trunk"}, repo); diff != "" {
		t.Errorf("GetRepository() mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoteError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/hello", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})

	_, err := newTestClient(t, mux).GetRepository(context.Background(), "octo", "hello")
	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) {
		t.Fatalf("GetRepository(): got = %v, wanted *github.ErrorResponse", err)
	}
}

func TestNewGitHubClient(t *testing.T) {
	tests := []struct {
		name    string
		auth    Auth
		wantErr bool
		wantURL string
	}{{
		name:    "anonymous",
		wantURL: "https://api.github.com/",
	}, {
		name:    "token",
		auth:    Auth{Token: "ghp_x"},
		wantURL: "https://api.github.com/",
	}, {
		name:    "enterprise",
		auth:    Auth{Token: "ghp_x", BaseURL: "https://ghe.example.com/api/v3/"},
		wantURL: "https://ghe.example.com/api/v3/",
	}, {
		name:    "partial app config",
		auth:    Auth{AppID: 1},
		wantErr: true,
	}, {
		name:    "missing key file",
		auth:    Auth{AppID: 1, InstallationID: 2, PrivateKeyPath: "/nonexistent/key.pem"},
		wantErr: true,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gh, err := NewGitHubClient(context.Background(), tt.auth)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewGitHubClient() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got := gh.BaseURL.String(); got != tt.wantURL {
				t.Errorf("BaseURL: got = %q, wanted = %q", got, tt.wantURL)
			}
		})
	}
}
