/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package githubtest provides an in-memory githubtools.Client.
package githubtest

import (
	"context"
	"fmt"
	"sync"

	"chainguard.dev/hookagent/agents/githubtools"
)

// Call records one invocation of the fake.
type Call struct {
	Method string
	Args   []any
}

// Fake implements githubtools.Client. A nil func field answers with a
// canned success, so a zero Fake is a usable dry-run client.
type Fake struct {
	AddCommentFunc     func(ctx context.Context, owner, repo string, number int, body string) (*githubtools.Comment, error)
	AddLabelsFunc      func(ctx context.Context, owner, repo string, number int, labels []string) (*githubtools.LabelSet, error)
	GetFileContentFunc func(ctx context.Context, owner, repo, path, ref string) (*githubtools.File, error)
	GetIssueFunc       func(ctx context.Context, owner, repo string, number int) (*githubtools.Issue, error)
	GetPullRequestFunc func(ctx context.Context, owner, repo string, number int) (*githubtools.PullRequest, error)
	GetRepositoryFunc  func(ctx context.Context, owner, repo string) (*githubtools.Repository, error)

	mu    sync.Mutex
	calls []Call
}

var _ githubtools.Client = (*Fake)(nil)

func (f *Fake) record(method string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Method: method, Args: args})
}

// Calls returns the recorded invocations in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

func (f *Fake) AddComment(ctx context.Context, owner, repo string, number int, body string) (*githubtools.Comment, error) {
	f.record("AddComment", owner, repo, number, body)
	if f.AddCommentFunc != nil {
		return f.AddCommentFunc(ctx, owner, repo, number, body)
	}
	return &githubtools.Comment{
		ID:  1,
		URL: fmt.Sprintf("https://github.com/%s/%s/issues/%d#issuecomment-1", owner, repo, number),
	}, nil
}

func (f *Fake) AddLabels(ctx context.Context, owner, repo string, number int, labels []string) (*githubtools.LabelSet, error) {
	f.record("AddLabels", owner, repo, number, labels)
	if f.AddLabelsFunc != nil {
		return f.AddLabelsFunc(ctx, owner, repo, number, labels)
	}
	return &githubtools.LabelSet{Labels: append([]string(nil), labels...)}, nil
}

func (f *Fake) GetFileContent(ctx context.Context, owner, repo, path, ref string) (*githubtools.File, error) {
	f.record("GetFileContent", owner, repo, path, ref)
	if f.GetFileContentFunc != nil {
		return f.GetFileContentFunc(ctx, owner, repo, path, ref)
	}
	return nil, fmt.Errorf("%s: %w", path, githubtools.ErrNotAFile)
}

func (f *Fake) GetIssue(ctx context.Context, owner, repo string, number int) (*githubtools.Issue, error) {
	f.record("GetIssue", owner, repo, number)
	if f.GetIssueFunc != nil {
		return f.GetIssueFunc(ctx, owner, repo, number)
	}
	return &githubtools.Issue{Title: fmt.Sprintf("Issue %d", number), State: "open", Labels: []string{}}, nil
}

func (f *Fake) GetPullRequest(ctx context.Context, owner, repo string, number int) (*githubtools.PullRequest, error) {
	f.record("GetPullRequest", owner, repo, number)
	if f.GetPullRequestFunc != nil {
		return f.GetPullRequestFunc(ctx, owner, repo, number)
	}
	return &githubtools.PullRequest{Title: fmt.Sprintf("PR %d", number), State: "open", HeadRef: "feature", BaseRef: "main"}, nil
}

func (f *Fake) GetRepository(ctx context.Context, owner, repo string) (*githubtools.Repository, error) {
	f.record("GetRepository", owner, repo)
	if f.GetRepositoryFunc != nil {
		return f.GetRepositoryFunc(ctx, owner, repo)
	}
	return &githubtools.Repository{Name: repo, DefaultBranch: "main"}, nil
}
