/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubtools

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-github/v84/github"
)

// ErrNotAFile is returned when a content path does not resolve to a single file.
var ErrNotAFile = errors.New("not a file or content not available")

// Comment is a created issue or pull request comment.
type Comment struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// LabelSet is the full set of labels on an issue after a change.
type LabelSet struct {
	Labels []string `json:"labels"`
}

// File is decoded file content at a ref.
type File struct {
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

// Issue summarizes an issue.
type Issue struct {
	Title  string   `json:"title"`
	Body   *string  `json:"body"`
	State  string   `json:"state"`
	Labels []string `json:"labels"`
}

// PullRequest summarizes a pull request.
type PullRequest struct {
	Title   string  `json:"title"`
	Body    *string `json:"body"`
	State   string  `json:"state"`
	HeadRef string  `json:"head_ref"`
	BaseRef string  `json:"base_ref"`
}

// Repository summarizes a repository.
type Repository struct {
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	DefaultBranch string  `json:"default_branch"`
}

// Client performs the remote side of each tool.
type Client interface {
	AddComment(ctx context.Context, owner, repo string, number int, body string) (*Comment, error)
	AddLabels(ctx context.Context, owner, repo string, number int, labels []string) (*LabelSet, error)
	GetFileContent(ctx context.Context, owner, repo, path, ref string) (*File, error)
	GetIssue(ctx context.Context, owner, repo string, number int) (*Issue, error)
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error)
	GetRepository(ctx context.Context, owner, repo string) (*Repository, error)
}

type remote struct {
	gh *github.Client
}

var _ Client = (*remote)(nil)

// NewClient implements Client against the GitHub REST API.
func NewClient(gh *github.Client) Client {
	return &remote{gh: gh}
}

func (r *remote) AddComment(ctx context.Context, owner, repo string, number int, body string) (*Comment, error) {
	c, _, err := r.gh.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &Comment{ID: c.GetID(), URL: c.GetHTMLURL()}, nil
}

func (r *remote) AddLabels(ctx context.Context, owner, repo string, number int, labels []string) (*LabelSet, error) {
	got, _, err := r.gh.Issues.AddLabelsToIssue(ctx, owner, repo, number, labels)
	if err != nil {
		return nil, fmt.Errorf("add labels: %w", err)
	}
	return &LabelSet{Labels: labelNames(got)}, nil
}

func (r *remote) GetFileContent(ctx context.Context, owner, repo, path, ref string) (*File, error) {
	var opts *github.RepositoryContentGetOptions
	if ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: ref}
	}
	file, _, _, err := r.gh.Repositories.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		return nil, fmt.Errorf("get contents: %w", err)
	}
	if file == nil || file.Content == nil {
		return nil, ErrNotAFile
	}
	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode contents: %w", err)
	}
	return &File{Content: content, SHA: file.GetSHA()}, nil
}

func (r *remote) GetIssue(ctx context.Context, owner, repo string, number int) (*Issue, error) {
	issue, _, err := r.gh.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetch issue: %w", err)
	}
	return &Issue{
		Title:  issue.GetTitle(),
		Body:   issue.Body,
		State:  issue.GetState(),
		Labels: labelNames(issue.Labels),
	}, nil
}

func (r *remote) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	pr, _, err := r.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetch pull request: %w", err)
	}
	return &PullRequest{
		Title:   pr.GetTitle(),
		Body:    pr.Body,
		State:   pr.GetState(),
		HeadRef: pr.GetHead().GetRef(),
		BaseRef: pr.GetBase().GetRef(),
	}, nil
}

func (r *remote) GetRepository(ctx context.Context, owner, repo string) (*Repository, error) {
	rp, _, err := r.gh.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("fetch repository: %w", err)
	}
	return &Repository{
		Name:          rp.GetName(),
		Description:   rp.Description,
		DefaultBranch: rp.GetDefaultBranch(),
	}, nil
}

func labelNames(labels []*github.Label) []string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.GetName())
	}
	return names
}
