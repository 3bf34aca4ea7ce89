/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubtools

import (
	"context"
	"fmt"
	"math"
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"chainguard.dev/hookagent/agents/toolcall"
)

// action is the execution path of a tool. Every argument struct in the
// catalog implements it on its pointer type.
type action interface {
	run(ctx context.Context, c Client) (any, error)
}

// AddCommentArgs are the arguments of add_comment.
type AddCommentArgs struct {
	Owner       string `json:"owner" jsonschema:"required" jsonschema_description:"Repository owner"`
	Repo        string `json:"repo" jsonschema:"required" jsonschema_description:"Repository name"`
	IssueNumber int    `json:"issue_number" jsonschema:"required" jsonschema_description:"Issue or PR number"`
	Body        string `json:"body" jsonschema:"required" jsonschema_description:"Comment body"`
}

func (a *AddCommentArgs) run(ctx context.Context, c Client) (any, error) {
	res, err := c.AddComment(ctx, a.Owner, a.Repo, a.IssueNumber, a.Body)
	return res, err
}

// AddLabelArgs are the arguments of add_label.
type AddLabelArgs struct {
	Owner       string   `json:"owner" jsonschema:"required" jsonschema_description:"Repository owner"`
	Repo        string   `json:"repo" jsonschema:"required" jsonschema_description:"Repository name"`
	IssueNumber int      `json:"issue_number" jsonschema:"required" jsonschema_description:"Issue or PR number"`
	Labels      []string `json:"labels" jsonschema:"required" jsonschema_description:"Labels to add"`
}

func (a *AddLabelArgs) run(ctx context.Context, c Client) (any, error) {
	res, err := c.AddLabels(ctx, a.Owner, a.Repo, a.IssueNumber, a.Labels)
	return res, err
}

// GetFileContentArgs are the arguments of get_file_content.
type GetFileContentArgs struct {
	Owner string `json:"owner" jsonschema:"required" jsonschema_description:"Repository owner"`
	Repo  string `json:"repo" jsonschema:"required" jsonschema_description:"Repository name"`
	Path  string `json:"path" jsonschema:"required" jsonschema_description:"File path"`
	Ref   string `json:"ref,omitempty" jsonschema_description:"Git ref (branch, tag, or commit)"`
}

func (a *GetFileContentArgs) run(ctx context.Context, c Client) (any, error) {
	res, err := c.GetFileContent(ctx, a.Owner, a.Repo, a.Path, a.Ref)
	return res, err
}

// GetIssueArgs are the arguments of get_issue.
type GetIssueArgs struct {
	Owner       string `json:"owner" jsonschema:"required" jsonschema_description:"Repository owner"`
	Repo        string `json:"repo" jsonschema:"required" jsonschema_description:"Repository name"`
	IssueNumber int    `json:"issue_number" jsonschema:"required" jsonschema_description:"Issue number"`
}

func (a *GetIssueArgs) run(ctx context.Context, c Client) (any, error) {
	res, err := c.GetIssue(ctx, a.Owner, a.Repo, a.IssueNumber)
	return res, err
}

// GetPullRequestArgs are the arguments of get_pull_request.
type GetPullRequestArgs struct {
	Owner      string `json:"owner" jsonschema:"required" jsonschema_description:"Repository owner"`
	Repo       string `json:"repo" jsonschema:"required" jsonschema_description:"Repository name"`
	PullNumber int    `json:"pull_number" jsonschema:"required" jsonschema_description:"Pull request number"`
}

func (a *GetPullRequestArgs) run(ctx context.Context, c Client) (any, error) {
	res, err := c.GetPullRequest(ctx, a.Owner, a.Repo, a.PullNumber)
	return res, err
}

// GetRepositoryArgs are the arguments of get_repository.
type GetRepositoryArgs struct {
	Owner string `json:"owner" jsonschema:"required" jsonschema_description:"Repository owner"`
	Repo  string `json:"repo" jsonschema:"required" jsonschema_description:"Repository name"`
}

func (a *GetRepositoryArgs) run(ctx context.Context, c Client) (any, error) {
	res, err := c.GetRepository(ctx, a.Owner, a.Repo)
	return res, err
}

// entry pairs a declaration with the decoder producing its action.
type entry struct {
	def    toolcall.Definition
	decode func(args map[string]any) (action, error)
}

// declare builds a catalog entry. It only compiles when *A implements action.
func declare[A any, PA interface {
	*A
	action
}](name, description string) entry {
	return entry{
		def: toolcall.Definition{
			Name:        name,
			Description: description,
			Parameters:  toolcall.ParametersOf[A](),
		},
		decode: func(args map[string]any) (action, error) {
			var a A
			if err := decodeArgs(args, &a); err != nil {
				return nil, err
			}
			return PA(&a), nil
		},
	}
}

// catalog is the closed set of tools, in the order they are offered to engines.
var catalog = []entry{
	declare[AddCommentArgs]("add_comment", "Add a comment to a GitHub issue or pull request"),
	declare[AddLabelArgs]("add_label", "Add a label to a GitHub issue or pull request"),
	declare[GetFileContentArgs]("get_file_content", "Get the content of a file from a GitHub repository"),
	declare[GetIssueArgs]("get_issue", "Get the title, body, state and labels of a GitHub issue"),
	declare[GetPullRequestArgs]("get_pull_request", "Get the title, body, state and branches of a GitHub pull request"),
	declare[GetRepositoryArgs]("get_repository", "Get the name, description and default branch of a GitHub repository"),
}

func decodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		Result:     out,
		DecodeHook: integralNumbers,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// integralNumbers rejects fractional JSON numbers bound for integer fields.
func integralNumbers(_ reflect.Type, to reflect.Type, data any) (any, error) {
	f, ok := data.(float64)
	if !ok {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("%v is not an integer", f)
		}
	}
	return data, nil
}
