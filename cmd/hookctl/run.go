/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"

	"chainguard.dev/hookagent/agents/agenttrace"
	"chainguard.dev/hookagent/agents/engine"
	"chainguard.dev/hookagent/agents/githubtools"
	"chainguard.dev/hookagent/agents/githubtools/githubtest"
	"chainguard.dev/hookagent/agents/orchestrator"
	"chainguard.dev/hookagent/internal/config"
)

// newEngine is replaced in tests.
var newEngine = engine.New

func newRunCmd(root *rootOptions) *cobra.Command {
	var (
		event, payloadPath string
		dryRun             bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one event through the engine and print the action log",
		Long: `Run one event through the engine and print the action log.

The engine is configured from the same environment as the server. With
--dry-run, GitHub is replaced by an in-memory client: reads return canned
data and writes are recorded and printed instead of applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if event == "" || payloadPath == "" {
				return errors.New("--event and --payload are required")
			}
			ctx := cmd.Context()

			b, err := readPayload(cmd.InOrStdin(), payloadPath)
			if err != nil {
				return fmt.Errorf("reading payload: %w", err)
			}
			var payload any
			if err := json.Unmarshal(b, &payload); err != nil {
				return fmt.Errorf("decoding payload: %w", err)
			}

			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			registry, err := root.registry()
			if err != nil {
				return err
			}

			var (
				client githubtools.Client
				fake   *githubtest.Fake
			)
			if dryRun {
				fake = &githubtest.Fake{}
				client = fake
			} else {
				gh, err := githubtools.NewGitHubClient(ctx, cfg.GitHubAuth())
				if err != nil {
					return fmt.Errorf("creating GitHub client: %w", err)
				}
				client = githubtools.NewClient(gh)
			}

			ec, err := cfg.EngineConfig(ctx)
			if err != nil {
				return err
			}
			eng, err := newEngine(ctx, ec)
			if err != nil {
				return err
			}
			loop, err := cfg.Orchestrator(eng, githubtools.NewExecutor(client))
			if err != nil {
				return fmt.Errorf("creating orchestrator: %w", err)
			}
			runner, err := orchestrator.NewRunner(registry, loop)
			if err != nil {
				return err
			}

			ctx = agenttrace.WithTracer(ctx, agenttrace.ByCode())
			clog.FromContext(ctx).With("event", event, "model", cfg.Model, "dry_run", dryRun).Info("Running event")
			res, runErr := runner.Run(ctx, event, payload)
			if runErr != nil {
				partial, ok := orchestrator.PartialResult(runErr)
				if !ok {
					return runErr
				}
				res = partial
			}

			out := cmd.OutOrStdout()
			if err := printResult(out, res); err != nil {
				return err
			}
			if fake != nil {
				if err := printCalls(out, fake.Calls()); err != nil {
					return err
				}
			}
			return runErr
		},
	}
	cmd.Flags().StringVar(&event, "event", "", "event type, as in X-GitHub-Event")
	cmd.Flags().StringVar(&payloadPath, "payload", "", "JSON payload file, or - for stdin")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "record GitHub writes instead of applying them")
	return cmd
}

func printResult(w io.Writer, res *orchestrator.Result) error {
	t := newTable(w, "#", "Tool", "Status", "Result")
	for i, a := range res.Actions {
		status, detail := "ok", a.Text()
		if !a.OK() {
			status, detail = "error", a.Err
		}
		_ = t.Append([]string{strconv.Itoa(i + 1), a.Tool, status, truncate(detail, 80)})
	}
	if err := t.Render(); err != nil {
		return err
	}

	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	_, err = fmt.Fprintf(w, "\n%s\n", b)
	return err
}

func printCalls(w io.Writer, calls []githubtest.Call) error {
	fmt.Fprintln(w, "\nGitHub calls (dry run):")
	t := newTable(w, "#", "Method", "Arguments")
	for i, c := range calls {
		args, _ := json.Marshal(c.Args)
		_ = t.Append([]string{strconv.Itoa(i + 1), c.Method, truncate(string(args), 80)})
	}
	return t.Render()
}
