/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"chainguard.dev/hookagent/agents/githubtools"
	"chainguard.dev/hookagent/agents/githubtools/githubtest"
	"chainguard.dev/hookagent/agents/orchestrator"
)

func newSkillsCmd(root *rootOptions) *cobra.Command {
	var event string
	cmd := &cobra.Command{
		Use:   "skills",
		Short: "List capabilities, optionally only those loaded for an event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := root.registry()
			if err != nil {
				return err
			}
			caps := r.All()
			if event != "" {
				caps = r.ForEvent(event)
			}

			t := newTable(cmd.OutOrStdout(), "ID", "Name", "Events", "Description")
			for _, c := range caps {
				events := "*"
				if len(c.Events) > 0 {
					events = strings.Join(c.Events, ", ")
				}
				_ = t.Append([]string{c.ID, c.Title(), events, truncate(c.Description, 60)})
			}
			return t.Render()
		},
	}
	cmd.Flags().StringVar(&event, "event", "", "only list capabilities for this event type")
	return cmd
}

func newPromptCmd(root *rootOptions) *cobra.Command {
	var event, payloadPath string
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the system prompt for an event, and the formatted event when a payload is given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if event == "" {
				return errors.New("--event is required")
			}
			r, err := root.registry()
			if err != nil {
				return err
			}
			var payload json.RawMessage
			if payloadPath != "" {
				if payload, err = readPayload(cmd.InOrStdin(), payloadPath); err != nil {
					return fmt.Errorf("reading payload: %w", err)
				}
			}

			system, user := orchestrator.Prompts(r, event, payload)
			out := cmd.OutOrStdout()
			fmt.Fprint(out, system)
			if payloadPath != "" {
				fmt.Fprintf(out, "\n---\n\n%s\n", user)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&event, "event", "", "event type, as in X-GitHub-Event")
	cmd.Flags().StringVar(&payloadPath, "payload", "", "JSON payload file, or - for stdin")
	return cmd
}

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tools offered to the engine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := newTable(cmd.OutOrStdout(), "Tool", "Parameters", "Description")
			for _, def := range githubtools.NewExecutor(&githubtest.Fake{}).Catalog() {
				params := make([]string, 0, len(def.Parameters))
				for _, p := range def.Parameters {
					s := p.Name + ": " + p.Type
					if p.Type == "array" && p.Items != "" {
						s = p.Name + ": " + p.Items + "[]"
					}
					if !p.Required {
						s += "?"
					}
					params = append(params, s)
				}
				_ = t.Append([]string{def.Name, strings.Join(params, ", "), def.Description})
			}
			return t.Render()
		},
	}
}
