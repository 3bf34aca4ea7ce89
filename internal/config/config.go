/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package config reads the environment shared by the hookagent binaries and
// builds the components it describes.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"time"

	"cloud.google.com/go/compute/metadata"
	"github.com/chainguard-dev/clog"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"chainguard.dev/hookagent/agents/engine"
	"chainguard.dev/hookagent/agents/githubtools"
	"chainguard.dev/hookagent/agents/orchestrator"
	"chainguard.dev/hookagent/agents/skills"
)

// DefaultModel is used when LLM_MODEL is unset.
const DefaultModel = "openai/gpt-5.2-codex"

// Config is the process environment.
type Config struct {
	Port        int `env:"PORT,default=3000"`
	MetricsPort int `env:"METRICS_PORT,default=2112"`

	WebhookSecret string `env:"GITHUB_WEBHOOK_SECRET"`

	GitHubToken          string `env:"GITHUB_TOKEN"`
	GitHubAppID          int64  `env:"GITHUB_APP_ID"`
	GitHubInstallationID int64  `env:"GITHUB_INSTALLATION_ID"`
	GitHubPrivateKeyPath string `env:"GITHUB_PRIVATE_KEY_PATH"`
	GitHubAPIURL         string `env:"GITHUB_API_URL"`

	Model   string `env:"LLM_MODEL,default=openai/gpt-5.2-codex"`
	APIKey  string `env:"LLM_API_KEY"`
	BaseURL string `env:"LLM_BASE_URL"`

	// Vertex AI location; detected from the metadata server when unset.
	Project string `env:"GCP_PROJECT_ID"`
	Region  string `env:"GCP_REGION"`

	MaxIterations  int           `env:"MAX_ITERATIONS,default=5"`
	RunTimeout     time.Duration `env:"RUN_TIMEOUT,default=5m"`
	RequestTimeout time.Duration `env:"LLM_REQUEST_TIMEOUT,default=2m"`
	ToolTimeout    time.Duration `env:"TOOL_TIMEOUT,default=30s"`

	CapabilitiesFile string `env:"CAPABILITIES_FILE"`
}

// Load reads an optional .env file and then the environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads the configuration from l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("processing config: %w", err)
	}
	if cfg.MaxIterations <= 0 {
		return nil, fmt.Errorf("MAX_ITERATIONS must be positive, got %d", cfg.MaxIterations)
	}
	return &cfg, nil
}

// GitHubAuth returns the GitHub credentials.
func (c *Config) GitHubAuth() githubtools.Auth {
	return githubtools.Auth{
		Token:          c.GitHubToken,
		AppID:          c.GitHubAppID,
		InstallationID: c.GitHubInstallationID,
		PrivateKeyPath: c.GitHubPrivateKeyPath,
		BaseURL:        c.GitHubAPIURL,
	}
}

// Registry returns the built-in capabilities plus CAPABILITIES_FILE.
func (c *Config) Registry() (*skills.Registry, error) {
	r, err := skills.Default(c.CapabilitiesFile)
	if err != nil {
		return nil, fmt.Errorf("loading capabilities: %w", err)
	}
	return r, nil
}

// EngineConfig returns the engine settings. Vertex-backed models without a
// configured project or region take them from the metadata server.
func (c *Config) EngineConfig(ctx context.Context) (engine.Config, error) {
	ec := engine.Config{
		Model:   c.Model,
		APIKey:  c.APIKey,
		BaseURL: c.BaseURL,
		Project: c.Project,
		Region:  c.Region,
	}
	if !ec.NeedsVertex() || (ec.Project != "" && ec.Region != "") {
		return ec, nil
	}
	if !metadata.OnGCE() {
		return ec, fmt.Errorf("model %s needs GCP_PROJECT_ID and GCP_REGION when not on GCP", c.Model)
	}
	if ec.Project == "" {
		p, err := metadata.ProjectIDWithContext(ctx)
		if err != nil {
			return ec, fmt.Errorf("detecting project: %w", err)
		}
		ec.Project = p
	}
	if ec.Region == "" {
		// projects/<number>/regions/<region>
		r, err := metadata.GetWithContext(ctx, "instance/region")
		if err != nil {
			return ec, fmt.Errorf("detecting region: %w", err)
		}
		ec.Region = path.Base(r)
	}
	clog.FromContext(ctx).With("project", ec.Project, "region", ec.Region).Info("Detected Vertex AI location")
	return ec, nil
}

// Orchestrator builds the loop for eng and tools.
func (c *Config) Orchestrator(eng engine.Engine, tools orchestrator.Tools) (*orchestrator.Orchestrator, error) {
	return orchestrator.New(eng, tools,
		orchestrator.WithModel(c.Model),
		orchestrator.WithMaxIterations(c.MaxIterations),
		orchestrator.WithRequestTimeout(c.RequestTimeout),
		orchestrator.WithToolTimeout(c.ToolTimeout),
	)
}

// Runner wires the registry, engine and GitHub client into a runner.
func (c *Config) Runner(ctx context.Context, gh githubtools.Client) (*orchestrator.Runner, error) {
	registry, err := c.Registry()
	if err != nil {
		return nil, err
	}
	ec, err := c.EngineConfig(ctx)
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(ctx, ec)
	if err != nil {
		return nil, err
	}
	loop, err := c.Orchestrator(eng, githubtools.NewExecutor(gh))
	if err != nil {
		return nil, fmt.Errorf("creating orchestrator: %w", err)
	}
	return orchestrator.NewRunner(registry, loop)
}
