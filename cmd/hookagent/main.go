/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main serves GitHub webhooks and answers each delivery with an
// agent run.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chainguard-dev/clog"
	_ "github.com/chainguard-dev/clog/gcp/init"
	"github.com/chainguard-dev/terraform-infra-common/pkg/httpmetrics"
	"github.com/chainguard-dev/terraform-infra-common/pkg/profiler"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"chainguard.dev/hookagent/agents/agenttrace"
	"chainguard.dev/hookagent/agents/githubtools"
	"chainguard.dev/hookagent/internal/config"
	"chainguard.dev/hookagent/webhook"
)

// version is set at build time.
var version = "1.0.0"

const shutdownTimeout = 30 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go httpmetrics.ScrapeDiskUsage(ctx)
	profiler.SetupProfiler()
	defer httpmetrics.SetupTracer(ctx)()

	cfg, err := config.Load(ctx)
	if err != nil {
		clog.FatalContextf(ctx, "loading config: %v", err)
	}
	ctx = agenttrace.WithTracer(ctx, agenttrace.NewDefaultTracer(ctx))

	gh, err := githubtools.NewGitHubClient(ctx, cfg.GitHubAuth())
	if err != nil {
		clog.FatalContextf(ctx, "creating GitHub client: %v", err)
	}
	runner, err := cfg.Runner(ctx, githubtools.NewClient(gh))
	if err != nil {
		clog.FatalContextf(ctx, "creating runner: %v", err)
	}
	if cfg.WebhookSecret == "" {
		clog.WarnContextf(ctx, "GITHUB_WEBHOOK_SECRET is unset, webhook signatures will not be verified")
	}

	srv, err := webhook.New(runner,
		webhook.WithSecret(cfg.WebhookSecret),
		webhook.WithRunTimeout(cfg.RunTimeout),
		webhook.WithVersion(version),
	)
	if err != nil {
		clog.FatalContextf(ctx, "creating webhook server: %v", err)
	}

	if err := serve(ctx, cfg, srv.Handler()); err != nil {
		clog.FatalContextf(ctx, "server failed: %v", err)
	}
}

// serve runs the webhook and metrics servers until ctx is done.
func serve(ctx context.Context, cfg *config.Config, h http.Handler) error {
	// Requests inherit the logger and tracer, and are cancelled on shutdown.
	base := ctx

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	servers := []*http.Server{{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return base },
	}, {
		Addr:              fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}}

	eg, ctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		eg.Go(func() error {
			clog.InfoContextf(ctx, "Listening on %s", s.Addr)
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serving %s: %w", s.Addr, err)
			}
			return nil
		})
	}
	eg.Go(func() error {
		<-ctx.Done()
		clog.InfoContextf(ctx, "Shutting down")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return errors.Join(servers[0].Shutdown(sctx), servers[1].Shutdown(sctx))
	})
	return eg.Wait()
}
