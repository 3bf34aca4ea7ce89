/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package webhook serves GitHub webhook deliveries over HTTP and hands each
// verified delivery to a Runner.
//
// Routes:
//
//	POST /webhook/github  verify, decode and run one delivery
//	GET  /webhook/ping    liveness check for webhook configuration
//	GET  /health          health check
//	GET  /                service description
package webhook
