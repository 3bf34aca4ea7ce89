/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package githubtools

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v84/github"
	"golang.org/x/oauth2"
)

// Auth selects how the GitHub client authenticates. App installation
// credentials take precedence over a token.
type Auth struct {
	Token string

	AppID          int64
	InstallationID int64
	PrivateKeyPath string

	// BaseURL points at a GitHub Enterprise server, e.g. https://ghe.example.com/api/v3/.
	BaseURL string
}

func (a Auth) app() bool {
	return a.AppID != 0 || a.InstallationID != 0 || a.PrivateKeyPath != ""
}

// NewGitHubClient constructs a REST client for the configured credentials.
// With no credentials at all the client is unauthenticated.
func NewGitHubClient(ctx context.Context, a Auth) (*github.Client, error) {
	var hc *http.Client
	switch {
	case a.app():
		if a.AppID == 0 || a.InstallationID == 0 || a.PrivateKeyPath == "" {
			return nil, errors.New("github app auth needs an app id, an installation id and a private key path")
		}
		tr, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, a.AppID, a.InstallationID, a.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("load github app key: %w", err)
		}
		if a.BaseURL != "" {
			tr.BaseURL = strings.TrimRight(a.BaseURL, "/")
		}
		hc = &http.Client{Transport: tr}

	case a.Token != "":
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: a.Token}))
	}

	gh := github.NewClient(hc)
	if a.BaseURL != "" {
		var err error
		if gh, err = gh.WithEnterpriseURLs(a.BaseURL, a.BaseURL); err != nil {
			return nil, fmt.Errorf("configure enterprise url: %w", err)
		}
	}
	return gh, nil
}
