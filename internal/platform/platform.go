// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package platform is the app-initialization system: it turns configuration
// into the App handle that auth clients are built on.
//
// A Platform without a project ID stays unconfigured. That is the offline
// mode: App reports false and the auth registry treats it as "not yet
// available" rather than as a failure.
package platform

import (
	"fmt"
	"regexp"
	"sync"

	apperrors "authgate/cli/internal/errors"
	"authgate/cli/internal/identity"
)

// DefaultAppName is used when Options.Name is empty.
const DefaultAppName = "[DEFAULT]"

var reProjectID = regexp.MustCompile(`^[a-z][a-z0-9-]{2,62}$`)

// Options configures the app.
type Options struct {
	Name      string
	ProjectID string
}

// App is the platform handle.
type App struct {
	name      string
	projectID string
}

// Name implements identity.App.
func (a *App) Name() string { return a.name }

// ProjectID implements identity.App.
func (a *App) ProjectID() string { return a.projectID }

// Platform owns at most one App.
type Platform struct {
	mu  sync.RWMutex
	app *App
}

// New returns an unconfigured Platform.
func New() *Platform {
	return &Platform{}
}

// Initialize creates the App. Calling it again with the same options returns
// the existing App; different options are rejected.
func (p *Platform) Initialize(opts Options) (*App, error) {
	if opts.Name == "" {
		opts.Name = DefaultAppName
	}
	if !reProjectID.MatchString(opts.ProjectID) {
		return nil, apperrors.New(apperrors.InvalidConfig, fmt.Sprintf("invalid project id %q", opts.ProjectID))
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.app != nil {
		if p.app.name == opts.Name && p.app.projectID == opts.ProjectID {
			return p.app, nil
		}
		return nil, apperrors.New(apperrors.InvalidConfig, fmt.Sprintf("app %q already initialized with project %q", p.app.name, p.app.projectID))
	}
	p.app = &App{name: opts.Name, projectID: opts.ProjectID}
	return p.app, nil
}

// App returns the initialized app, or false in offline mode.
func (p *Platform) App() (identity.App, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.app == nil {
		return nil, false
	}
	return p.app, true
}
