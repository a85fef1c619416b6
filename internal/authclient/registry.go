// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package authclient owns the process's single auth client.
//
// The Registry is a three-state machine: Uninitialized, Ready (a client exists)
// and Failed (construction failed; latched until Reset). A missing platform app
// is offline mode, not a failure: the registry stays Uninitialized and the next
// call tries again. Construct one Registry at start-up and pass it to the
// packages that read auth state.
package authclient

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	apperrors "authgate/cli/internal/errors"
	"authgate/cli/internal/identity"
)

const notInitializedMessage = "auth not initialized: the platform app is not configured yet"

// AppSource supplies the platform app, or false while it is unavailable.
type AppSource interface {
	App() (identity.App, bool)
}

// Registry holds at most one client and at most one failure message.
type Registry struct {
	apps        AppSource
	initializer *Initializer
	config      *Config
	log         zerolog.Logger

	mu      sync.Mutex
	client  identity.Client
	initErr string
}

// Option configures a Registry.
type Option func(*Registry)

// WithConfig sets the Config used when Initialize is called with nil and on
// auto-initialization from Auth.
func WithConfig(cfg *Config) Option {
	return func(r *Registry) { r.config = cfg }
}

// WithLogger sets the registry logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Registry) { r.log = log }
}

// NewRegistry returns an Uninitialized registry.
func NewRegistry(apps AppSource, initializer *Initializer, opts ...Option) *Registry {
	r := &Registry{apps: apps, initializer: initializer, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Initialize moves an Uninitialized registry to Ready or Failed.
// It returns the existing client when Ready and (nil, false) when Failed,
// without retrying. A nil cfg uses the registry's configured default.
func (r *Registry) Initialize(ctx context.Context, cfg *Config) (identity.Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initializeLocked(ctx, cfg)
}

func (r *Registry) initializeLocked(ctx context.Context, cfg *Config) (identity.Client, bool) {
	if r.client != nil {
		return r.client, true
	}
	if r.initErr != "" {
		return nil, false
	}

	app, ok := r.apps.App()
	if !ok {
		r.log.Debug().Msg("platform app unavailable, auth stays uninitialized")
		return nil, false
	}
	if cfg == nil {
		cfg = r.config
	}

	client, err := r.initializer.Initialize(ctx, app, cfg)
	if err != nil {
		r.initErr = err.Error()
		r.log.Error().Err(err).Str("app", app.Name()).Msg("auth initialization failed")
		return nil, false
	}
	r.client = client
	r.log.Debug().Str("app", app.Name()).Msg("auth initialized")
	return client, true
}

// Auth returns the client, initializing first if the registry is still
// Uninitialized. It never fails; unavailability is reported as false.
func (r *Registry) Auth(ctx context.Context) (identity.Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil && r.initErr == "" {
		return r.initializeLocked(ctx, nil)
	}
	return r.client, r.client != nil
}

// RequireAuth is Auth with an error for callers that need one.
// The error has kind auth_not_initialized and carries the latched failure, if any.
func (r *Registry) RequireAuth(ctx context.Context) (identity.Client, error) {
	if c, ok := r.Auth(ctx); ok {
		return c, nil
	}
	msg := notInitializedMessage
	if failure, ok := r.InitializationError(); ok {
		msg = failure
	}
	return nil, apperrors.New(apperrors.NotInitialized, msg)
}

// IsInitialized reports whether the registry is Ready.
func (r *Registry) IsInitialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.client != nil
}

// InitializationError returns the latched failure message, if any.
func (r *Registry) InitializationError() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initErr, r.initErr != ""
}

// Reset returns the registry to Uninitialized. Meant for tests.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.client = nil
	r.initErr = ""
}
