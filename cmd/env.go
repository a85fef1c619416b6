// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"authgate/cli/internal/authclient"
	"authgate/cli/internal/config"
	apperrors "authgate/cli/internal/errors"
	"authgate/cli/internal/guard"
	"authgate/cli/internal/identity"
	"authgate/cli/internal/keychain"
	"authgate/cli/internal/logging"
	"authgate/cli/internal/platform"
	"authgate/cli/internal/session"
	"authgate/cli/internal/storage"
	"authgate/cli/internal/storage/pgstore"
)

// env is everything a subcommand needs, built once per invocation.
type env struct {
	cfg      config.Config
	log      zerolog.Logger
	platform *platform.Platform
	registry *authclient.Registry
	guard    *guard.Service

	closers []func()
}

// newEnv loads configuration and wires the auth stack for cmd.
func newEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return buildEnv(cfg, cmd.ErrOrStderr(), verbose)
}

func buildEnv(cfg config.Config, logOut io.Writer, verbose bool) (*env, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logging.New(logOut, cfg.LogLevel, verbose || cfg.Verbose)

	e := &env{cfg: cfg, log: log, platform: platform.New()}

	if cfg.App.ProjectID != "" {
		if _, err := e.platform.Initialize(platform.Options{Name: cfg.App.Name, ProjectID: cfg.App.ProjectID}); err != nil {
			return nil, err
		}
	} else {
		log.Debug().Msg("no app.project_id configured, running offline")
	}

	var provider identity.PersistenceProvider = identity.StoragePersistence{}
	if cfg.Persistence == config.PersistenceNone {
		provider = identity.NullPersistence{}
	}

	sdk := session.NewSDK(logging.Component(log, "session"))
	initializer := authclient.NewInitializer(sdk, provider, e.storageFactory(), logging.Component(log, "authclient"))
	e.registry = authclient.NewRegistry(e.platform, initializer, authclient.WithLogger(logging.Component(log, "registry")))
	e.guard = guard.New(e.registry)
	return e, nil
}

// storageFactory opens the configured backend lazily, on first client construction.
func (e *env) storageFactory() authclient.StorageFactory {
	return func(ctx context.Context) (storage.Adapter, error) {
		switch e.cfg.Storage.Backend {
		case config.BackendKeychain:
			m, err := keychain.NewManager(logging.Component(e.log, "keychain"))
			if err != nil {
				return nil, err
			}
			return m, nil
		case config.BackendFile:
			f, err := storage.NewDefaultFile()
			if err != nil {
				return nil, apperrors.Wrap(apperrors.StorageUnavailable, "open session file", err)
			}
			return f, nil
		case config.BackendPostgres:
			s, err := pgstore.Open(ctx, e.cfg.Storage.PostgresDSN, e.cfg.Storage.Table)
			if err != nil {
				return nil, err
			}
			e.closers = append(e.closers, s.Close)
			return s, nil
		case config.BackendMemory:
			return storage.NewMemory(), nil
		}
		return nil, apperrors.New(apperrors.InvalidConfig, fmt.Sprintf("unknown storage.backend %q", e.cfg.Storage.Backend))
	}
}

// authenticator returns the live client as an Authenticator.
func (e *env) authenticator(ctx context.Context) (identity.Client, identity.Authenticator, error) {
	client, err := e.registry.RequireAuth(ctx)
	if err != nil {
		return nil, nil, err
	}
	a, ok := client.(identity.Authenticator)
	if !ok {
		return nil, nil, apperrors.New(apperrors.NotInitialized, "auth client cannot change the signed-in user")
	}
	return client, a, nil
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// runWithEnv adapts a function taking env to a cobra RunE.
func runWithEnv(fn func(cmd *cobra.Command, e *env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()
		return fn(cmd, e)
	}
}
