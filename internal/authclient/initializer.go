// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package authclient

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	apperrors "authgate/cli/internal/errors"
	"authgate/cli/internal/identity"
	"authgate/cli/internal/storage"
)

// StorageFactory opens the default storage adapter.
type StorageFactory func(ctx context.Context) (storage.Adapter, error)

// Initializer builds auth clients, preferring a persistent client and
// degrading to the SDK's default client when persistence cannot be set up.
type Initializer struct {
	sdk            identity.SDK
	persistence    identity.PersistenceProvider
	defaultStorage StorageFactory
	log            zerolog.Logger
}

// NewInitializer returns an Initializer. A nil provider selects
// identity.NullPersistence; a nil factory means there is no default storage.
func NewInitializer(sdk identity.SDK, provider identity.PersistenceProvider, defaultStorage StorageFactory, log zerolog.Logger) *Initializer {
	if provider == nil {
		provider = identity.NullPersistence{}
	}
	return &Initializer{
		sdk:            sdk,
		persistence:    provider,
		defaultStorage: defaultStorage,
		log:            log,
	}
}

// Initialize returns a client for app.
// Persistence failures are logged and never returned; the only error is the
// SDK failing to produce even a default client.
func (i *Initializer) Initialize(ctx context.Context, app identity.App, cfg *Config) (identity.Client, error) {
	client, err := i.initializeWithPersistence(ctx, app, cfg)
	if err == nil {
		return client, nil
	}

	if errors.Is(err, identity.ErrAlreadyInitialized) {
		i.log.Debug().Str("app", app.Name()).Msg("auth already initialized, reusing client")
	} else {
		i.log.Warn().Err(err).Str("app", app.Name()).Msg("session persistence unavailable, continuing without it")
	}

	client, err = i.sdk.GetAuth(app)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.InitializationFailed, "construct auth client", err)
	}
	return client, nil
}

func (i *Initializer) initializeWithPersistence(ctx context.Context, app identity.App, cfg *Config) (identity.Client, error) {
	store := cfg.storage()
	if store == nil {
		if i.defaultStorage == nil {
			return nil, apperrors.New(apperrors.StorageUnavailable, "no default storage configured")
		}
		s, err := i.defaultStorage(ctx)
		if err != nil {
			return nil, err
		}
		store = s
	}

	p, err := i.persistence.Persistence(app, store)
	if err != nil {
		return nil, err
	}
	return i.sdk.InitializeAuth(ctx, app, p)
}
