// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session is the in-process identity SDK used by the authgate CLI.
//
// It keeps one Client per app, restores the signed-in user from the bound
// persistence on construction, and notifies subscribers synchronously on every
// sign-in, sign-out or reload that changes the user. It does not verify
// credentials: sign-in simply records the principal it is given.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"authgate/cli/internal/identity"
)

// SDK implements identity.SDK.
type SDK struct {
	mu      sync.Mutex
	clients map[string]*Client
	log     zerolog.Logger
	now     func() time.Time
}

// NewSDK returns an SDK with no clients.
func NewSDK(log zerolog.Logger) *SDK {
	return &SDK{
		clients: make(map[string]*Client),
		log:     log,
		now:     time.Now,
	}
}

// InitializeAuth implements identity.SDK.
func (s *SDK) InitializeAuth(ctx context.Context, app identity.App, p identity.Persistence) (identity.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[app.Name()]; ok {
		return nil, identity.ErrAlreadyInitialized
	}

	var user *identity.User
	if p != nil {
		u, err := p.Load(ctx)
		if err != nil {
			return nil, err
		}
		user = u
	}

	c := newClient(app, p, user, s.log, s.now)
	s.clients[app.Name()] = c
	s.log.Debug().Str("app", app.Name()).Bool("persistent", p != nil).Bool("restored", user != nil).Msg("auth client created")
	return c, nil
}

// GetAuth implements identity.SDK.
func (s *SDK) GetAuth(app identity.App) (identity.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.clients[app.Name()]; ok {
		return c, nil
	}
	c := newClient(app, nil, nil, s.log, s.now)
	s.clients[app.Name()] = c
	s.log.Debug().Str("app", app.Name()).Msg("auth client created without persistence")
	return c, nil
}
