// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package identity declares the contracts of the identity SDK that authgate
// coordinates: the platform App handle, the auth Client with its current User
// and change notifications, and the persistence capability a client can be
// constructed with.
//
// authgate never authenticates anyone itself. internal/session provides the
// in-process implementation used by the CLI; tests supply their own fakes.
package identity

import (
	"context"
	"errors"
	"time"
)

// ErrAlreadyInitialized is returned by SDK.InitializeAuth when a client
// already exists for the app.
var ErrAlreadyInitialized = errors.New("identity: auth already initialized for this app")

// App is an initialized platform connection, the prerequisite for an auth client.
type App interface {
	Name() string
	ProjectID() string
}

// User is the signed-in principal as reported by the SDK.
type User struct {
	UID         string    `json:"uid"`
	IsAnonymous bool      `json:"is_anonymous"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Client is an auth session manager bound to one App.
type Client interface {
	App() App
	// CurrentUser returns the signed-in user, or nil.
	CurrentUser() *User
	// OnAuthStateChanged registers fn and calls it synchronously with the
	// current user before returning, then again on every change in order.
	// The returned func cancels the subscription and is safe to call more than once.
	OnAuthStateChanged(fn func(*User)) (unsubscribe func())
}

// Authenticator is implemented by clients that can change the signed-in user.
type Authenticator interface {
	SignInAnonymously(ctx context.Context) (*User, error)
	SignIn(ctx context.Context, u User) (*User, error)
	SignOut(ctx context.Context) error
	// Reload re-reads the persisted session and notifies listeners if it changed.
	Reload(ctx context.Context) error
}

// Persistence stores the signed-in user between processes.
// Load returns (nil, nil) when nothing is stored.
type Persistence interface {
	Load(ctx context.Context) (*User, error)
	Save(ctx context.Context, u *User) error
	Clear(ctx context.Context) error
}

// SDK constructs auth clients.
type SDK interface {
	// InitializeAuth creates the client for app bound to p.
	// It fails with ErrAlreadyInitialized if one exists, or with the
	// persistence error if the stored session cannot be read.
	InitializeAuth(ctx context.Context, app App, p Persistence) (Client, error)
	// GetAuth returns the client for app, creating one with default,
	// non-persistent behaviour if needed.
	GetAuth(app App) (Client, error)
}
