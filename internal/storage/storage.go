// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package storage defines the key-value adapter used to persist auth sessions
// and ships the simple in-process and file-backed implementations.
//
// Backends that talk to the OS keychain or a database live in their own packages
// (internal/keychain, internal/storage/pgstore) and satisfy the same Adapter.
package storage

import (
	"context"
)

// Adapter is a string key-value store.
// GetItem reports ok=false, with a nil error, when the key is absent.
type Adapter interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Funcs adapts three plain functions to the Adapter interface, for callers
// that supply session storage as callbacks (authclient.Config.Storage).
// The CLI itself uses the concrete backends.
type Funcs struct {
	Get    func(ctx context.Context, key string) (string, bool, error)
	Set    func(ctx context.Context, key, value string) error
	Remove func(ctx context.Context, key string) error
}

// GetItem implements Adapter.
func (f Funcs) GetItem(ctx context.Context, key string) (string, bool, error) {
	return f.Get(ctx, key)
}

// SetItem implements Adapter.
func (f Funcs) SetItem(ctx context.Context, key, value string) error {
	return f.Set(ctx, key, value)
}

// RemoveItem implements Adapter.
func (f Funcs) RemoveItem(ctx context.Context, key string) error {
	return f.Remove(ctx, key)
}
