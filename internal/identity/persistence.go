// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package identity

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "authgate/cli/internal/errors"
	"authgate/cli/internal/storage"
)

// PersistenceProvider binds a storage adapter to an app's session persistence.
// Which provider is used is decided by configuration, not probed at runtime.
type PersistenceProvider interface {
	Persistence(app App, s storage.Adapter) (Persistence, error)
}

// SessionKey is the storage key holding app's serialized user.
func SessionKey(app App) string {
	return fmt.Sprintf("authgate/%s/session", app.Name())
}

// StoragePersistence persists the user as JSON in a storage.Adapter.
type StoragePersistence struct{}

// Persistence implements PersistenceProvider.
func (StoragePersistence) Persistence(app App, s storage.Adapter) (Persistence, error) {
	if s == nil {
		return nil, apperrors.New(apperrors.StorageUnavailable, "no storage adapter")
	}
	return &storagePersistence{store: s, key: SessionKey(app)}, nil
}

// NullPersistence never persists; it is selected where sessions must not
// outlive the process and always reports persistence_unsupported.
type NullPersistence struct{}

// Persistence implements PersistenceProvider.
func (NullPersistence) Persistence(App, storage.Adapter) (Persistence, error) {
	return nil, apperrors.New(apperrors.PersistenceUnsupported, "session persistence disabled")
}

type storagePersistence struct {
	store storage.Adapter
	key   string
}

func (p *storagePersistence) Load(ctx context.Context) (*User, error) {
	raw, ok, err := p.store.GetItem(ctx, p.key)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", p.key, err)
	}
	if u.UID == "" {
		return nil, nil
	}
	return &u, nil
}

func (p *storagePersistence) Save(ctx context.Context, u *User) error {
	if u == nil {
		return p.Clear(ctx)
	}
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return p.store.SetItem(ctx, p.key, string(b))
}

func (p *storagePersistence) Clear(ctx context.Context) error {
	return p.store.RemoveItem(ctx, p.key)
}
