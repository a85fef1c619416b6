// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain stores auth session data in the OS credential store.
//
// Manager is the default storage.Adapter for session persistence. On macOS it
// drives the native `security` command and falls back to the keyring library
// (Keychain, then pass); on Windows it uses the Credential Manager and on Linux
// the Secret Service or KWallet. Other platforms have no secure store and
// NewManager fails, which the auth initializer treats as "persistence
// unavailable" rather than a hard error.
package keychain

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
	"github.com/rs/zerolog"

	apperrors "authgate/cli/internal/errors"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "authgate"

// errNotFound is returned by native backends for missing keys.
var errNotFound = errors.New("key not found")

// Manager provides thread-safe key-value operations on the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
	log     zerolog.Logger
}

// keychainBackend defines the interface for native keychain operations.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// NewManager opens the OS keychain.
// The returned error has kind storage_unavailable when no secure store exists.
func NewManager(log zerolog.Logger) (*Manager, error) {
	// Try native security backend first on macOS
	if runtime.GOOS == "darwin" {
		backend, err := newSecurityBackend(log)
		if err == nil {
			return &Manager{backend: backend, log: log}, nil
		}
		log.Debug().Err(err).Msg("native security backend unavailable, using keyring")
	}

	ring, err := openRing(runtime.GOOS)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.StorageUnavailable, "open OS keychain", err)
	}
	return &Manager{ring: ring, log: log}, nil
}

// newWithRing builds a Manager over an already opened keyring.
func newWithRing(ring keyring.Keyring, log zerolog.Logger) *Manager {
	return &Manager{ring: ring, log: log}
}

// allowedBackends lists the keyring backends tried for goos, in order.
// A nil result means the platform has no supported secure store.
func allowedBackends(goos string) []keyring.BackendType {
	switch goos {
	case "darwin":
		// pass requires the 'pass' utility: brew install pass
		return []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		return []keyring.BackendType{keyring.WinCredBackend}
	case "linux", "freebsd", "openbsd":
		return []keyring.BackendType{keyring.SecretServiceBackend, keyring.KWalletBackend, keyring.PassBackend}
	default:
		return nil
	}
}

// openRing opens the OS keyring using native platform backends only.
// No encrypted-file fallback; configure the file storage backend instead.
func openRing(goos string) (keyring.Keyring, error) {
	backends := allowedBackends(goos)
	if len(backends) == 0 {
		return nil, errors.New("secure storage not supported on this OS")
	}

	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: backends,
		PassPrefix:      ServiceName,
	}
	switch goos {
	case "windows":
		cfg.WinCredPrefix = ServiceName
	case "linux", "freebsd", "openbsd":
		cfg.LibSecretCollectionName = "login"
		cfg.KWalletAppID = ServiceName
		cfg.KWalletFolder = ServiceName
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if goos == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. On macOS 26.0+, install 'pass': brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		return nil, err
	}
	return ring, nil
}

// GetItem implements storage.Adapter.
func (m *Manager) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.backend != nil {
		v, err := m.backend.Get(key)
		if errors.Is(err, errNotFound) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		return v, v != "", nil
	}

	it, err := m.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(it.Data), len(it.Data) > 0, nil
}

// SetItem implements storage.Adapter.
func (m *Manager) SetItem(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log.Debug().Str("key", key).Int("bytes", len(value)).Msg("keychain set")
	if m.backend != nil {
		return m.backend.Set(key, value)
	}
	return m.ring.Set(keyring.Item{Key: key, Label: ServiceName + " " + key, Data: []byte(value)})
}

// RemoveItem implements storage.Adapter. Removing a missing key is not an error.
func (m *Manager) RemoveItem(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backend != nil {
		if err := m.backend.Delete(key); err != nil && !errors.Is(err, errNotFound) {
			return err
		}
		return nil
	}
	if err := m.ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}
