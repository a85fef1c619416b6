// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package authclient

import (
	"authgate/cli/internal/storage"
)

// Config customises client initialization.
// A nil *Config, or one without Storage, uses the initializer's default storage.
type Config struct {
	// Storage overrides where the session is persisted.
	Storage storage.Adapter
}

func (c *Config) storage() storage.Adapter {
	if c == nil {
		return nil
	}
	return c.Storage
}
