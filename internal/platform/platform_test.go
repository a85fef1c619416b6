// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "authgate/cli/internal/errors"
)

func TestUnconfiguredPlatformIsOffline(t *testing.T) {
	app, ok := New().App()
	assert.False(t, ok)
	assert.Nil(t, app)
}

func TestInitialize(t *testing.T) {
	p := New()

	app, err := p.Initialize(Options{ProjectID: "demo-project"})
	require.NoError(t, err)
	assert.Equal(t, DefaultAppName, app.Name())
	assert.Equal(t, "demo-project", app.ProjectID())

	again, err := p.Initialize(Options{ProjectID: "demo-project"})
	require.NoError(t, err)
	assert.Same(t, app, again)

	_, err = p.Initialize(Options{ProjectID: "other-project"})
	assert.True(t, apperrors.IsKind(err, apperrors.InvalidConfig))

	got, ok := p.App()
	require.True(t, ok)
	assert.Equal(t, "demo-project", got.ProjectID())
}

func TestInitializeRejectsBadProjectID(t *testing.T) {
	tests := []string{"", "Demo", "a", "has space", "-leading"}
	for _, id := range tests {
		t.Run(id, func(t *testing.T) {
			_, err := New().Initialize(Options{ProjectID: id})
			assert.True(t, apperrors.IsKind(err, apperrors.InvalidConfig))
		})
	}
}
