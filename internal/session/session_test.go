// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authgate/cli/internal/identity"
	"authgate/cli/internal/storage"
)

type testApp struct{ name string }

func (a testApp) Name() string      { return a.name }
func (a testApp) ProjectID() string { return "demo-project" }

type failingPersistence struct{ err error }

func (f failingPersistence) Load(context.Context) (*identity.User, error) { return nil, f.err }
func (f failingPersistence) Save(context.Context, *identity.User) error  { return f.err }
func (f failingPersistence) Clear(context.Context) error                 { return f.err }

func newTestSDK() *SDK {
	s := NewSDK(zerolog.Nop())
	s.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	return s
}

func persistenceFor(t *testing.T, app identity.App, mem *storage.Memory) identity.Persistence {
	t.Helper()
	p, err := identity.StoragePersistence{}.Persistence(app, mem)
	require.NoError(t, err)
	return p
}

func TestInitializeAuthOncePerApp(t *testing.T) {
	ctx := context.Background()
	sdk := newTestSDK()
	app := testApp{name: "demo"}

	c, err := sdk.InitializeAuth(ctx, app, nil)
	require.NoError(t, err)

	_, err = sdk.InitializeAuth(ctx, app, nil)
	assert.ErrorIs(t, err, identity.ErrAlreadyInitialized)

	got, err := sdk.GetAuth(app)
	require.NoError(t, err)
	assert.Same(t, c, got)

	other, err := sdk.GetAuth(testApp{name: "other"})
	require.NoError(t, err)
	assert.NotSame(t, c, other)
}

func TestInitializeAuthPropagatesPersistenceFailure(t *testing.T) {
	boom := errors.New("keychain locked")
	_, err := newTestSDK().InitializeAuth(context.Background(), testApp{name: "demo"}, failingPersistence{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestRestoresPersistedUser(t *testing.T) {
	ctx := context.Background()
	app := testApp{name: "demo"}
	mem := storage.NewMemory()

	first, err := newTestSDK().InitializeAuth(ctx, app, persistenceFor(t, app, mem))
	require.NoError(t, err)
	_, err = first.(*Client).SignIn(ctx, identity.User{UID: "abc123", Email: "a@example.com"})
	require.NoError(t, err)

	second, err := newTestSDK().InitializeAuth(ctx, app, persistenceFor(t, app, mem))
	require.NoError(t, err)
	u := second.CurrentUser()
	require.NotNil(t, u)
	assert.Equal(t, "abc123", u.UID)
	assert.False(t, u.IsAnonymous)
	assert.True(t, second.(*Client).Persistent())
}

func TestSubscriptionLifecycle(t *testing.T) {
	ctx := context.Background()
	c, err := newTestSDK().GetAuth(testApp{name: "demo"})
	require.NoError(t, err)
	client := c.(*Client)

	var seen []*identity.User
	unsubscribe := client.OnAuthStateChanged(func(u *identity.User) { seen = append(seen, u) })
	require.Len(t, seen, 1, "current value is delivered synchronously")
	assert.Nil(t, seen[0])

	anon, err := client.SignInAnonymously(ctx)
	require.NoError(t, err)
	assert.True(t, anon.IsAnonymous)
	assert.True(t, strings.HasPrefix(anon.UID, AnonymousPrefix))

	require.NoError(t, client.SignOut(ctx))
	require.Len(t, seen, 3)
	assert.Equal(t, anon.UID, seen[1].UID)
	assert.Nil(t, seen[2])

	unsubscribe()
	unsubscribe()
	_, err = client.SignIn(ctx, identity.User{UID: "abc123"})
	require.NoError(t, err)
	assert.Len(t, seen, 3)
}

func TestListenersNotifiedInRegistrationOrder(t *testing.T) {
	c, err := newTestSDK().GetAuth(testApp{name: "demo"})
	require.NoError(t, err)
	client := c.(*Client)

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		client.OnAuthStateChanged(func(*identity.User) { order = append(order, i) })
	}
	order = nil

	require.NoError(t, client.SignOut(context.Background()))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestSignInValidation(t *testing.T) {
	c, err := newTestSDK().GetAuth(testApp{name: "demo"})
	require.NoError(t, err)
	client := c.(*Client)

	tests := []struct {
		name string
		uid  string
	}{
		{name: "empty", uid: "  "},
		{name: "anonymous prefix", uid: "anon-123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.SignIn(context.Background(), identity.User{UID: tt.uid})
			assert.Error(t, err)
			assert.Nil(t, client.CurrentUser())
		})
	}
}

func TestSignInFailsWhenPersistenceFails(t *testing.T) {
	boom := errors.New("disk full")
	client := newClient(testApp{name: "demo"}, failingPersistence{err: boom}, nil, zerolog.Nop(), time.Now)

	_, err := client.SignIn(context.Background(), identity.User{UID: "abc123"})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, client.CurrentUser())
}

func TestReloadNotifiesOnlyOnChange(t *testing.T) {
	ctx := context.Background()
	app := testApp{name: "demo"}
	mem := storage.NewMemory()

	watcherSide, err := newTestSDK().InitializeAuth(ctx, app, persistenceFor(t, app, mem))
	require.NoError(t, err)
	writerSide, err := newTestSDK().InitializeAuth(ctx, app, persistenceFor(t, app, mem))
	require.NoError(t, err)

	var seen []*identity.User
	watcherSide.OnAuthStateChanged(func(u *identity.User) { seen = append(seen, u) })

	_, err = writerSide.(*Client).SignIn(ctx, identity.User{UID: "abc123"})
	require.NoError(t, err)

	require.NoError(t, watcherSide.(*Client).Reload(ctx))
	require.NoError(t, watcherSide.(*Client).Reload(ctx))
	require.Len(t, seen, 2)
	assert.Equal(t, "abc123", seen[1].UID)
}

func TestCurrentUserIsACopy(t *testing.T) {
	ctx := context.Background()
	c, err := newTestSDK().GetAuth(testApp{name: "demo"})
	require.NoError(t, err)
	_, err = c.(*Client).SignIn(ctx, identity.User{UID: "abc123"})
	require.NoError(t, err)

	u := c.CurrentUser()
	u.UID = "mutated"
	assert.Equal(t, "abc123", c.CurrentUser().UID)
}
