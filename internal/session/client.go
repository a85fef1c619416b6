// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"authgate/cli/internal/identity"
)

// AnonymousPrefix prefixes the UID of anonymous users.
const AnonymousPrefix = "anon-"

// Client implements identity.Client and identity.Authenticator.
type Client struct {
	app         identity.App
	persistence identity.Persistence
	log         zerolog.Logger
	now         func() time.Time

	mu        sync.Mutex
	user      *identity.User
	listeners map[uint64]func(*identity.User)
	nextID    uint64
}

func newClient(app identity.App, p identity.Persistence, user *identity.User, log zerolog.Logger, now func() time.Time) *Client {
	return &Client{
		app:         app,
		persistence: p,
		log:         log,
		now:         now,
		user:        user,
		listeners:   make(map[uint64]func(*identity.User)),
	}
}

// App implements identity.Client.
func (c *Client) App() identity.App { return c.app }

// Persistent reports whether the client was built with session persistence.
func (c *Client) Persistent() bool { return c.persistence != nil }

// CurrentUser implements identity.Client. The returned value is a copy.
func (c *Client) CurrentUser() *identity.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyUser(c.user)
}

// OnAuthStateChanged implements identity.Client.
func (c *Client) OnAuthStateChanged(fn func(*identity.User)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	current := copyUser(c.user)
	c.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// SignInAnonymously implements identity.Authenticator.
// A fresh anonymous user replaces whoever is signed in.
func (c *Client) SignInAnonymously(ctx context.Context) (*identity.User, error) {
	u := &identity.User{
		UID:         AnonymousPrefix + uuid.NewString(),
		IsAnonymous: true,
		CreatedAt:   c.now().UTC(),
	}
	if err := c.setUser(ctx, u); err != nil {
		return nil, err
	}
	return copyUser(u), nil
}

// SignIn implements identity.Authenticator. The UID must be non-empty and
// must not use the anonymous prefix.
func (c *Client) SignIn(ctx context.Context, in identity.User) (*identity.User, error) {
	uid := strings.TrimSpace(in.UID)
	if uid == "" {
		return nil, fmt.Errorf("sign in: empty uid")
	}
	if strings.HasPrefix(uid, AnonymousPrefix) {
		return nil, fmt.Errorf("sign in: uid %q is reserved for anonymous users", uid)
	}
	u := &identity.User{
		UID:         uid,
		Email:       strings.TrimSpace(in.Email),
		DisplayName: strings.TrimSpace(in.DisplayName),
		CreatedAt:   in.CreatedAt,
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = c.now().UTC()
	}
	if err := c.setUser(ctx, u); err != nil {
		return nil, err
	}
	return copyUser(u), nil
}

// SignOut implements identity.Authenticator.
func (c *Client) SignOut(ctx context.Context) error {
	return c.setUser(ctx, nil)
}

// Reload implements identity.Authenticator. Without persistence it is a no-op.
func (c *Client) Reload(ctx context.Context) error {
	if c.persistence == nil {
		return nil
	}
	u, err := c.persistence.Load(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if sameUser(c.user, u) {
		c.mu.Unlock()
		return nil
	}
	c.user = u
	fns := c.snapshotLocked()
	c.mu.Unlock()

	c.log.Debug().Str("app", c.app.Name()).Bool("signed_in", u != nil).Msg("session reloaded")
	notify(fns, u)
	return nil
}

// setUser persists u first, then swaps it in and notifies.
func (c *Client) setUser(ctx context.Context, u *identity.User) error {
	if c.persistence != nil {
		if err := c.persistence.Save(ctx, u); err != nil {
			return fmt.Errorf("persist session: %w", err)
		}
	}

	c.mu.Lock()
	c.user = u
	fns := c.snapshotLocked()
	c.mu.Unlock()

	notify(fns, u)
	return nil
}

func (c *Client) snapshotLocked() []func(*identity.User) {
	ids := make([]uint64, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids) // registration order
	fns := make([]func(*identity.User), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, c.listeners[id])
	}
	return fns
}

func notify(fns []func(*identity.User), u *identity.User) {
	for _, fn := range fns {
		fn(copyUser(u))
	}
}

func copyUser(u *identity.User) *identity.User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}

func sameUser(a, b *identity.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.UID == b.UID && a.IsAnonymous == b.IsAnonymous && a.Email == b.Email &&
		a.DisplayName == b.DisplayName && a.CreatedAt.Equal(b.CreatedAt)
}
