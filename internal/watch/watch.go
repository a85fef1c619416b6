// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package watch projects a client's auth-state notifications into a local
// {User, Loading, Initialized} value with guaranteed unsubscribe.
package watch

import (
	"context"
	"sync"

	"authgate/cli/internal/identity"
)

// State is the watched triple.
type State struct {
	User        *identity.User
	Loading     bool
	Initialized bool
}

// Source is the part of the registry a Watcher reads.
type Source interface {
	IsInitialized() bool
	Auth(ctx context.Context) (identity.Client, bool)
}

// Watcher bridges one client subscription at a time into State.
type Watcher struct {
	src      Source
	onChange func(State)

	mu     sync.Mutex
	state  State
	gen    uint64
	cancel func()
}

// New returns an unmounted Watcher in the loading state.
// onChange may be nil; when set it is called with every new state.
func New(src Source, onChange func(State)) *Watcher {
	return &Watcher{
		src:      src,
		onChange: onChange,
		state:    State{Loading: true},
	}
}

// State returns the current triple.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Mount reads the registry once and subscribes to the client if there is one.
// A previous subscription is cancelled first.
func (w *Watcher) Mount(ctx context.Context) {
	w.Unmount()

	w.mu.Lock()
	gen := w.gen
	w.mu.Unlock()

	if !w.src.IsInitialized() {
		w.set(gen, State{})
		return
	}
	client, ok := w.src.Auth(ctx)
	if !ok {
		w.set(gen, State{Initialized: true})
		return
	}

	// The client delivers the current user synchronously, so w.mu must not be
	// held here.
	cancel := client.OnAuthStateChanged(func(u *identity.User) {
		w.set(gen, State{User: u, Initialized: true})
	})

	w.mu.Lock()
	if w.gen != gen {
		// Unmounted while subscribing.
		w.mu.Unlock()
		cancel()
		return
	}
	w.cancel = cancel
	w.mu.Unlock()
}

// Unmount cancels the active subscription, if any. Notifications that arrive
// afterwards are dropped. Safe to call repeatedly.
func (w *Watcher) Unmount() {
	w.mu.Lock()
	w.gen++
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (w *Watcher) set(gen uint64, s State) {
	w.mu.Lock()
	if w.gen != gen {
		w.mu.Unlock()
		return
	}
	w.state = s
	w.mu.Unlock()

	if w.onChange != nil {
		w.onChange(s)
	}
}
