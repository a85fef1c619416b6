// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package authstate derives read-only views of the signed-in user.
//
// Every function here is a projection of Check, so they cannot disagree.
// Nothing is cached: each call reads the client's current user, and the
// "From" variants re-read the live client from the Source as well.
// Anonymous users count as authenticated and as guests.
package authstate

import (
	"context"

	"authgate/cli/internal/identity"
)

// CheckResult is the derived auth state.
type CheckResult struct {
	IsAuthenticated bool
	IsAnonymous     bool
	IsGuest         bool
	CurrentUser     *identity.User
	UserID          string
}

// Source yields the current client, typically an *authclient.Registry.
type Source interface {
	Auth(ctx context.Context) (identity.Client, bool)
}

// Check derives the auth state from c. A nil client or a client with no
// user yields the zero CheckResult.
func Check(c identity.Client) CheckResult {
	if c == nil {
		return CheckResult{}
	}
	u := c.CurrentUser()
	if u == nil {
		return CheckResult{}
	}
	return CheckResult{
		IsAuthenticated: true,
		IsAnonymous:     u.IsAnonymous,
		IsGuest:         u.IsAnonymous,
		CurrentUser:     u,
		UserID:          u.UID,
	}
}

// IsAuthenticated reports whether anyone, anonymous included, is signed in.
func IsAuthenticated(c identity.Client) bool { return Check(c).IsAuthenticated }

// IsGuest reports whether the signed-in user is anonymous.
func IsGuest(c identity.Client) bool { return Check(c).IsGuest }

// CurrentUserID returns the signed-in user's ID, or "".
func CurrentUserID(c identity.Client) string { return Check(c).UserID }

// CurrentUser returns the signed-in user, or nil.
func CurrentUser(c identity.Client) *identity.User { return Check(c).CurrentUser }

// CheckFrom is Check applied to the client src currently holds.
func CheckFrom(ctx context.Context, src Source) CheckResult {
	c, ok := src.Auth(ctx)
	if !ok {
		return CheckResult{}
	}
	return Check(c)
}

// CurrentUserIDFrom returns the live client's user ID, or "".
func CurrentUserIDFrom(ctx context.Context, src Source) string {
	return CheckFrom(ctx, src).UserID
}

// CurrentUserFrom returns the live client's user, or nil.
func CurrentUserFrom(ctx context.Context, src Source) *identity.User {
	return CheckFrom(ctx, src).CurrentUser
}

// IsCurrentUserAuthenticated is IsAuthenticated on the live client.
func IsCurrentUserAuthenticated(ctx context.Context, src Source) bool {
	return CheckFrom(ctx, src).IsAuthenticated
}

// IsCurrentUserGuest is IsGuest on the live client.
func IsCurrentUserGuest(ctx context.Context, src Source) bool {
	return CheckFrom(ctx, src).IsGuest
}
