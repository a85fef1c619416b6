// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package guard rejects callers that are not signed in with a real account.
//
// Checks run in a fixed order and stop at the first failure: no auth client,
// then no signed-in user, then an anonymous (guest) user.
package guard

import (
	"context"

	"authgate/cli/internal/authstate"
	apperrors "authgate/cli/internal/errors"
)

// Messages carried by the guard's errors.
const (
	MsgNotInitialized   = "auth is not initialized"
	MsgNotAuthenticated = "user must be authenticated to perform this action"
	MsgGuestForbidden   = "guest users cannot perform this action"
)

// Service guards operations that need a registered user.
type Service struct {
	src authstate.Source
}

// New returns a Service reading the live client from src.
func New(src authstate.Source) *Service {
	return &Service{src: src}
}

// RequireAuthenticatedUser returns the signed-in, non-anonymous user's ID.
// Errors have kind auth_not_initialized, not_authenticated or guest_forbidden.
func (s *Service) RequireAuthenticatedUser(ctx context.Context) (string, error) {
	client, ok := s.src.Auth(ctx)
	if !ok {
		return "", apperrors.New(apperrors.NotInitialized, MsgNotInitialized)
	}

	state := authstate.Check(client)
	if state.CurrentUser == nil || state.UserID == "" {
		return "", apperrors.New(apperrors.NotAuthenticated, MsgNotAuthenticated)
	}
	if state.IsAnonymous {
		return "", apperrors.New(apperrors.GuestForbidden, MsgGuestForbidden)
	}
	return state.UserID, nil
}

// AuthenticatedUserID is RequireAuthenticatedUser without the error.
func (s *Service) AuthenticatedUserID(ctx context.Context) (string, bool) {
	uid, err := s.RequireAuthenticatedUser(ctx)
	if err != nil {
		return "", false
	}
	return uid, true
}

// IsAuthenticated reports whether a non-anonymous user with an ID is signed in.
// A user without a UID counts as signed out, the same as RequireAuthenticatedUser.
func (s *Service) IsAuthenticated(ctx context.Context) bool {
	_, ok := s.AuthenticatedUserID(ctx)
	return ok
}

// IsGuest reports whether an anonymous user is signed in.
func (s *Service) IsGuest(ctx context.Context) bool {
	client, ok := s.src.Auth(ctx)
	if !ok {
		return false
	}
	u := authstate.CurrentUser(client)
	if u == nil {
		return false
	}
	return u.IsAnonymous
}
