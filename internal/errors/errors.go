// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages, so callers can branch on the kind of an auth failure
// (not initialized, not authenticated, guest) without matching on message text.
//
// The package supports wrapping underlying errors while maintaining error kind information.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// InitializationFailed indicates the auth client could not be constructed.
	InitializationFailed Kind = "auth_initialization_failed"
	// NotInitialized indicates no auth client is available.
	NotInitialized Kind = "auth_not_initialized"
	// NotAuthenticated indicates there is no signed-in user.
	NotAuthenticated Kind = "not_authenticated"
	// GuestForbidden indicates the signed-in user is anonymous.
	GuestForbidden Kind = "guest_forbidden"
	// PersistenceUnsupported indicates the selected persistence provider cannot persist sessions.
	PersistenceUnsupported Kind = "persistence_unsupported"
	// StorageUnavailable indicates the storage backend could not be opened.
	StorageUnavailable Kind = "storage_unavailable"
	// InvalidConfig indicates a configuration value was rejected.
	InvalidConfig Kind = "invalid_config"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *E) Unwrap() error { return e.Err }

// Is reports whether target is an *E of the same kind.
// A target with an empty kind matches any *E.
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	if !ok {
		return false
	}
	return t.Kind == "" || t.Kind == e.Kind
}

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of the first *E in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
