package session

import "errors"

var (
	// ErrNoProvider is raised when the auth provider is read from a context that never received one.
	ErrNoProvider = errors.New("auth provider accessed outside of a provider scope")
	// ErrNilStore is returned when a persister is built without a store.
	ErrNilStore = errors.New("session store is nil")
	// ErrInvalidRole is returned when logging in with a role outside the catalog.
	ErrInvalidRole = errors.New("invalid role")
)
