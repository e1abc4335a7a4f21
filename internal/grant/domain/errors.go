package domain

import (
	"github.com/allisson/docgate/internal/errors"
)

// Grant lifecycle errors.
var (
	// ErrGrantNotFound indicates no live grant matches the presented token or ID.
	ErrGrantNotFound = errors.Wrap(errors.ErrNotFound, "grant not found")

	// ErrGrantExpired indicates the grant exists but is past its expiry instant.
	// The matching registry entry is evicted by the access that discovers this.
	ErrGrantExpired = errors.Wrap(errors.ErrExpired, "grant expired")

	// ErrGrantAlreadyExists indicates an ID or token-hash collision at insert.
	ErrGrantAlreadyExists = errors.Wrap(errors.ErrConflict, "grant already exists")
)
