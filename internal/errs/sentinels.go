// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across client/view layers.
var (
	// ErrNotFound indicates the requested entity does not exist on the backend.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the backend rejected the request credential.
	// By the time a caller observes it, the local session is already gone.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoSession indicates a session-only view was requested without a session.
	ErrNoSession = errors.New("no session")

	// ErrInvalidStatus indicates an order status outside the known enumeration.
	ErrInvalidStatus = errors.New("invalid order status")
)
