package api

import "errors"

var (
	// ErrUnavailable is returned for transport-level failures and 5xx
	// responses after which no state was changed locally.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized is returned when the backend rejects the caller's
	// authorization and no recovery is possible for this request (bad
	// login, or a request that still fails after its one retry).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSessionExpired is the terminal auth failure: the refresh token
	// was rejected, all stored credentials have been cleared, and the
	// user must sign in again.
	ErrSessionExpired = errors.New("session expired")

	// ErrNotFound is returned for requests referencing an entity the
	// backend no longer knows (e.g. a deleted conversation session).
	ErrNotFound = errors.New("not found")
)
