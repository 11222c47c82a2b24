// Package credstore persists the session token across client restarts.
//
// It is the only durable auth state the client keeps: exactly one opaque
// token under a single well-known key, scoped to one profile database file.
// Presence of a stored token does not prove validity; the server remains the
// authority and a stale token is only discovered when a request is rejected.
package credstore

import "context"

// Store is the durable credential store contract. All operations are local
// and synchronous; no expiry is enforced client-side.
type Store interface {
	// Save replaces the stored token.
	Save(ctx context.Context, token string) error

	// Read returns the stored token, or ok=false when none is stored.
	Read(ctx context.Context) (token string, ok bool, err error)

	// Clear removes the stored token. Clearing an empty store is not an
	// error.
	Clear(ctx context.Context) error
}
