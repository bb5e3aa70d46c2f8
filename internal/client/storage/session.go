package storage

import "context"

// SessionStorage defines interface for persisting the CLI session token
// between command invocations. The token itself is a signed JWT, the
// storage layer treats it as an opaque string.
type SessionStorage interface {
	// SaveSessionToken stores the signed session token
	SaveSessionToken(ctx context.Context, token string) error

	// GetSessionToken retrieves the stored session token
	// Returns ErrSessionNotFound if no token exists
	GetSessionToken(ctx context.Context) (string, error)

	// DeleteSessionToken removes the stored session token
	DeleteSessionToken(ctx context.Context) error
}
