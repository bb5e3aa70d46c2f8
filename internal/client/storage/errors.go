package storage

import "errors"

// Common client storage errors
var (
	// ErrSessionNotFound indicates that no persisted session token exists
	ErrSessionNotFound = errors.New("session token not found")

	// ErrSettingsNotFound indicates that settings were never saved
	ErrSettingsNotFound = errors.New("settings not found")

	// ErrGameNotFound indicates that the injected game record was not found
	ErrGameNotFound = errors.New("injected game not found")

	// ErrPayloadNotCached indicates that no offline payload copy exists
	ErrPayloadNotCached = errors.New("payload not cached")
)
