package models

import "errors"

// Domain-level sentinel errors shared by vault, guard and session layers.
// Callers should use errors.Is to match these values.
var (
	// ErrPermissionDenied indicates a mutation attempted without the Admin role
	ErrPermissionDenied = errors.New("permission denied")

	// ErrWrongPassword indicates an admin login with a non-matching password
	ErrWrongPassword = errors.New("wrong password")

	// ErrAlreadyInitialized indicates a bootstrap attempt on a configured vault
	ErrAlreadyInitialized = errors.New("admin already initialized")

	// ErrNotInitialized indicates a login attempt before admin bootstrap
	ErrNotInitialized = errors.New("admin not initialized")

	// ErrVoucherInvalid indicates an unknown or expired voucher code
	ErrVoucherInvalid = errors.New("voucher invalid or expired")

	// ErrDuplicateAlias indicates an account insert with an existing alias
	ErrDuplicateAlias = errors.New("alias already exists")

	// ErrAccountNotFound indicates the referenced account does not exist
	ErrAccountNotFound = errors.New("account not found")
)
