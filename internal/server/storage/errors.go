package storage

import "errors"

// Storage errors
var (
	// ErrBinNotFound indicates that the bin does not exist in storage
	ErrBinNotFound = errors.New("bin not found")
)
