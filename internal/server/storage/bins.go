package storage

import "context"

// BinStorage defines interface for bin persistence.
// A bin holds a single opaque payload, replaced atomically as a whole.
type BinStorage interface {
	// CreateBin creates an empty bin and returns its generated id
	CreateBin(ctx context.Context) (string, error)

	// GetBin returns the current payload of the bin
	// Returns ErrBinNotFound if the bin does not exist
	GetBin(ctx context.Context, id string) (string, error)

	// ReplaceBin overwrites the bin payload, last write wins
	// Returns ErrBinNotFound if the bin does not exist
	ReplaceBin(ctx context.Context, id, payload string) error
}
