package storage

import (
	"context"

	"github.com/valtools/valtools/internal/models"
)

// GamesStorage defines interface for the local injected games list
type GamesStorage interface {
	// SaveGame stores or replaces an injected game record
	SaveGame(ctx context.Context, game *models.InjectedGame) error

	// DeleteGame removes an injected game record by app id
	// Returns ErrGameNotFound if the record does not exist
	DeleteGame(ctx context.Context, appID int) error

	// ListGames returns all injected games, newest first
	ListGames(ctx context.Context) ([]*models.InjectedGame, error)
}

// PayloadCache defines interface for the offline copy of the last
// successfully fetched remote payload
type PayloadCache interface {
	// SavePayload stores the last known payload for the named bin
	SavePayload(ctx context.Context, bin, payload string) error

	// GetPayload retrieves the cached payload for the named bin
	// Returns ErrPayloadNotCached if nothing was cached yet
	GetPayload(ctx context.Context, bin string) (string, error)
}
