package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"go.etcd.io/bbolt"

	"github.com/valtools/valtools/internal/client/storage"
	"github.com/valtools/valtools/internal/models"
)

// SaveGame stores or replaces an injected game record, keyed by app id
func (s *Storage) SaveGame(ctx context.Context, game *models.InjectedGame) error {
	if game == nil {
		return fmt.Errorf("game is nil")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketGames)
		if bucket == nil {
			return fmt.Errorf("games bucket not found")
		}

		data, err := json.Marshal(game)
		if err != nil {
			return fmt.Errorf("failed to marshal game: %w", err)
		}

		key := []byte(strconv.Itoa(game.AppID))
		if err := bucket.Put(key, data); err != nil {
			return fmt.Errorf("failed to save game: %w", err)
		}
		return nil
	})
}

// DeleteGame removes an injected game record by app id
func (s *Storage) DeleteGame(ctx context.Context, appID int) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketGames)
		if bucket == nil {
			return fmt.Errorf("games bucket not found")
		}

		key := []byte(strconv.Itoa(appID))
		if bucket.Get(key) == nil {
			return storage.ErrGameNotFound
		}

		if err := bucket.Delete(key); err != nil {
			return fmt.Errorf("failed to delete game: %w", err)
		}
		return nil
	})
}

// ListGames returns all injected games, newest first
func (s *Storage) ListGames(ctx context.Context) ([]*models.InjectedGame, error) {
	var games []*models.InjectedGame

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketGames)
		if bucket == nil {
			return fmt.Errorf("games bucket not found")
		}

		return bucket.ForEach(func(k, v []byte) error {
			game := &models.InjectedGame{}
			if err := json.Unmarshal(v, game); err != nil {
				return fmt.Errorf("failed to unmarshal game %s: %w", k, err)
			}
			games = append(games, game)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	// Новые записи первыми
	sort.Slice(games, func(i, j int) bool {
		return games[i].Timestamp > games[j].Timestamp
	})

	return games, nil
}
