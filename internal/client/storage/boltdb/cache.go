package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/valtools/valtools/internal/client/storage"
)

// SavePayload stores the last known payload for the named bin.
// Кэш нужен только для offline-индикации и диагностики: источником
// истины всегда остается удаленное хранилище.
func (s *Storage) SavePayload(ctx context.Context, bin, payload string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCache)
		if bucket == nil {
			return fmt.Errorf("cache bucket not found")
		}

		if err := bucket.Put([]byte(bin), []byte(payload)); err != nil {
			return fmt.Errorf("failed to cache payload: %w", err)
		}
		return nil
	})
}

// GetPayload retrieves the cached payload for the named bin
func (s *Storage) GetPayload(ctx context.Context, bin string) (string, error) {
	var payload string

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCache)
		if bucket == nil {
			return fmt.Errorf("cache bucket not found")
		}

		data := bucket.Get([]byte(bin))
		if data == nil {
			return storage.ErrPayloadNotCached
		}
		payload = string(data)
		return nil
	})

	if err != nil {
		return "", err
	}
	return payload, nil
}
