package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/valtools/valtools/internal/client/storage"
)

const keySettings = "settings"

// SaveSettings stores client settings
func (s *Storage) SaveSettings(ctx context.Context, settings *storage.Settings) error {
	if settings == nil {
		return fmt.Errorf("settings is nil")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSettings)
		if bucket == nil {
			return fmt.Errorf("settings bucket not found")
		}

		data, err := json.Marshal(settings)
		if err != nil {
			return fmt.Errorf("failed to marshal settings: %w", err)
		}

		if err := bucket.Put([]byte(keySettings), data); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		return nil
	})
}

// GetSettings retrieves client settings
func (s *Storage) GetSettings(ctx context.Context) (*storage.Settings, error) {
	var settings *storage.Settings

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSettings)
		if bucket == nil {
			return fmt.Errorf("settings bucket not found")
		}

		data := bucket.Get([]byte(keySettings))
		if data == nil {
			return storage.ErrSettingsNotFound
		}

		settings = &storage.Settings{}
		if err := json.Unmarshal(data, settings); err != nil {
			return fmt.Errorf("failed to unmarshal settings: %w", err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return settings, nil
}
