package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/valtools/valtools/internal/client/storage"
)

const keySessionToken = "token"

// SaveSessionToken stores the signed session token
func (s *Storage) SaveSessionToken(ctx context.Context, token string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		if err := bucket.Put([]byte(keySessionToken), []byte(token)); err != nil {
			return fmt.Errorf("failed to save session token: %w", err)
		}
		return nil
	})
}

// GetSessionToken retrieves the stored session token
func (s *Storage) GetSessionToken(ctx context.Context) (string, error) {
	var token string

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		data := bucket.Get([]byte(keySessionToken))
		if data == nil {
			return storage.ErrSessionNotFound
		}
		token = string(data)
		return nil
	})

	if err != nil {
		return "", err
	}
	return token, nil
}

// DeleteSessionToken removes the stored session token
func (s *Storage) DeleteSessionToken(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSession)
		if bucket == nil {
			return fmt.Errorf("session bucket not found")
		}

		if err := bucket.Delete([]byte(keySessionToken)); err != nil {
			return fmt.Errorf("failed to delete session token: %w", err)
		}
		return nil
	})
}
