package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/valtools/valtools/internal/server/storage"
)

// CreateBin создает пустой bin с новым UUID
func (s *Storage) CreateBin(ctx context.Context) (string, error) {
	id := uuid.New().String()
	now := time.Now().Unix()

	query := `INSERT INTO bins (id, payload, created_at, updated_at) VALUES (?, '', ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, id, now, now); err != nil {
		return "", fmt.Errorf("failed to create bin: %w", err)
	}
	return id, nil
}

// GetBin возвращает текущий payload bin-а
func (s *Storage) GetBin(ctx context.Context, id string) (string, error) {
	query := `SELECT payload FROM bins WHERE id = ?`

	var payload string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrBinNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get bin: %w", err)
	}
	return payload, nil
}

// ReplaceBin перезаписывает payload целиком, last write wins
func (s *Storage) ReplaceBin(ctx context.Context, id, payload string) error {
	query := `UPDATE bins SET payload = ?, updated_at = ? WHERE id = ?`

	res, err := s.db.ExecContext(ctx, query, payload, time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to replace bin: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check replace result: %w", err)
	}
	if affected == 0 {
		return storage.ErrBinNotFound
	}
	return nil
}
