package api

import "context"

//go:generate go tool moq -out client_mock.go . StoreClient

// StoreClient определяет интерфейс удаленного blob-хранилища.
// Vault и guard сервисы зависят от него, а не от конкретного HTTP клиента.
type StoreClient interface {
	// Fetch читает текущий payload документа
	Fetch(ctx context.Context) (string, error)

	// Replace целиком перезаписывает документ
	Replace(ctx context.Context, payload string) error
}

// Compile-time check that Client implements StoreClient
var _ StoreClient = (*Client)(nil)
