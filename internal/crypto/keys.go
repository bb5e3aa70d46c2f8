package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// DecodeKey декодирует ключ из base64 строки.
// Принимает как urlsafe, так и стандартный base64: развернутые клиенты
// исторически кодировали ключ обоими способами.
func DecodeKey(encoded string) ([]byte, error) {
	if encoded == "" {
		return nil, fmt.Errorf("key cannot be empty")
	}

	key, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		key, err = base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode key: %w", err)
		}
	}

	if len(key) != KeySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", KeySize, len(key))
	}
	return key, nil
}

// GenerateKey генерирует новый случайный ключ и возвращает его в urlsafe base64.
// Используется для master key гостевого sub-vault.
func GenerateKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return base64.URLEncoding.EncodeToString(key), nil
}
