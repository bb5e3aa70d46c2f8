package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// HashPassword хеширует пароль через SHA256 и возвращает hex строку.
// Формат зафиксирован: именно этот hex-дайджест лежит в поле admin_hash
// уже развернутых документов.
func HashPassword(password string) string {
	hash := sha256.Sum256([]byte(password))
	return hex.EncodeToString(hash[:])
}

// VerifyPassword проверяет, соответствует ли пароль сохраненному хешу
func VerifyPassword(password, storedHash string) error {
	if storedHash == "" {
		return fmt.Errorf("stored hash cannot be empty")
	}
	if HashPassword(password) != storedHash {
		return fmt.Errorf("password does not match")
	}
	return nil
}
