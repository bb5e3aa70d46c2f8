package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

const (
	// TokenVersion - маркер версии токена (первый байт)
	TokenVersion = 0x80
	// KeySize - полный размер ключа: 16 bytes signing + 16 bytes encryption
	KeySize = 32
	// IVSize - размер initialization vector для AES-CBC
	IVSize = 16
	// MACSize - размер HMAC-SHA256 тега
	MACSize = sha256.Size
	// headerSize - version (1) + timestamp (8) + IV (16)
	headerSize = 1 + 8 + IVSize
	// minTokenSize - минимальная длина декодированного токена:
	// header + хотя бы один блок ciphertext + MAC
	minTokenSize = headerSize + aes.BlockSize + MACSize
)

// Ошибки декодирования токена
var (
	// ErrInvalidToken indicates the token is not valid base64url or is
	// shorter than the fixed overhead
	ErrInvalidToken = errors.New("invalid token format")

	// ErrAuthentication indicates the HMAC tag does not match: the token
	// was tampered with or a wrong key was used. Never retried with
	// another key.
	ErrAuthentication = errors.New("token authentication failed")

	// ErrPadding indicates the recovered PKCS#7 padding is invalid
	ErrPadding = errors.New("invalid token padding")
)

// Encrypt шифрует plaintext и возвращает токен в виде base64url строки.
// Формат токена: version (1 byte) + timestamp (8 bytes BE) + IV (16 bytes) +
// ciphertext (AES-128-CBC, PKCS#7) + HMAC-SHA256 (32 bytes).
// Первая половина ключа используется для подписи, вторая для шифрования.
// Порядок половин фиксирован: менять его нельзя, иначе ломается
// совместимость с уже записанными документами.
func Encrypt(plaintext, key []byte) (string, error) {
	iv := make([]byte, IVSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}
	return encryptAt(plaintext, key, time.Now(), iv)
}

// encryptAt шифрует с заданным timestamp и IV.
// Выделено отдельно, чтобы тесты могли проверять детерминированный вывод.
func encryptAt(plaintext, key []byte, ts time.Time, iv []byte) (string, error) {
	if len(key) != KeySize {
		return "", fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(key))
	}
	if len(iv) != IVSize {
		return "", fmt.Errorf("IV must be %d bytes, got %d", IVSize, len(iv))
	}

	signingKey := key[:16]
	encryptionKey := key[16:]

	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	// PKCS#7 padding до размера блока
	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	// Собираем токен: version + timestamp + IV + ciphertext
	token := make([]byte, 0, headerSize+len(ciphertext)+MACSize)
	token = append(token, TokenVersion)
	token = binary.BigEndian.AppendUint64(token, uint64(ts.Unix()))
	token = append(token, iv...)
	token = append(token, ciphertext...)

	// HMAC-SHA256 по всему содержимому до тега
	mac := hmac.New(sha256.New, signingKey)
	mac.Write(token)
	token = mac.Sum(token)

	return base64.URLEncoding.EncodeToString(token), nil
}

// Decrypt проверяет и расшифровывает токен, созданный Encrypt.
// Тег проверяется до расшифровки (constant-time сравнение).
// Поле timestamp информационное: срок жизни здесь не проверяется,
// это ответственность вызывающего кода.
func Decrypt(token string, key []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(key))
	}

	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if len(raw) < minTokenSize {
		return nil, fmt.Errorf("%w: token too short (%d bytes)", ErrInvalidToken, len(raw))
	}
	if raw[0] != TokenVersion {
		return nil, fmt.Errorf("%w: unknown version 0x%02x", ErrInvalidToken, raw[0])
	}

	signingKey := key[:16]
	encryptionKey := key[16:]

	body := raw[:len(raw)-MACSize]
	tag := raw[len(raw)-MACSize:]

	// Проверяем тег до любой расшифровки
	mac := hmac.New(sha256.New, signingKey)
	mac.Write(body)
	if !hmac.Equal(mac.Sum(nil), tag) {
		return nil, ErrAuthentication
	}

	iv := raw[9:headerSize]
	ciphertext := body[headerSize:]
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext is not block-aligned", ErrInvalidToken)
	}

	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	plaintext, err := pkcs7Unpad(padded, aes.BlockSize)
	if err != nil {
		return nil, err
	}
	return plaintext, nil
}

// Timestamp извлекает timestamp из токена без проверки тега.
// Используется только для диагностики.
func Timestamp(token string) (time.Time, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if len(raw) < headerSize {
		return time.Time{}, fmt.Errorf("%w: token too short", ErrInvalidToken)
	}
	sec := binary.BigEndian.Uint64(raw[1:9])
	return time.Unix(int64(sec), 0), nil
}

// pkcs7Pad дополняет данные до кратности blockSize
func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padLen)}, padLen)...)
}

// pkcs7Unpad снимает PKCS#7 padding, возвращает ErrPadding при нарушении формата
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrPadding
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize {
		return nil, ErrPadding
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, ErrPadding
		}
	}
	return data[:len(data)-padLen], nil
}
