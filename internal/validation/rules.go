package validation

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	// MaxAliasLen максимальная длина alias аккаунта
	MaxAliasLen = 64
	// MinAdminPasswordLen минимальная длина пароля админа
	MinAdminPasswordLen = 8
)

// ValidateAlias проверяет alias аккаунта.
// Alias — свободный идентификатор: непустой, без управляющих символов,
// без ведущих/замыкающих пробелов, не длиннее MaxAliasLen.
func ValidateAlias(alias string) error {
	if alias == "" {
		return fmt.Errorf("alias cannot be empty")
	}

	if len(alias) > MaxAliasLen {
		return fmt.Errorf("alias must not exceed %d characters", MaxAliasLen)
	}

	if strings.TrimSpace(alias) != alias {
		return fmt.Errorf("alias cannot start or end with whitespace")
	}

	for _, r := range alias {
		if unicode.IsControl(r) {
			return fmt.Errorf("alias cannot contain control characters")
		}
	}

	return nil
}

// ValidateAdminPassword проверяет минимальные требования к паролю админа.
// Применяется только при первичной настройке: уже установленный пароль
// принимается при входе как есть.
func ValidateAdminPassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < MinAdminPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinAdminPasswordLen)
	}

	return nil
}
