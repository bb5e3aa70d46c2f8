package models

import "encoding/json"

// DefaultCategory используется, когда аккаунт создан без категории
const DefaultCategory = "Uncategorized"

// Account представляет один сохраненный игровой аккаунт.
// JSON-ключи "u" и "p" зафиксированы форматом уже развернутых документов.
type Account struct {
	Username string `json:"u"`        // Username логин аккаунта
	Password string `json:"p"`        // Password пароль аккаунта (открытым текстом внутри шифрованного документа)
	Category string `json:"category"` // Category свободная группировка (например, название игры)
}

// VaultDocument представляет весь синхронизируемый документ хранилища.
// Документ всегда читается и пишется как единое целое: частичных
// обновлений нет, документ целиком является единицей шифрования.
type VaultDocument struct {
	Accounts  map[string]Account `json:"accounts"`   // Accounts mapping alias -> Account, ключи уникальны
	AdminHash string             `json:"admin_hash"` // AdminHash hex-encoded SHA256 пароля админа, "" = админ не настроен
}

// ParseVaultDocument разбирает JSON документа хранилища.
// Отсутствующий admin_hash трактуется как пустая строка, отсутствующий или
// битый accounts — как пустой map. Неизвестные поля игнорируются.
func ParseVaultDocument(raw []byte) (*VaultDocument, error) {
	var doc VaultDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		// Пробуем вытащить хотя бы admin_hash из документа со сломанным accounts
		var partial struct {
			AdminHash string `json:"admin_hash"`
		}
		if err2 := json.Unmarshal(raw, &partial); err2 != nil {
			return nil, err
		}
		doc = VaultDocument{AdminHash: partial.AdminHash}
	}
	if doc.Accounts == nil {
		doc.Accounts = make(map[string]Account)
	}
	return &doc, nil
}

// NewVaultDocument создает пустой документ
func NewVaultDocument() *VaultDocument {
	return &VaultDocument{Accounts: make(map[string]Account)}
}
