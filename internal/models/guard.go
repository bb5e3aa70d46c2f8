package models

import (
	"encoding/json"
	"time"
)

// GuardAccount представляет один Steam Guard аккаунт в гостевом sub-vault.
// JSON-ключи зафиксированы форматом развернутых документов.
type GuardAccount struct {
	Email    string `json:"email"`  // Email почтовый ящик, на который приходят коды
	Password string `json:"pass"`   // Password пароль от почты
	Server   string `json:"server"` // Server IMAP сервер почты
}

// GuardDocument представляет внешний документ гостевого sub-vault.
// Сам документ шифруется встроенным статическим ключом; Payload — это
// токен с аккаунтами, зашифрованный уже master key. Так voucher при
// погашении выдает master key, не раскрывая пароль админа.
type GuardDocument struct {
	Vouchers  map[string]int64 `json:"vouchers"`   // Vouchers mapping code -> unix expiry (seconds)
	AdminHash string           `json:"admin_hash"` // AdminHash hex-encoded SHA256 пароля админа sub-vault
	MasterKey string           `json:"master_key"` // MasterKey urlsafe base64 ключ шифрования Payload
	Payload   string           `json:"payload"`    // Payload токен с map[name]GuardAccount под MasterKey
}

// ParseGuardDocument разбирает JSON гостевого документа с теми же
// правилами умолчаний, что и ParseVaultDocument
func ParseGuardDocument(raw []byte) (*GuardDocument, error) {
	var doc GuardDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Vouchers == nil {
		doc.Vouchers = make(map[string]int64)
	}
	return &doc, nil
}

// NewGuardDocument создает пустой гостевой документ
func NewGuardDocument() *GuardDocument {
	return &GuardDocument{Vouchers: make(map[string]int64)}
}

// Voucher — результат выпуска гостевого кода доступа
type Voucher struct {
	Expiry time.Time `json:"expiry"` // Expiry абсолютное время окончания действия
	Code   string    `json:"code"`   // Code код доступа (не одноразовый: валиден до Expiry)
}
