package storage

import "context"

// Settings — локальные настройки клиента
type Settings struct {
	SteamPath string `json:"steam_path"` // SteamPath ручное переопределение пути к Steam, "" = автопоиск
	InstallID string `json:"install_id"` // InstallID уникальный UUID этой установки
}

// SettingsStorage defines interface for client settings persistence
type SettingsStorage interface {
	// SaveSettings stores client settings
	SaveSettings(ctx context.Context, settings *Settings) error

	// GetSettings retrieves client settings
	// Returns ErrSettingsNotFound if settings were never saved
	GetSettings(ctx context.Context) (*Settings, error)
}
