package models

// DLCInfo — дочерний контент игры из магазина
type DLCInfo struct {
	Name  string `json:"name"`
	AppID int    `json:"app_id"`
}

// GameInfo — метаданные игры из магазина Steam
type GameInfo struct {
	Name  string    `json:"name"`
	Type  string    `json:"type"`
	DLC   []DLCInfo `json:"dlc"`
	AppID int       `json:"app_id"`
}

// InjectedGame — запись в локальном списке зарегистрированных игр
type InjectedGame struct {
	Name      string `json:"name"`
	AppID     int    `json:"appId"`
	DLCCount  int    `json:"dlcCount"`
	Timestamp int64  `json:"timestamp"` // unix millis момента регистрации
}

// StatusEvent — одно NDJSON событие прогресса от injection-подпроцесса.
// Контракт с подпроцессом минимальный: type + произвольные текстовые поля.
type StatusEvent struct {
	Type    string `json:"type"`
	Step    string `json:"step,omitempty"`
	Message string `json:"message,omitempty"`
}
