package api

// BinRecord представляет содержимое bin-а: единственный зашифрованный payload
type BinRecord struct {
	Payload string `json:"payload"` // Payload токен кодека (base64url)
}

// BinResponse представляет ответ на GET /v3/b/{id}/latest
type BinResponse struct {
	Record BinRecord `json:"record"`
}

// BinUpdateRequest представляет тело PUT /v3/b/{id}.
// Полная перезапись документа, не patch.
type BinUpdateRequest struct {
	Payload string `json:"payload"`
}

// BinCreateResponse представляет ответ на POST /v3/b
type BinCreateResponse struct {
	ID string `json:"id"` // ID UUID созданного bin-а
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
