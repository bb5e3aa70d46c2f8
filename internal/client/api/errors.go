package api

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/valtools/valtools/pkg/api"
)

// ErrBinNotFound indicates the remote bin does not exist or holds no payload
var ErrBinNotFound = errors.New("bin not found")

// StatusError представляет отказ сервера хранилища (не-2xx ответ).
// Транспортные сбои (timeout, обрыв сети) возвращаются обычными
// обернутыми ошибками и этим типом не являются.
type StatusError struct {
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("store error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("store error (%d)", e.StatusCode)
}

// newStatusError строит StatusError из тела ответа, пытаясь
// распарсить структурированное сообщение об ошибке
func newStatusError(statusCode int, body []byte) *StatusError {
	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &StatusError{StatusCode: statusCode, Message: errResp.Error}
	}
	return &StatusError{StatusCode: statusCode, Message: string(body)}
}
