package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/valtools/valtools/pkg/api"
)

const (
	// requestTimeout ограничивает каждый запрос к удаленному хранилищу
	requestTimeout = 15 * time.Second
	// masterKeyHeader - статический bearer-заголовок хранилища
	masterKeyHeader = "X-Master-Key"
)

// Client представляет HTTP клиент одного удаленного bin-а.
// Bin — единственный JSON документ; клиент умеет только целиком
// читать и целиком перезаписывать его.
type Client struct {
	httpClient *http.Client
	baseURL    string
	binID      string
	masterKey  string
}

// NewClient создает новый клиент хранилища.
// baseURL - адрес API (например https://api.jsonbin.io),
// binID - идентификатор bin-а, masterKey - статический ключ доступа.
func NewClient(baseURL, binID, masterKey string) *Client {
	return &Client{
		baseURL:   baseURL,
		binID:     binID,
		masterKey: masterKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Fetch читает текущий payload bin-а.
// 404 или пустой payload трактуются как ErrBinNotFound.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/v3/b/%s/latest", c.baseURL, c.binID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(masterKeyHeader, c.masterKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrBinNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", newStatusError(resp.StatusCode, body)
	}

	var binResp api.BinResponse
	if err := json.Unmarshal(body, &binResp); err != nil {
		return "", &StatusError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unparseable response body: %v", err),
		}
	}
	if binResp.Record.Payload == "" {
		return "", ErrBinNotFound
	}

	return binResp.Record.Payload, nil
}

// Replace целиком перезаписывает bin новым payload-ом.
// Last writer wins: условной записи у хранилища нет. Перезапись
// идемпотентна, поэтому при транспортной ошибке выполняется один повтор.
func (c *Client) Replace(ctx context.Context, payload string) error {
	err := c.replaceOnce(ctx, payload)
	if err == nil {
		return nil
	}

	// Повторяем только транспортные сбои, не отказ сервера
	var statusErr *StatusError
	if errors.As(err, &statusErr) || ctx.Err() != nil {
		return err
	}

	return c.replaceOnce(ctx, payload)
}

func (c *Client) replaceOnce(ctx context.Context, payload string) error {
	url := fmt.Sprintf("%s/v3/b/%s", c.baseURL, c.binID)

	body, err := json.Marshal(api.BinUpdateRequest{Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(masterKeyHeader, c.masterKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("replace request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Хранилище отвечает 200 или 201 на успешную перезапись
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return newStatusError(resp.StatusCode, respBody)
	}

	return nil
}
