package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/valtools/valtools/internal/models"
)

// ErrGameNotFound indicates the store has no entry for the app id
var ErrGameNotFound = errors.New("game not found in store")

const (
	defaultStoreURL = "https://store.steampowered.com"
	storeTimeout    = 15 * time.Second
)

// appDetailsEntry - ответ магазина на appdetails для одного app id
type appDetailsEntry struct {
	Success bool `json:"success"`
	Data    struct {
		Name string `json:"name"`
		Type string `json:"type"`
		DLC  []int  `json:"dlc"`
	} `json:"data"`
}

// AppInfoClient запрашивает метаданные игр из магазина Steam
type AppInfoClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewAppInfoClient создает клиент магазина с публичным адресом
func NewAppInfoClient(logger *slog.Logger) *AppInfoClient {
	return NewAppInfoClientWithURL(defaultStoreURL, logger)
}

// NewAppInfoClientWithURL создает клиент с произвольным адресом магазина
func NewAppInfoClientWithURL(baseURL string, logger *slog.Logger) *AppInfoClient {
	return &AppInfoClient{
		httpClient: &http.Client{Timeout: storeTimeout},
		baseURL:    baseURL,
		logger:     logger,
	}
}

// GameInfo возвращает имя, тип и список DLC игры.
// Имена DLC запрашиваются по одному; недоступное имя заменяется
// заглушкой "DLC <id>", как делал исходный клиент.
func (c *AppInfoClient) GameInfo(ctx context.Context, appID int) (*models.GameInfo, error) {
	entry, err := c.fetchEntry(ctx, appID)
	if err != nil {
		return nil, err
	}

	info := &models.GameInfo{
		AppID: appID,
		Name:  entry.Data.Name,
		Type:  entry.Data.Type,
	}

	for _, dlcID := range entry.Data.DLC {
		name := "DLC " + strconv.Itoa(dlcID)
		if dlcEntry, err := c.fetchEntry(ctx, dlcID); err == nil {
			name = dlcEntry.Data.Name
		} else {
			c.logger.Debug("dlc name lookup failed", "dlc_id", dlcID, "error", err)
		}
		info.DLC = append(info.DLC, models.DLCInfo{AppID: dlcID, Name: name})
	}

	return info, nil
}

func (c *AppInfoClient) fetchEntry(ctx context.Context, appID int) (*appDetailsEntry, error) {
	url := fmt.Sprintf("%s/api/appdetails?appids=%d&cc=us&l=en", c.baseURL, appID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("store returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read store response: %w", err)
	}

	// магазин отвечает объектом, ключованным строковым app id
	var payload map[string]appDetailsEntry
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse store response: %w", err)
	}

	entry, ok := payload[strconv.Itoa(appID)]
	if !ok || !entry.Success {
		return nil, fmt.Errorf("%w: app %d", ErrGameNotFound, appID)
	}
	return &entry, nil
}
