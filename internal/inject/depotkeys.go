package inject

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrLuaNotPublished indicates ManifestHub has no lua branch for the app
var ErrLuaNotPublished = errors.New("lua script not published for app")

const (
	defaultHubURL = "https://raw.githubusercontent.com/SteamAutoCracks/ManifestHub"
	hubTimeout    = 30 * time.Second

	// depotIDWindow - depot считается принадлежащим игре, если его id
	// попадает в [appID, appID+depotIDWindow) или начинается с цифр appID
	depotIDWindow = 100
)

// Depot - пара depot id и ключ дешифровки
type Depot struct {
	ID  string
	Key string
}

// HubClient читает базу depot-ключей и готовые lua-скрипты из ManifestHub.
// База ключей кешируется в памяти процесса после первой загрузки.
type HubClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger

	mu    sync.Mutex
	cache map[string]string
}

// NewHubClient создает клиент с публичным адресом ManifestHub
func NewHubClient(logger *slog.Logger) *HubClient {
	return NewHubClientWithURL(defaultHubURL, logger)
}

// NewHubClientWithURL создает клиент с произвольным адресом
func NewHubClientWithURL(baseURL string, logger *slog.Logger) *HubClient {
	return &HubClient{
		httpClient: &http.Client{Timeout: hubTimeout},
		baseURL:    baseURL,
		logger:     logger,
	}
}

// DepotKeys возвращает базу depot-ключей, загружая ее при первом вызове
func (c *HubClient) DepotKeys(ctx context.Context) (map[string]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cache != nil {
		return c.cache, nil
	}

	body, err := c.get(ctx, c.baseURL+"/main/depotkeys.json")
	if err != nil {
		return nil, fmt.Errorf("failed to load depot keys: %w", err)
	}

	keys := make(map[string]string)
	if err := json.Unmarshal(body, &keys); err != nil {
		return nil, fmt.Errorf("failed to parse depot keys: %w", err)
	}

	c.logger.Info("depot keys loaded", "count", len(keys))
	c.cache = keys
	return keys, nil
}

// AppLua возвращает готовый lua-скрипт из ветки приложения.
// Ответ без addappid считается отсутствием скрипта.
func (c *HubClient) AppLua(ctx context.Context, appID int) (string, error) {
	url := fmt.Sprintf("%s/%d/%d.lua", c.baseURL, appID, appID)

	body, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}

	script := string(body)
	if !strings.Contains(script, "addappid") {
		return "", fmt.Errorf("%w: app %d", ErrLuaNotPublished, appID)
	}
	return script, nil
}

func (c *HubClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hub request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrLuaNotPublished
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hub returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// DepotsForApp выбирает depot-ы игры из базы ключей: по префиксу id
// либо по попаданию в окно id. Результат отсортирован по числовому id.
func DepotsForApp(appID int, keys map[string]string) []Depot {
	prefix := strconv.Itoa(appID)

	var depots []Depot
	for depotID, key := range keys {
		depotInt, err := strconv.Atoi(depotID)
		if err != nil {
			continue
		}
		if strings.HasPrefix(depotID, prefix) ||
			(depotInt >= appID && depotInt < appID+depotIDWindow) {
			depots = append(depots, Depot{ID: depotID, Key: key})
		}
	}

	sort.Slice(depots, func(i, j int) bool {
		a, _ := strconv.Atoi(depots[i].ID)
		b, _ := strconv.Atoi(depots[j].ID)
		return a < b
	})
	return depots
}
