package inject

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valtools/valtools/internal/client/storage"
	"github.com/valtools/valtools/internal/client/storage/boltdb"
	"github.com/valtools/valtools/internal/models"
	"github.com/valtools/valtools/internal/steam"
)

type injectorEnv struct {
	injector  *Injector
	steamDir  string
	pluginDir string
}

// newInjectorEnv собирает injector поверх временного каталога Steam,
// bolt-хранилища и заглушки ManifestHub
func newInjectorEnv(t *testing.T, hubHandler http.HandlerFunc) *injectorEnv {
	t.Helper()
	ctx := context.Background()
	logger := discardLogger()

	server := httptest.NewServer(hubHandler)
	t.Cleanup(server.Close)

	store, err := boltdb.New(ctx, filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	steamDir := t.TempDir()
	require.NoError(t, store.SaveSettings(ctx, &storage.Settings{SteamPath: steamDir}))

	resolver := steam.NewResolver(store, logger)
	hub := NewHubClientWithURL(server.URL, logger)

	return &injectorEnv{
		injector:  NewInjector(hub, resolver, store, logger),
		steamDir:  steamDir,
		pluginDir: filepath.Join(steamDir, "config", "stplug-in"),
	}
}

func publishedLuaHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/440/440.lua":
			fmt.Fprint(w, "addappid(440)\naddappid(441, 0, \"published\")\n")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestInjectPublishedScript(t *testing.T) {
	ctx := context.Background()
	env := newInjectorEnv(t, publishedLuaHandler())

	info := &models.GameInfo{
		AppID: 440,
		Name:  "Team Fortress 2",
		DLC:   []models.DLCInfo{{AppID: 629, Name: "TF2 Soundtrack"}},
	}
	require.NoError(t, env.injector.Inject(ctx, info))

	data, err := os.ReadFile(filepath.Join(env.pluginDir, "440.lua"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `addappid(441, 0, "published")`)

	games, err := env.injector.List(ctx)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, 440, games[0].AppID)
	assert.Equal(t, "Team Fortress 2", games[0].Name)
	assert.Equal(t, 1, games[0].DLCCount)
	assert.NotZero(t, games[0].Timestamp)
}

func TestInjectGeneratedScript(t *testing.T) {
	ctx := context.Background()
	env := newInjectorEnv(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/main/depotkeys.json":
			fmt.Fprint(w, `{"551":"mainkey","629":"dlckey"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	info := &models.GameInfo{
		AppID: 550,
		Name:  "Left 4 Dead 2",
		DLC:   []models.DLCInfo{{AppID: 629, Name: "Extra"}},
	}
	require.NoError(t, env.injector.Inject(ctx, info))

	data, err := os.ReadFile(filepath.Join(env.pluginDir, "550.lua"))
	require.NoError(t, err)
	script := string(data)
	assert.Contains(t, script, "addappid(550)")
	assert.Contains(t, script, `addappid(551, 0, "mainkey")`)
	assert.Contains(t, script, "-- DLC: Extra")
	assert.Contains(t, script, `addappid(629, 0, "dlckey")`)
}

func TestInjectNoKeysAnywhere(t *testing.T) {
	ctx := context.Background()
	env := newInjectorEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/main/depotkeys.json" {
			fmt.Fprint(w, `{}`)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	err := env.injector.Inject(ctx, &models.GameInfo{AppID: 777, Name: "Unknown"})
	assert.ErrorIs(t, err, ErrNoDepotKeys)

	games, listErr := env.injector.List(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, games, "failed inject must not be recorded")
}

func TestInjectReplacesExisting(t *testing.T) {
	ctx := context.Background()
	env := newInjectorEnv(t, publishedLuaHandler())

	info := &models.GameInfo{AppID: 440, Name: "Team Fortress 2"}
	require.NoError(t, env.injector.Inject(ctx, info))
	require.NoError(t, env.injector.Inject(ctx, info))

	games, err := env.injector.List(ctx)
	require.NoError(t, err)
	assert.Len(t, games, 1)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	env := newInjectorEnv(t, publishedLuaHandler())

	require.NoError(t, env.injector.Inject(ctx, &models.GameInfo{AppID: 440, Name: "TF2"}))
	require.NoError(t, env.injector.Remove(ctx, 440))

	_, err := os.Stat(filepath.Join(env.pluginDir, "440.lua"))
	assert.True(t, os.IsNotExist(err))

	games, err := env.injector.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, games)

	// повторное удаление не ошибка
	require.NoError(t, env.injector.Remove(ctx, 440))
}
