package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/valtools/valtools/internal/client/storage"
	"github.com/valtools/valtools/internal/inject"
	"github.com/valtools/valtools/internal/steam"
)

func parseAppID(arg string) (int, error) {
	appID, err := strconv.Atoi(arg)
	if err != nil || appID <= 0 {
		return 0, fmt.Errorf("invalid app id: %q", arg)
	}
	return appID, nil
}

func (c *Cli) runGameAdd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing app id. Usage: valtools game-add <appid>")
	}
	appID, err := parseAppID(args[0])
	if err != nil {
		return err
	}

	c.io.Printf("Fetching metadata for app %d...\n", appID)

	info, err := c.appInfo.GameInfo(ctx, appID)
	if errors.Is(err, steam.ErrGameNotFound) {
		return fmt.Errorf("app %d was not found in the Steam store", appID)
	}
	if err != nil {
		return err
	}

	c.io.Printf("Found: %s (%d DLC)\n", info.Name, len(info.DLC))
	c.io.Println("Installing unlock script...")

	if err := c.injector.Inject(ctx, info); err != nil {
		if errors.Is(err, inject.ErrNoDepotKeys) {
			return fmt.Errorf("no depot keys are published for app %d yet", appID)
		}
		if errors.Is(err, steam.ErrSteamNotFound) {
			return fmt.Errorf("steam directory not found. Set it with 'valtools steam-path set <path>'")
		}
		return err
	}

	c.io.Println()
	c.io.Printf("✓ %s registered.\n", info.Name)
	c.io.Println("Restart Steam for the change to take effect.")

	return nil
}

func (c *Cli) runGameRemove(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing app id. Usage: valtools game-remove <appid>")
	}
	appID, err := parseAppID(args[0])
	if err != nil {
		return err
	}

	if err := c.injector.Remove(ctx, appID); err != nil {
		if errors.Is(err, steam.ErrSteamNotFound) {
			return fmt.Errorf("steam directory not found. Set it with 'valtools steam-path set <path>'")
		}
		return err
	}

	c.io.Printf("✓ App %d removed.\n", appID)
	c.io.Println("Restart Steam for the change to take effect.")

	return nil
}

func (c *Cli) runGameList(ctx context.Context) error {
	games, err := c.injector.List(ctx)
	if err != nil {
		return err
	}
	if len(games) == 0 {
		c.io.Println("No games registered yet.")
		return nil
	}

	for _, game := range games {
		added := time.UnixMilli(game.Timestamp).Format("2006-01-02")
		c.io.Printf("%d  %s  (%d DLC, added %s)\n", game.AppID, game.Name, game.DLCCount, added)
	}
	c.io.Println()
	c.io.Printf("Total: %d game(s)\n", len(games))

	return nil
}

func (c *Cli) runActivatePlugin(ctx context.Context) error {
	steamPath, err := c.resolver.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("steam directory not found. Set it with 'valtools steam-path set <path>'")
	}
	pluginDir, err := steam.PluginDir(steamPath)
	if err != nil {
		return err
	}

	copied, err := inject.ActivatePlugin(pluginDir, steamPath, c.logger)
	if err != nil {
		return err
	}

	c.io.Printf("✓ Plugin activated: %d file(s) copied into %s\n", copied, steamPath)
	c.io.Println("Overwritten Steam files were backed up with a .backup suffix.")

	return nil
}

func (c *Cli) runSteamPath(ctx context.Context, args []string) error {
	if len(args) > 0 {
		if args[0] != "set" || len(args) < 2 {
			return fmt.Errorf("usage: valtools steam-path [set <path>]")
		}
		return c.setSteamPath(ctx, args[1])
	}

	settings, err := c.settings.GetSettings(ctx)
	if err != nil && !errors.Is(err, storage.ErrSettingsNotFound) {
		return err
	}
	if settings != nil && settings.SteamPath != "" {
		c.io.Printf("Override: %s\n", settings.SteamPath)
	}

	path, err := c.resolver.Resolve(ctx)
	if err != nil {
		c.io.Println("Steam directory not found.")
		c.io.Println("Set it manually with 'valtools steam-path set <path>'.")
		return nil
	}
	c.io.Printf("Resolved: %s\n", path)

	return nil
}

func (c *Cli) setSteamPath(ctx context.Context, path string) error {
	settings, err := c.settings.GetSettings(ctx)
	if errors.Is(err, storage.ErrSettingsNotFound) {
		settings = &storage.Settings{}
	} else if err != nil {
		return err
	}

	settings.SteamPath = path
	if err := c.settings.SaveSettings(ctx, settings); err != nil {
		return err
	}

	c.io.Printf("✓ Steam directory override saved: %s\n", path)

	return nil
}
