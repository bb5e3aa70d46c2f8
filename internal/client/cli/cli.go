package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/valtools/valtools/internal/client/guard"
	"github.com/valtools/valtools/internal/client/iocli"
	"github.com/valtools/valtools/internal/client/session"
	"github.com/valtools/valtools/internal/client/storage"
	"github.com/valtools/valtools/internal/client/vault"
	"github.com/valtools/valtools/internal/inject"
	"github.com/valtools/valtools/internal/models"
	"github.com/valtools/valtools/internal/steam"
)

// Cli связывает команды терминального клиента с сервисами.
// Сессия восстанавливается в начале Run и живет до конца процесса.
type Cli struct {
	io       iocli.IO
	vault    *vault.Service
	guard    *guard.Service
	sessions *session.Manager
	injector *inject.Injector
	appInfo  *steam.AppInfoClient
	resolver *steam.Resolver
	runner   *inject.Runner
	settings storage.SettingsStorage
	logger   *slog.Logger
	sess     *models.Session
}

func New(
	io iocli.IO,
	vaultService *vault.Service,
	guardService *guard.Service,
	sessions *session.Manager,
	injector *inject.Injector,
	appInfo *steam.AppInfoClient,
	resolver *steam.Resolver,
	runner *inject.Runner,
	settings storage.SettingsStorage,
	logger *slog.Logger,
) *Cli {
	return &Cli{
		io:       io,
		vault:    vaultService,
		guard:    guardService,
		sessions: sessions,
		injector: injector,
		appInfo:  appInfo,
		resolver: resolver,
		runner:   runner,
		settings: settings,
		logger:   logger,
		sess:     models.NewSession(),
	}
}

// Run восстанавливает сессию и выполняет одну команду.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	c.sess = c.sessions.Restore(ctx)

	switch command {
	case "setup":
		return c.runSetup(ctx)
	case "login":
		return c.runLogin(ctx)
	case "guest-login":
		return c.runGuestLogin(ctx, args)
	case "guard-login":
		return c.runGuardLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "list":
		return c.runList(ctx)
	case "get":
		return c.runGet(ctx, args)
	case "add":
		return c.runAdd(ctx)
	case "edit":
		return c.runEdit(ctx, args)
	case "delete":
		return c.runDelete(ctx, args)
	case "guard-setup":
		return c.runGuardSetup(ctx)
	case "guard-add":
		return c.runGuardAdd(ctx)
	case "guard-list":
		return c.runGuardList(ctx)
	case "guard-delete":
		return c.runGuardDelete(ctx, args)
	case "voucher":
		return c.runVoucher(ctx, args)
	case "game-add":
		return c.runGameAdd(ctx, args)
	case "game-remove":
		return c.runGameRemove(ctx, args)
	case "game-list":
		return c.runGameList(ctx)
	case "activate-plugin":
		return c.runActivatePlugin(ctx)
	case "steam-path":
		return c.runSteamPath(ctx, args)
	case "inject":
		return c.runInject(ctx, args)
	default:
		c.PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (c *Cli) PrintUsage() {
	c.io.Println("ValTools Client")
	c.io.Println()
	c.io.Println("Usage:")
	c.io.Println("  valtools [OPTIONS] COMMAND")
	c.io.Println()
	c.io.Println("Options:")
	c.io.Println("  --version            Show version information")
	c.io.Println("  --api URL            Storage API base URL")
	c.io.Println("  --db PATH            Path to local database (default: valtools-client.db)")
	c.io.Println("  --log-level LEVEL    Log level: debug, info, warn, error (default: warn)")
	c.io.Println()
	c.io.Println("Session commands:")
	c.io.Println("  setup                First-run admin password setup")
	c.io.Println("  login                Login as admin")
	c.io.Println("  guest-login [CODE]   Redeem a voucher code for guest access")
	c.io.Println("  guard-login          Login to the Steam Guard sub-vault as admin")
	c.io.Println("  logout               Drop the saved session")
	c.io.Println("  status               Show session role and sync state")
	c.io.Println()
	c.io.Println("Account commands:")
	c.io.Println("  list                 List saved accounts grouped by category")
	c.io.Println("  get <alias>          Show full account details")
	c.io.Println("  add                  Add a new account (admin)")
	c.io.Println("  edit <alias>         Edit an account (admin)")
	c.io.Println("  delete <alias>       Delete an account (admin)")
	c.io.Println()
	c.io.Println("Steam Guard commands:")
	c.io.Println("  guard-setup          First-run Guard admin password setup")
	c.io.Println("  guard-add            Add a Guard mail account (guard admin)")
	c.io.Println("  guard-list           List Guard mail accounts")
	c.io.Println("  guard-delete <name>  Delete a Guard mail account (guard admin)")
	c.io.Println("  voucher [-days N]    Issue a guest voucher code (guard admin)")
	c.io.Println()
	c.io.Println("Steam commands:")
	c.io.Println("  game-add <appid>     Register a game: generate and install its unlock script")
	c.io.Println("  game-remove <appid>  Remove a registered game")
	c.io.Println("  game-list            List registered games")
	c.io.Println("  activate-plugin      Copy plugin files into the Steam directory")
	c.io.Println("  steam-path [set P]   Show or override the Steam directory")
	c.io.Println("  inject <alias>       Log a saved account into the Steam client")
	c.io.Println()
	c.io.Println("Examples:")
	c.io.Println("  valtools setup")
	c.io.Println("  valtools add")
	c.io.Println("  valtools guest-login GEZDGNBVGY3TQOJQGEZDGNBVGY")
	c.io.Println("  valtools game-add 730")
	c.io.Println("  valtools inject my-cs2-account")
}
