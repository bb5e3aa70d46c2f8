package cli

import (
	"context"
	"fmt"

	"github.com/valtools/valtools/internal/models"
)

func (c *Cli) runInject(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing alias. Usage: valtools inject <alias>")
	}
	alias := args[0]

	if !c.sess.IsAuthenticated() {
		return fmt.Errorf("%w: login first to use saved accounts", models.ErrPermissionDenied)
	}

	if err := c.vault.Load(ctx); err != nil {
		return err
	}
	acc, ok := c.vault.Get(alias)
	if !ok {
		return fmt.Errorf("%w: %q", models.ErrAccountNotFound, alias)
	}

	steamPath, err := c.resolver.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("steam directory not found. Set it with 'valtools steam-path set <path>'")
	}

	c.io.Printf("Logging %q into Steam...\n", alias)

	err = c.runner.Run(ctx, acc.Username, acc.Password, steamPath, func(event models.StatusEvent) {
		if event.Message != "" {
			c.io.Printf("  [%s] %s\n", event.Step, event.Message)
			return
		}
		c.io.Printf("  [%s]\n", event.Step)
	})
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Done. Steam is logging in.")

	return nil
}
