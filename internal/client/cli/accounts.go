package cli

import (
	"context"
	"flag"
	"fmt"
	"sort"

	"github.com/valtools/valtools/internal/client/vault"
	"github.com/valtools/valtools/internal/models"
	"github.com/valtools/valtools/internal/validation"
)

func (c *Cli) runList(ctx context.Context) error {
	if err := c.vault.Load(ctx); err != nil {
		return err
	}

	grouped := c.vault.ListByCategory()
	if len(grouped) == 0 {
		c.io.Println("No accounts saved yet.")
		return nil
	}

	categories := make([]string, 0, len(grouped))
	for category := range grouped {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		c.io.Printf("%s:\n", category)
		for _, alias := range grouped[category] {
			c.io.Printf("  %s\n", alias)
		}
	}
	c.io.Println()
	c.io.Printf("Total: %d account(s)\n", len(c.vault.Accounts()))

	return nil
}

func (c *Cli) runGet(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing alias. Usage: valtools get <alias>")
	}
	alias := args[0]

	if !c.sess.IsAuthenticated() {
		return models.ErrPermissionDenied
	}

	if err := c.vault.Load(ctx); err != nil {
		return err
	}

	acc, ok := c.vault.Get(alias)
	if !ok {
		return fmt.Errorf("%w: %q", models.ErrAccountNotFound, alias)
	}

	c.io.Printf("Alias:    %s\n", alias)
	c.io.Printf("Username: %s\n", acc.Username)
	c.io.Printf("Password: %s\n", acc.Password)
	c.io.Printf("Category: %s\n", acc.Category)

	return nil
}

func (c *Cli) runAdd(ctx context.Context) error {
	if !c.sess.IsAdmin() {
		return models.ErrPermissionDenied
	}

	c.io.Println("=== Add Account ===")
	c.io.Println()

	alias, err := c.io.ReadInput("Alias (e.g., 'main smurf'): ")
	if err != nil {
		return fmt.Errorf("failed to read alias: %w", err)
	}
	if err := validation.ValidateAlias(alias); err != nil {
		return fmt.Errorf("invalid alias: %w", err)
	}

	username, err := c.io.ReadInput("Steam username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	password, err := c.io.ReadPassword("Steam password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	category, err := c.io.ReadInput("Category (empty for " + models.DefaultCategory + "): ")
	if err != nil {
		return fmt.Errorf("failed to read category: %w", err)
	}

	if err := c.vault.Load(ctx); err != nil {
		return err
	}
	if err := c.vault.AddAccount(c.sess, alias, username, password, category); err != nil {
		return err
	}
	if err := c.vault.Persist(ctx, c.sess); err != nil {
		return fmt.Errorf("account was not saved to remote storage: %w", err)
	}

	c.io.Println()
	c.io.Printf("✓ Account %q saved.\n", alias)

	return nil
}

func (c *Cli) runEdit(ctx context.Context, args []string) error {
	if !c.sess.IsAdmin() {
		return models.ErrPermissionDenied
	}

	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	username := fs.String("username", "", "new Steam username")
	password := fs.String("password", "", "new Steam password")
	category := fs.String("category", "", "new category")
	rename := fs.String("rename", "", "new alias")

	if len(args) == 0 {
		return fmt.Errorf("missing alias. Usage: valtools edit <alias> [-username U] [-password P] [-category C] [-rename A]")
	}
	alias := args[0]
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	opts := vault.EditOptions{}
	changed := false
	fs.Visit(func(f *flag.Flag) {
		changed = true
		switch f.Name {
		case "username":
			opts.Username = username
		case "password":
			opts.Password = password
		case "category":
			opts.Category = category
		case "rename":
			opts.Alias = rename
		}
	})
	if !changed {
		return fmt.Errorf("nothing to change: pass at least one of -username, -password, -category, -rename")
	}
	if opts.Alias != nil {
		if err := validation.ValidateAlias(*opts.Alias); err != nil {
			return fmt.Errorf("invalid new alias: %w", err)
		}
	}

	if err := c.vault.Load(ctx); err != nil {
		return err
	}
	if err := c.vault.EditAccount(c.sess, alias, opts); err != nil {
		return err
	}
	if err := c.vault.Persist(ctx, c.sess); err != nil {
		return fmt.Errorf("changes were not saved to remote storage: %w", err)
	}

	c.io.Printf("✓ Account %q updated.\n", alias)

	return nil
}

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	if !c.sess.IsAdmin() {
		return models.ErrPermissionDenied
	}
	if len(args) == 0 {
		return fmt.Errorf("missing alias. Usage: valtools delete <alias>")
	}
	alias := args[0]

	if err := c.vault.Load(ctx); err != nil {
		return err
	}
	if err := c.vault.DeleteAccount(c.sess, alias); err != nil {
		return err
	}
	if err := c.vault.Persist(ctx, c.sess); err != nil {
		return fmt.Errorf("deletion was not saved to remote storage: %w", err)
	}

	c.io.Printf("✓ Account %q deleted.\n", alias)

	return nil
}
