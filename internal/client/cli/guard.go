package cli

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"time"

	"github.com/valtools/valtools/internal/models"
)

const defaultVoucherDays = 7

func (c *Cli) runGuardAdd(ctx context.Context) error {
	if !c.sess.IsAdmin() || c.sess.MasterKey == "" {
		return models.ErrPermissionDenied
	}

	c.io.Println("=== Add Guard Account ===")
	c.io.Println()

	name, err := c.io.ReadInput("Account name: ")
	if err != nil {
		return fmt.Errorf("failed to read name: %w", err)
	}
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	email, err := c.io.ReadInput("Mail address (receives Steam Guard codes): ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	password, err := c.io.ReadPassword("Mail password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if err := c.guard.SaveAccount(ctx, c.sess, name, email, password); err != nil {
		return err
	}

	c.io.Println()
	c.io.Printf("✓ Guard account %q saved.\n", name)

	return nil
}

func (c *Cli) runGuardList(ctx context.Context) error {
	if !c.sess.IsAuthenticated() || c.sess.MasterKey == "" {
		return fmt.Errorf("%w: run 'valtools guard-login' or 'valtools guest-login' first", models.ErrPermissionDenied)
	}

	if err := c.guard.Load(ctx); err != nil {
		return err
	}

	accounts, err := c.guard.Accounts(c.sess.MasterKey)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		c.io.Println("No guard accounts saved yet.")
		return nil
	}

	names := make([]string, 0, len(accounts))
	for name := range accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		acc := accounts[name]
		c.io.Printf("%s\n", name)
		c.io.Printf("  Mail:   %s\n", acc.Email)
		c.io.Printf("  Server: %s\n", acc.Server)
	}
	c.io.Println()
	c.io.Printf("Total: %d account(s)\n", len(accounts))

	return nil
}

func (c *Cli) runGuardDelete(ctx context.Context, args []string) error {
	if !c.sess.IsAdmin() || c.sess.MasterKey == "" {
		return models.ErrPermissionDenied
	}
	if len(args) == 0 {
		return fmt.Errorf("missing name. Usage: valtools guard-delete <name>")
	}
	name := args[0]

	if err := c.guard.DeleteAccount(ctx, c.sess, name); err != nil {
		return err
	}

	c.io.Printf("✓ Guard account %q deleted.\n", name)

	return nil
}

func (c *Cli) runVoucher(ctx context.Context, args []string) error {
	if !c.sess.IsAdmin() {
		return models.ErrPermissionDenied
	}

	fs := flag.NewFlagSet("voucher", flag.ContinueOnError)
	days := fs.Int("days", defaultVoucherDays, "voucher validity in days")
	if err := fs.Parse(args); err != nil {
		return err
	}

	voucher, err := c.guard.CreateVoucher(ctx, c.sess, *days)
	if err != nil {
		return err
	}

	c.io.Println("✓ Voucher issued!")
	c.io.Printf("Code:    %s\n", voucher.Code)
	c.io.Printf("Expires: %s\n", voucher.Expiry.Format(time.RFC3339))
	c.io.Println()
	c.io.Println("Share this code to grant guest access until it expires.")

	return nil
}
