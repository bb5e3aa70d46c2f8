package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valtools/valtools/internal/models"
)

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	password, err := c.io.ReadPassword("Admin password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	sess, err := c.sessions.AdminLogin(ctx, password)
	if errors.Is(err, models.ErrNotInitialized) {
		return fmt.Errorf("admin is not configured yet. Run 'valtools setup' first")
	}
	if errors.Is(err, models.ErrWrongPassword) {
		return fmt.Errorf("wrong password")
	}
	if err != nil {
		return err
	}
	c.sess = sess

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Println("Your session has been saved.")

	return nil
}

func (c *Cli) runGuardLogin(ctx context.Context) error {
	c.io.Println("=== Steam Guard Login ===")
	c.io.Println()

	password, err := c.io.ReadPassword("Guard admin password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	sess, err := c.sessions.GuardAdminLogin(ctx, password)
	if errors.Is(err, models.ErrNotInitialized) {
		return fmt.Errorf("guard admin is not configured yet. Run 'valtools guard-setup' first")
	}
	if errors.Is(err, models.ErrWrongPassword) {
		return fmt.Errorf("wrong password")
	}
	if err != nil {
		return err
	}
	c.sess = sess

	c.io.Println()
	c.io.Println("✓ Guard login successful!")

	return nil
}

func (c *Cli) runGuestLogin(ctx context.Context, args []string) error {
	var code string
	if len(args) > 0 {
		code = args[0]
	} else {
		input, err := c.io.ReadInput("Voucher code: ")
		if err != nil {
			return fmt.Errorf("failed to read voucher code: %w", err)
		}
		code = input
	}
	if code == "" {
		return fmt.Errorf("voucher code cannot be empty")
	}

	sess, err := c.sessions.GuestLogin(ctx, code)
	if errors.Is(err, models.ErrVoucherInvalid) {
		return fmt.Errorf("voucher code is unknown or expired")
	}
	if err != nil {
		return err
	}
	c.sess = sess

	c.io.Println()
	c.io.Println("✓ Voucher accepted!")
	c.io.Println("You are now logged in as guest.")

	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	if !c.sess.IsAuthenticated() {
		c.io.Println("Not logged in.")
		return nil
	}

	if err := c.sessions.Logout(ctx, c.sess); err != nil {
		return err
	}

	c.io.Println("✓ Logged out.")
	return nil
}

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Status ===")
	c.io.Println()

	switch {
	case c.sess.IsAdmin():
		c.io.Println("Role: admin")
	case c.sess.Role == models.RoleGuest:
		c.io.Println("Role: guest")
	default:
		c.io.Println("Role: anonymous")
		c.io.Println()
		c.io.Println("Run 'valtools login' or 'valtools guest-login' to authenticate.")
	}

	start := time.Now()
	err := c.vault.Load(ctx)
	switch {
	case err != nil:
		c.io.Printf("Storage: unreachable (%v)\n", err)
	case c.vault.Synced():
		c.io.Printf("Storage: reachable (%s)\n", time.Since(start).Round(time.Millisecond))
	default:
		c.io.Println("Storage: offline copy")
	}

	c.io.Printf("Accounts: %d\n", len(c.vault.Accounts()))

	return nil
}
