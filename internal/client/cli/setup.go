package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/valtools/valtools/internal/models"
	"github.com/valtools/valtools/internal/validation"
)

func (c *Cli) runSetup(ctx context.Context) error {
	c.io.Println("=== Initial Setup ===")
	c.io.Println()

	password, err := c.io.ReadPassword("Admin password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if err := validation.ValidateAdminPassword(password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	sess, err := c.sessions.SetupAdmin(ctx, password)
	if errors.Is(err, models.ErrAlreadyInitialized) {
		return fmt.Errorf("admin is already configured. Run 'valtools login' instead")
	}
	if err != nil {
		return err
	}
	c.sess = sess

	c.io.Println()
	c.io.Println("✓ Setup complete!")
	c.io.Println("You are now logged in as admin.")

	return nil
}

func (c *Cli) runGuardSetup(ctx context.Context) error {
	c.io.Println("=== Steam Guard Setup ===")
	c.io.Println()

	password, err := c.io.ReadPassword("Guard admin password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if err := validation.ValidateAdminPassword(password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	confirm, err := c.io.ReadPassword("Confirm password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	if _, err := c.guard.SetupAdmin(ctx, password); err != nil {
		if errors.Is(err, models.ErrAlreadyInitialized) {
			return fmt.Errorf("guard admin is already configured. Run 'valtools guard-login' instead")
		}
		return err
	}

	// Сразу открываем guard-сессию под только что заданным паролем
	sess, err := c.sessions.GuardAdminLogin(ctx, password)
	if err != nil {
		return err
	}
	c.sess = sess

	c.io.Println()
	c.io.Println("✓ Steam Guard setup complete!")
	c.io.Println("You are now logged in as guard admin.")

	return nil
}
