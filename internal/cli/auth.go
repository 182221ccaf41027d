package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/questhacker/questhacker-cli/internal/keyring"
)

// LoginCmd exchanges credentials for a bearer token and stores it in the OS
// keyring.
type LoginCmd struct {
	Email    string `help:"Account email." short:"e"`
	Password string `help:"Account password. Prompted interactively when omitted."`
}

func (c *LoginCmd) Run(ctx *Context) error {
	email := c.Email
	password := c.Password

	if email == "" || password == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Email").
					Value(&email).
					Validate(func(s string) error {
						if !strings.Contains(s, "@") {
							return fmt.Errorf("enter a valid email address")
						}
						return nil
					}),
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&password).
					Validate(func(s string) error {
						if s == "" {
							return fmt.Errorf("password cannot be empty")
						}
						return nil
					}),
			),
		).WithTheme(huh.ThemeDracula())
		if err := form.Run(); err != nil {
			return err
		}
	}

	result, err := ctx.Client.Login(context.Background(), email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := keyring.SetAuthToken(result.Token); err != nil {
		return fmt.Errorf("failed to store auth token in keyring: %w", err)
	}

	name := result.User.Username
	if name == "" {
		name = email
	}
	fmt.Printf("✓ Logged in as %s\n", name)
	return nil
}

// LogoutCmd removes the stored bearer token.
type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *Context) error {
	if err := keyring.DeleteAuthToken(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			fmt.Println("Not logged in.")
			return nil
		}
		return fmt.Errorf("failed to clear auth token: %w", err)
	}
	fmt.Println("✓ Logged out")
	return nil
}
