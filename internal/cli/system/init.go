// Package system groups the storage lifecycle and maintenance commands.
package system

import (
	"fmt"
	"os"

	"github.com/questhacker/questhacker-cli/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting the existing database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		if dbPath == "postgresql" {
			return fmt.Errorf("--force is not supported for PostgreSQL storage, drop the schema manually")
		}
		if _, err := os.Stat(dbPath); err == nil {
			// Close before deleting to avoid file locking issues
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized questhacker storage at: %s\n", ctx.Store.GetConfigPath())
	fmt.Println("Next: 'qh login' to connect your account.")
	return nil
}
