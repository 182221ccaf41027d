package system

import (
	"fmt"
	"os"

	"github.com/questhacker/questhacker-cli/internal/cli"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	// Loading refuses to open a store that is behind on migrations, so this
	// command goes through Init, which applies any pending migrations and is
	// safe to run on an existing database.
	dbPath := ctx.Store.GetConfigPath()
	if dbPath != "postgresql" {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'qh init' first")
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	defer ctx.Store.Close()

	fmt.Println("Database is up to date.")
	return nil
}
