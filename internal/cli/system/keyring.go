package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/questhacker/questhacker-cli/internal/cli"
	"github.com/questhacker/questhacker-cli/internal/keyring"
	"github.com/questhacker/questhacker-cli/internal/storage/postgres"
)

// KeyringSetCmd stores a database connection string in the OS keyring so the
// --config flag can be omitted.
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if !strings.HasPrefix(cmd.ConnectionString, "postgres://") &&
		!strings.HasPrefix(cmd.ConnectionString, "postgresql://") &&
		!strings.Contains(cmd.ConnectionString, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			// The keyring is encrypted, so embedded credentials are
			// acceptable here, unlike on the command line.
			fmt.Println("⚠ Connection string contains embedded credentials; it will be stored in the encrypted OS keyring.")
		} else {
			return fmt.Errorf("invalid connection string: %w", err)
		}
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	fmt.Println("✓ Connection string stored in OS keyring")
	return nil
}

// KeyringDeleteCmd removes the stored connection string.
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	fmt.Println("✓ Connection string deleted from OS keyring")
	return nil
}

// KeyringStatusCmd reports what the keyring currently holds.
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if _, err := keyring.GetAuthToken(); err == nil {
		fmt.Println("✓ Auth token stored")
	} else if errors.Is(err, keyring.ErrNotFound) {
		fmt.Println("ℹ No auth token stored (run 'qh login')")
	} else {
		return fmt.Errorf("keyring unavailable: %w", err)
	}

	if _, err := keyring.GetConnectionString(); err == nil {
		fmt.Println("✓ Connection string stored")
	} else if errors.Is(err, keyring.ErrNotFound) {
		fmt.Println("ℹ No connection string stored")
	} else {
		return fmt.Errorf("keyring unavailable: %w", err)
	}
	return nil
}
