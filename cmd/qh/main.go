package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/questhacker/questhacker-cli/internal/api"
	"github.com/questhacker/questhacker-cli/internal/cli"
	"github.com/questhacker/questhacker-cli/internal/cli/habits"
	"github.com/questhacker/questhacker-cli/internal/cli/push"
	"github.com/questhacker/questhacker-cli/internal/cli/shop"
	"github.com/questhacker/questhacker-cli/internal/cli/system"
	"github.com/questhacker/questhacker-cli/internal/constants"
	"github.com/questhacker/questhacker-cli/internal/keyring"
	"github.com/questhacker/questhacker-cli/internal/logger"
	"github.com/questhacker/questhacker-cli/internal/notifier"
	"github.com/questhacker/questhacker-cli/internal/storage"
	"github.com/questhacker/questhacker-cli/internal/storage/postgres"
	"github.com/questhacker/questhacker-cli/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Storage path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use the OS keyring instead ('qh keyring set')." type:"string" default:"${config_path}"`
	Backend string `help:"Habit backend base URL." env:"QH_BACKEND_URL" default:"${backend_url}"`
	Debug   bool   `help:"Enable debug logging."`

	Init    system.InitCmd    `cmd:"" help:"Initialize questhacker storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Login   cli.LoginCmd      `cmd:"" help:"Log in to the habit backend."`
	Logout  cli.LogoutCmd     `cmd:"" help:"Log out and discard the stored token."`
	Stats   cli.StatsCmd      `cmd:"" help:"Show progress: level, XP, streaks, badges."`
	Habit   struct {
		List     habits.HabitListCmd     `cmd:"" help:"List habits with today's completion state." default:"1"`
		Add      habits.HabitAddCmd      `cmd:"" help:"Add a new habit."`
		Complete habits.HabitCompleteCmd `cmd:"" help:"Mark a habit completed for today."`
		Log      habits.HabitLogCmd      `cmd:"" help:"Show the recorded completion history."`
	} `cmd:"" help:"Manage habits."`
	Shop struct {
		BuyShield shop.BuyShieldCmd `cmd:"" name:"buy-shield" help:"Spend XP on a streak shield."`
	} `cmd:"" help:"Spend earned XP."`
	Push struct {
		Enable  push.EnableCmd  `cmd:"" help:"Link this device for push alerts."`
		Disable push.DisableCmd `cmd:"" help:"Unlink this device from push alerts."`
		Status  push.StatusCmd  `cmd:"" help:"Show the push link state."`
	} `cmd:"" help:"Manage the push alert link."`
	Mute struct {
		On     cli.MuteOnCmd     `cmd:"" help:"Silence all alerts."`
		Off    cli.MuteOffCmd    `cmd:"" help:"Re-enable alerts."`
		Status cli.MuteStatusCmd `cmd:"" help:"Show the mute state." default:"1"`
	} `cmd:"" help:"Control alert muting."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Show what the keyring holds." default:"1"`
	} `cmd:"" help:"Manage keyring-stored secrets."`
	Notify system.NotifyCmd `cmd:"" hidden:"" help:"Deliver a reminder pass or push payload (used internally)."`
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("qh"),
		kong.Description("QuestHacker habit companion: track completions, earn XP, get reminded"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
			"backend_url": constants.DefaultBackendURL,
			"relay_url":   constants.DefaultRelayURL,
		},
	)

	configPath := expandPath(CLI.Config)
	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(configPath),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := selectStore(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	client := api.New(CLI.Backend, keyring.GetAuthToken)

	tray := notifier.NewTrayClient()
	dispatcher := notifier.New(store, func() bool {
		settings, err := store.GetSettings()
		if err != nil || !settings.PlatformAlerts {
			return false
		}
		return tray.Available()
	})

	appCtx := &cli.Context{
		Store:      store,
		Client:     client,
		Dispatcher: dispatcher,
	}

	// Load the store before running the command. Init and migrate manage
	// their own lifecycle, and notify loads lazily so a missing store
	// fails with a useful message instead of a usage error.
	switch strings.Fields(ctx.Command())[0] {
	case "init", "migrate", "doctor", "notify", "keyring":
	default:
		if err := store.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// selectStore picks the storage backend from the config value. A postgres
// URL selects the PostgreSQL store directly; the default path first checks
// the keyring for a stored connection string, then falls back to SQLite.
func selectStore(configPath string) (storage.Provider, error) {
	if strings.HasPrefix(configPath, "postgres://") || strings.HasPrefix(configPath, "postgresql://") {
		if postgres.HasEmbeddedCredentials(configPath) {
			return nil, fmt.Errorf("connection strings with embedded credentials are not allowed on the command line; store the full string in the OS keyring with 'qh keyring set' and use a credential-free URL here")
		}
		return postgres.New(configPath), nil
	}

	if configPath == expandPath(constants.DefaultConfigPath) {
		connStr, err := keyring.GetConnectionString()
		if err == nil && connStr != "" {
			return postgres.New(connStr), nil
		}
		if err != nil && !errors.Is(err, keyring.ErrNotFound) && !errors.Is(err, keyring.ErrKeyringUnavailable) {
			logger.Warn("keyring lookup failed, using sqlite", "error", err)
		}
	}

	return sqlite.NewStore(configPath), nil
}
