package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/questhacker/questhacker-cli/internal/cli"
	"github.com/questhacker/questhacker-cli/internal/keyring"
	"github.com/questhacker/questhacker-cli/internal/notifier"
	"github.com/questhacker/questhacker-cli/internal/utils"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	storeReachable := false

	// Check 1: local store reachable
	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ Local storage: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Local storage: OK\n")
		storeReachable = true
		defer ctx.Store.Close()
	}

	// Check 2: settings readable and timezone valid
	if storeReachable {
		if err := checkSettings(ctx); err != nil {
			fmt.Printf("❌ Settings: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Settings: OK\n")
		}
	} else {
		fmt.Printf("⊘ Settings: SKIPPED (storage not reachable)\n")
	}

	// Check 3: auth token present
	if _, err := keyring.GetAuthToken(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			fmt.Printf("⚠ Auth token: WARNING\n")
			fmt.Printf("   Not logged in. Run 'qh login'.\n")
		} else {
			fmt.Printf("❌ Auth token: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	} else {
		fmt.Printf("✓ Auth token: OK\n")
	}

	// Check 4: backend reachable
	reachCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if ctx.Client.Reachable(reachCtx) {
		fmt.Printf("✓ Backend reachable: OK (%s)\n", ctx.Client.BaseURL())
	} else {
		fmt.Printf("⚠ Backend reachable: WARNING\n")
		fmt.Printf("   No answer from %s\n", ctx.Client.BaseURL())
	}

	// Check 5: tray helper for platform alerts
	tray := notifier.NewTrayClient()
	if tray.Available() {
		fmt.Printf("✓ Tray helper: OK\n")
	} else {
		fmt.Printf("⚠ Tray helper: WARNING\n")
		fmt.Printf("   Not running. Platform alerts will not be shown.\n")
	}

	// Check 6: clock sanity
	if err := checkClock(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if _, err := utils.LoadLocation(settings.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", settings.Timezone, err)
	}
	if settings.PollIntervalSec <= 0 {
		return fmt.Errorf("poll interval must be positive, got %d", settings.PollIntervalSec)
	}
	return nil
}

func checkClock() error {
	now := time.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	return nil
}
