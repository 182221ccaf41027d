// Package push implements the push link commands: opting the device into
// and out of relay-delivered platform alerts.
package push

import (
	"context"
	"errors"
	"fmt"

	"github.com/questhacker/questhacker-cli/internal/cli"
	"github.com/questhacker/questhacker-cli/internal/constants"
	apperrors "github.com/questhacker/questhacker-cli/internal/errors"
	"github.com/questhacker/questhacker-cli/internal/notifier"
	"github.com/questhacker/questhacker-cli/internal/pushlink"
	"github.com/questhacker/questhacker-cli/internal/storage"
)

func newManager(ctx *cli.Context, relayURL string) *pushlink.Manager {
	tray := notifier.NewTrayClient()
	return pushlink.New(ctx.Store, ctx.Client, pushlink.NewRelayClient(relayURL), tray.Available)
}

type EnableCmd struct {
	RelayURL string `help:"Push relay URL." env:"QH_RELAY_URL" default:"${relay_url}"`
}

func (c *EnableCmd) Run(ctx *cli.Context) error {
	m := newManager(ctx, c.RelayURL)

	endpoint, err := m.Enable(context.Background())
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrPermissionDenied):
			return fmt.Errorf("platform alerts unavailable: the tray helper is not running")
		case errors.Is(err, apperrors.ErrTokenRetrieval):
			return fmt.Errorf("could not get a device token from the relay: %w", err)
		default:
			return err
		}
	}

	fmt.Println("✓ Push notifications enabled")
	fmt.Printf("  Device token: %s…\n", truncate(endpoint.Token, 12))
	return nil
}

type DisableCmd struct {
	RelayURL string `help:"Push relay URL." env:"QH_RELAY_URL" default:"${relay_url}"`
}

func (c *DisableCmd) Run(ctx *cli.Context) error {
	m := newManager(ctx, c.RelayURL)

	if err := m.Disable(context.Background()); err != nil {
		if errors.Is(err, apperrors.ErrNotLinked) {
			fmt.Println("Push notifications are not enabled.")
			return nil
		}
		return err
	}

	fmt.Println("✓ Push notifications disabled")
	return nil
}

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	endpoint, err := ctx.Store.GetEndpoint()
	if err != nil {
		if errors.Is(err, storage.ErrNoEndpoint) {
			fmt.Printf("State: %s\n", constants.PushUnlinked)
			return nil
		}
		return err
	}

	fmt.Printf("State: %s\n", constants.PushLinked)
	fmt.Printf("Token: %s…\n", truncate(endpoint.Token, 12))
	fmt.Printf("Registered: %s\n", endpoint.RegisteredAt.Format("2006-01-02 15:04"))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
