// Package shop implements XP-spending commands against the backend shop.
package shop

import (
	"context"
	"errors"
	"fmt"

	"github.com/questhacker/questhacker-cli/internal/cli"
	"github.com/questhacker/questhacker-cli/internal/constants"
	apperrors "github.com/questhacker/questhacker-cli/internal/errors"
)

// BuyShieldCmd purchases a streak shield. The backend deducts the XP and is
// authoritative; the command just renders the outcome.
type BuyShieldCmd struct{}

func (c *BuyShieldCmd) Run(ctx *cli.Context) error {
	result, err := ctx.Client.BuyShield(context.Background())
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientXP) {
			return fmt.Errorf("a shield costs %d XP and you don't have enough", constants.ShieldCost)
		}
		return fmt.Errorf("shield purchase failed: %w", err)
	}

	fmt.Printf("✓ Shield secured. XP remaining: %d\n", result.NewXP)
	if result.Shields > 0 {
		fmt.Printf("  Shields held: %d\n", result.Shields)
	}
	return nil
}
