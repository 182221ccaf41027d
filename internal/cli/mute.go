package cli

import "fmt"

// MuteOnCmd sets the global mute flag. While muted no alert channel fires,
// audio included.
type MuteOnCmd struct{}

func (c *MuteOnCmd) Run(ctx *Context) error {
	if err := ctx.Store.SetMuted(true); err != nil {
		return err
	}
	fmt.Println("✓ Alerts muted")
	return nil
}

// MuteOffCmd clears the global mute flag.
type MuteOffCmd struct{}

func (c *MuteOffCmd) Run(ctx *Context) error {
	if err := ctx.Store.SetMuted(false); err != nil {
		return err
	}
	fmt.Println("✓ Alerts unmuted")
	return nil
}

// MuteStatusCmd prints the current mute state.
type MuteStatusCmd struct{}

func (c *MuteStatusCmd) Run(ctx *Context) error {
	muted, err := ctx.Store.IsMuted()
	if err != nil {
		return err
	}
	if muted {
		fmt.Println("Alerts are muted.")
	} else {
		fmt.Println("Alerts are on.")
	}
	return nil
}
