// Package notifier delivers alerts across the client's channels: a
// best-effort terminal bell, an in-app toast sink while the dashboard is
// open, and the tray helper's webhook for platform alerts while it is not.
package notifier

import (
	"io"
	"os"
	"sync"

	"github.com/questhacker/questhacker-cli/internal/logger"
)

// Alert is one logical notification.
type Alert struct {
	Title   string
	Body    string
	HabitID string
}

// Sink receives in-app alerts. The dashboard TUI registers itself as the
// sink for the duration of its run.
type Sink interface {
	Toast(alert Alert)
}

// MuteChecker reports the global mute flag.
type MuteChecker interface {
	IsMuted() (bool, error)
}

type Dispatcher struct {
	mu   sync.Mutex
	sink Sink

	muter           MuteChecker
	platformGranted func() bool
	bell            io.Writer
	tray            *TrayClient
}

// New builds a dispatcher. platformGranted reports whether the user opted
// into platform alerts via push enable; it is consulted per alert so a flag
// flip takes effect immediately.
func New(muter MuteChecker, platformGranted func() bool) *Dispatcher {
	return &Dispatcher{
		muter:           muter,
		platformGranted: platformGranted,
		bell:            os.Stdout,
		tray:            NewTrayClient(),
	}
}

// SetSink registers (or, with nil, clears) the in-app sink. While a sink is
// registered the application counts as foregrounded.
func (d *Dispatcher) SetSink(sink Sink) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sink = sink
}

func (d *Dispatcher) currentSink() Sink {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sink
}

// TriggerAlert runs the full delivery decision for one alert. Mute wins over
// everything. Audio is best effort and never fatal. Exactly one visible
// channel fires: the in-app sink while foregrounded, the platform channel
// otherwise (and only if permission was granted).
func (d *Dispatcher) TriggerAlert(alert Alert) error {
	muted, err := d.muter.IsMuted()
	if err != nil {
		logger.Warn("Failed to read mute flag, treating as unmuted", "error", err)
	}
	if muted {
		logger.Debug("Alert suppressed by mute flag", "title", alert.Title, "habitID", alert.HabitID)
		return nil
	}

	if _, err := d.bell.Write([]byte("\a")); err != nil {
		logger.Warn("AudioBlocked: terminal bell failed", "error", err)
	}

	if sink := d.currentSink(); sink != nil {
		sink.Toast(alert)
		return nil
	}

	if d.platformGranted != nil && d.platformGranted() {
		if err := d.tray.Send(alert); err != nil {
			return err
		}
		return nil
	}

	logger.Debug("Alert dropped: no foreground sink and platform alerts not granted",
		"title", alert.Title, "habitID", alert.HabitID)
	return nil
}
