package system

import (
	"path/filepath"
	"testing"

	"github.com/questhacker/questhacker-cli/internal/cli"
	"github.com/questhacker/questhacker-cli/internal/notifier"
	"github.com/questhacker/questhacker-cli/internal/storage/sqlite"
)

type recordingSink struct {
	alerts []notifier.Alert
}

func (r *recordingSink) Toast(alert notifier.Alert) {
	r.alerts = append(r.alerts, alert)
}

func newTestContext(t *testing.T) (*cli.Context, *recordingSink) {
	t.Helper()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "questhacker.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	dispatcher := notifier.New(store, func() bool { return false })
	sink := &recordingSink{}
	dispatcher.SetSink(sink)

	return &cli.Context{Store: store, Dispatcher: dispatcher}, sink
}

func TestNotifyDispatchesPushPayload(t *testing.T) {
	ctx, sink := newTestContext(t)

	cmd := &NotifyCmd{Payload: `{"title":"QUEST ALERT","body":"Time to execute: Meditate","habit_id":"h1"}`}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sink.alerts) != 1 {
		t.Fatalf("expected one alert, got %d", len(sink.alerts))
	}
	if sink.alerts[0].Title != "QUEST ALERT" || sink.alerts[0].HabitID != "h1" {
		t.Errorf("unexpected alert: %+v", sink.alerts[0])
	}
}

func TestNotifyNestedPayload(t *testing.T) {
	ctx, sink := newTestContext(t)

	cmd := &NotifyCmd{Payload: `{"notification":{"title":"LEVEL UP","body":"You reached level 3"}}`}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sink.alerts) != 1 {
		t.Fatalf("expected one alert, got %d", len(sink.alerts))
	}
	if sink.alerts[0].Title != "LEVEL UP" {
		t.Errorf("unexpected title %q", sink.alerts[0].Title)
	}
}

func TestNotifyDryRunPayloadDeliversNothing(t *testing.T) {
	ctx, sink := newTestContext(t)

	cmd := &NotifyCmd{Payload: `{"title":"QUEST ALERT"}`, DryRun: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.alerts) != 0 {
		t.Errorf("dry run delivered alerts: %v", sink.alerts)
	}
}

func TestNotifyMalformedPayload(t *testing.T) {
	ctx, _ := newTestContext(t)

	cmd := &NotifyCmd{Payload: `{broken`}
	if err := cmd.Run(ctx); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
