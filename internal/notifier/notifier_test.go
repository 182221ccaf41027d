package notifier

import (
	"bytes"
	"testing"
)

type fakeMuter struct {
	muted bool
}

func (f *fakeMuter) IsMuted() (bool, error) {
	return f.muted, nil
}

type recordingSink struct {
	alerts []Alert
}

func (r *recordingSink) Toast(alert Alert) {
	r.alerts = append(r.alerts, alert)
}

func newTestDispatcher(muted bool, granted bool) (*Dispatcher, *bytes.Buffer) {
	var bell bytes.Buffer
	d := New(&fakeMuter{muted: muted}, func() bool { return granted })
	d.bell = &bell
	return d, &bell
}

func TestTriggerAlertMuted(t *testing.T) {
	d, bell := newTestDispatcher(true, true)
	sink := &recordingSink{}
	d.SetSink(sink)

	if err := d.TriggerAlert(Alert{Title: "QUEST ALERT", Body: "Time to execute: Meditate"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.alerts) != 0 {
		t.Errorf("muted alert reached the sink: %v", sink.alerts)
	}
	if bell.Len() != 0 {
		t.Errorf("muted alert rang the bell")
	}
}

func TestTriggerAlertForeground(t *testing.T) {
	d, bell := newTestDispatcher(false, true)
	sink := &recordingSink{}
	d.SetSink(sink)

	alert := Alert{Title: "QUEST ALERT", Body: "Time to execute: Meditate", HabitID: "h1"}
	if err := d.TriggerAlert(alert); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.alerts) != 1 || sink.alerts[0] != alert {
		t.Errorf("expected one in-app alert, got %v", sink.alerts)
	}
	if bell.String() != "\a" {
		t.Errorf("expected terminal bell, got %q", bell.String())
	}
}

func TestTriggerAlertBackgroundWithoutPermission(t *testing.T) {
	// No sink registered and platform alerts not granted: the alert is
	// dropped without error.
	d, _ := newTestDispatcher(false, false)
	if err := d.TriggerAlert(Alert{Title: "QUEST ALERT"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSinkUnregister(t *testing.T) {
	d, _ := newTestDispatcher(false, false)
	sink := &recordingSink{}
	d.SetSink(sink)
	d.SetSink(nil)

	if err := d.TriggerAlert(Alert{Title: "QUEST ALERT"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sink.alerts) != 0 {
		t.Errorf("unregistered sink received an alert")
	}
}

func TestParsePushPayload(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Alert
		wantErr bool
	}{
		{
			name: "flat",
			raw:  `{"title":"QUEST ALERT","body":"Time to execute: Read","habit_id":"h1"}`,
			want: Alert{Title: "QUEST ALERT", Body: "Time to execute: Read", HabitID: "h1"},
		},
		{
			name: "nested",
			raw:  `{"notification":{"title":"LEVEL UP","body":"You reached level 3"}}`,
			want: Alert{Title: "LEVEL UP", Body: "You reached level 3"},
		},
		{
			name: "missing fields",
			raw:  `{}`,
			want: Alert{},
		},
		{
			name:    "malformed",
			raw:     `{not json`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePushPayload([]byte(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
