package habits

import (
	"testing"

	"github.com/questhacker/questhacker-cli/internal/constants"
	"github.com/questhacker/questhacker-cli/internal/models"
)

func TestResolveHabit(t *testing.T) {
	habits := []models.Habit{
		{ID: "id-1", Name: "Meditate", Schedule: models.Schedule{Type: constants.ScheduleDaily}},
		{ID: "id-2", Name: "Read", Schedule: models.Schedule{Type: constants.ScheduleDaily}},
		{ID: "id-3", Name: "read", Schedule: models.Schedule{Type: constants.ScheduleDaily}},
	}

	tests := []struct {
		name    string
		query   string
		wantID  string
		wantErr bool
	}{
		{"by id", "id-1", "id-1", false},
		{"by name case-insensitive", "meditate", "id-1", false},
		{"ambiguous name", "read", "", true},
		{"unknown", "sleep", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveHabit(habits, tt.query)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("resolved %s, want %s", got.ID, tt.wantID)
			}
		})
	}
}
