package progress

import (
	"errors"
	"reflect"
	"testing"

	apperrors "github.com/questhacker/questhacker-cli/internal/errors"
	"github.com/questhacker/questhacker-cli/internal/models"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{250, 3},
		{5000, 51},
		{-10, 1},
	}

	for _, tt := range tests {
		if got := Level(tt.xp); got != tt.want {
			t.Errorf("Level(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestBadgesFor(t *testing.T) {
	tests := []struct {
		name string
		xp   int
		want []string
	}{
		{"fresh account", 0, []string{"Beginner"}},
		{"below novice", 199, []string{"Beginner"}},
		{"novice", 200, []string{"Beginner", "Novice"}},
		{"intermediate", 1000, []string{"Beginner", "Novice", "Intermediate"}},
		{"everything", 6000, []string{"Beginner", "Novice", "Intermediate", "Expert", "Master"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BadgesFor(tt.xp); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BadgesFor(%d) = %v, want %v", tt.xp, got, tt.want)
			}
		})
	}
}

func TestTitleForLevel(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{1, "NEOPHYTE"},
		{4, "NEOPHYTE"},
		{5, "INITIATE"},
		{14, "INITIATE"},
		{15, "SPECIALIST"},
		{29, "SPECIALIST"},
		{30, "COMMANDER"},
		{59, "COMMANDER"},
		{60, "LEGENDARY OVERLORD"},
	}

	for _, tt := range tests {
		if got := TitleForLevel(tt.level); got != tt.want {
			t.Errorf("TitleForLevel(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestApplyCompletion(t *testing.T) {
	p := models.Progress{XP: 90, Level: 1, Badges: []string{"Beginner"}}

	p = ApplyCompletion(p, 20, "2026-03-01")
	if p.XP != 110 {
		t.Errorf("expected XP 110, got %d", p.XP)
	}
	if p.Level != 2 {
		t.Errorf("expected level 2, got %d", p.Level)
	}
	if p.CurrentStreak != 1 || p.LongestStreak != 1 {
		t.Errorf("expected streak 1/1, got %d/%d", p.CurrentStreak, p.LongestStreak)
	}
	if p.LastStreakDay != "2026-03-01" {
		t.Errorf("expected last streak day to advance, got %q", p.LastStreakDay)
	}

	// Second completion on the same day must not advance the streak
	p = ApplyCompletion(p, 20, "2026-03-01")
	if p.CurrentStreak != 1 {
		t.Errorf("streak advanced twice in one day: %d", p.CurrentStreak)
	}
	if p.XP != 130 {
		t.Errorf("expected XP 130, got %d", p.XP)
	}

	// Next day advances the streak again
	p = ApplyCompletion(p, 20, "2026-03-02")
	if p.CurrentStreak != 2 || p.LongestStreak != 2 {
		t.Errorf("expected streak 2/2, got %d/%d", p.CurrentStreak, p.LongestStreak)
	}
}

func TestApplyCompletionUnlocksBadges(t *testing.T) {
	p := models.Progress{XP: 190, Level: 2, Badges: []string{"Beginner"}}
	p = ApplyCompletion(p, 20, "2026-03-01")
	if !p.HasBadge("Novice") {
		t.Errorf("expected Novice badge at %d XP, badges: %v", p.XP, p.Badges)
	}
}

func TestApplyShieldPurchase(t *testing.T) {
	tests := []struct {
		name        string
		progress    models.Progress
		wantErr     bool
		wantXP      int
		wantShields int
	}{
		{
			name:        "affordable",
			progress:    models.Progress{XP: 250, Level: 3, Shields: 0},
			wantXP:      50,
			wantShields: 1,
		},
		{
			name:     "insufficient",
			progress: models.Progress{XP: 150, Level: 2},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ApplyShieldPurchase(tt.progress, 200)
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrInsufficientXP) {
					t.Fatalf("expected ErrInsufficientXP, got %v", err)
				}
				if got.XP != tt.progress.XP || got.Shields != tt.progress.Shields {
					t.Errorf("failed purchase mutated progress: %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.XP != tt.wantXP || got.Shields != tt.wantShields {
				t.Errorf("got XP %d shields %d, want %d/%d", got.XP, got.Shields, tt.wantXP, tt.wantShields)
			}
		})
	}
}

func TestShieldPurchaseKeepsBadges(t *testing.T) {
	p := models.Progress{XP: 210, Level: 3, Badges: []string{"Beginner", "Novice"}}
	got, err := ApplyShieldPurchase(p, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.HasBadge("Novice") {
		t.Errorf("badge removed after XP deduction: %v", got.Badges)
	}
	if got.Level != 1 {
		t.Errorf("expected level recomputed to 1, got %d", got.Level)
	}
}

func TestApplyMissedDay(t *testing.T) {
	withShield := models.Progress{CurrentStreak: 7, LongestStreak: 9, Shields: 2}
	got := ApplyMissedDay(withShield)
	if got.Shields != 1 || got.CurrentStreak != 7 {
		t.Errorf("shield should preserve the streak: %+v", got)
	}

	noShield := models.Progress{CurrentStreak: 7, LongestStreak: 9}
	got = ApplyMissedDay(noShield)
	if got.CurrentStreak != 0 {
		t.Errorf("expected streak reset, got %d", got.CurrentStreak)
	}
	if got.LongestStreak != 9 {
		t.Errorf("longest streak must not change, got %d", got.LongestStreak)
	}
}
