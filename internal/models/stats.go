package models

// Stats is the backend's aggregated progress snapshot for the current user.
// Title is derived server-side from level; the client renders it verbatim.
type Stats struct {
	XP             int      `json:"xp"`
	Level          int      `json:"level"`
	TotalPoints    int      `json:"total_points"`
	CurrentStreak  int      `json:"current_streak"`
	LongestStreak  int      `json:"longest_streak"`
	Badges         []string `json:"badges"`
	Shields        int      `json:"shields"`
	Title          string   `json:"title"`
	TotalHabits    int      `json:"total_habits"`
	CompletedToday int      `json:"completed_today"`
}

// Progress converts the snapshot into the ledger's progress shape.
func (s *Stats) Progress() Progress {
	return Progress{
		XP:            s.XP,
		Level:         s.Level,
		CurrentStreak: s.CurrentStreak,
		LongestStreak: s.LongestStreak,
		Shields:       s.Shields,
		Badges:        s.Badges,
	}
}
