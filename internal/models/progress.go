package models

// Progress holds a user's gamification state as last confirmed by the
// backend: XP, derived level, streak counters, shields, and unlocked badges.
type Progress struct {
	XP            int      `json:"xp"`
	Level         int      `json:"level"`
	CurrentStreak int      `json:"current_streak"`
	LongestStreak int      `json:"longest_streak"`
	Shields       int      `json:"shields"`
	Badges        []string `json:"badges"`

	// LastStreakDay is the day key (YYYY-MM-DD) on which the current streak
	// last advanced. The streak advances at most once per calendar day.
	LastStreakDay string `json:"last_streak_day,omitempty"`
}

// HasBadge reports whether the given badge has been unlocked.
func (p *Progress) HasBadge(name string) bool {
	for _, b := range p.Badges {
		if b == name {
			return true
		}
	}
	return false
}
