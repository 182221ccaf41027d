// Package progress implements the client-side view of the gamification
// ledger: XP, levels, badges, streaks, and shields. All functions are pure;
// the backend remains authoritative and these mirrors exist for immediate
// display between syncs.
package progress

import (
	"github.com/questhacker/questhacker-cli/internal/constants"
	apperrors "github.com/questhacker/questhacker-cli/internal/errors"
	"github.com/questhacker/questhacker-cli/internal/models"
)

// Level derives the level for a given XP total. Levels start at 1 and
// advance every 100 XP, so the mapping never decreases as XP grows.
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/constants.XPPerLevel + 1
}

// BadgesFor returns every badge whose threshold the given XP total has
// reached, in ascending threshold order.
func BadgesFor(xp int) []string {
	var badges []string
	for _, tier := range constants.BadgeTiers {
		if xp >= tier.Threshold {
			badges = append(badges, tier.Name)
		}
	}
	return badges
}

// TitleForLevel maps a level to its display title tier.
func TitleForLevel(level int) string {
	switch {
	case level < 5:
		return "NEOPHYTE"
	case level < 15:
		return "INITIATE"
	case level < 30:
		return "SPECIALIST"
	case level < 60:
		return "COMMANDER"
	default:
		return "LEGENDARY OVERLORD"
	}
}

// unionBadges merges newly unlocked badges into the existing set. Badges are
// never removed; a badge earned at a higher XP total survives later XP
// deductions.
func unionBadges(p models.Progress, xp int) []string {
	merged := append([]string(nil), p.Badges...)
	for _, name := range BadgesFor(xp) {
		if !p.HasBadge(name) {
			merged = append(merged, name)
		}
	}
	return merged
}

// ApplyCompletion folds a recorded completion into the ledger. XP and level
// always advance; the streak advances at most once per calendar day,
// regardless of which habit earned it.
func ApplyCompletion(p models.Progress, xpGain int, dayKey string) models.Progress {
	p.XP += xpGain
	p.Level = Level(p.XP)
	p.Badges = unionBadges(p, p.XP)

	if p.LastStreakDay != dayKey {
		p.CurrentStreak++
		p.LastStreakDay = dayKey
		if p.CurrentStreak > p.LongestStreak {
			p.LongestStreak = p.CurrentStreak
		}
	}

	return p
}

// ApplyShieldPurchase deducts the shield cost and adds one shield. Level is
// recomputed from the reduced XP; already unlocked badges stay.
func ApplyShieldPurchase(p models.Progress, cost int) (models.Progress, error) {
	if p.XP < cost {
		return p, apperrors.ErrInsufficientXP
	}
	p.XP -= cost
	p.Level = Level(p.XP)
	p.Badges = unionBadges(p, p.XP)
	p.Shields++
	return p, nil
}

// ApplyMissedDay resolves a day without any qualifying completion. A shield,
// if held, is consumed to preserve the streak; otherwise the current streak
// resets. The longest streak is a historical high-water mark and never
// changes here.
func ApplyMissedDay(p models.Progress) models.Progress {
	if p.Shields > 0 {
		p.Shields--
		return p
	}
	p.CurrentStreak = 0
	return p
}
