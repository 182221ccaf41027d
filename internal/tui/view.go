package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case stateStats:
		content = docStyle.Render(m.viewStats())
	case stateHabits:
		content = docStyle.Render(m.viewHabits())
	case stateAddHabit:
		content = m.form.View()
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewBanner(),
		content,
		m.help.View(m),
	)
	return ui
}

func (m Model) viewTabs() string {
	var tabs []string
	tabTitles := []string{"Stats", "Habits"}
	for i, title := range tabTitles {
		if m.state == sessionState(i) || (m.state == stateAddHabit && i == int(stateHabits)) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if m.muted {
		row = lipgloss.JoinHorizontal(lipgloss.Top, row, mutedStyle.Render("  (muted)"))
	}
	return row
}

// viewBanner stacks transient notices above the content: connectivity
// state first, then any live toasts.
func (m Model) viewBanner() string {
	var lines []string
	if m.onlineKnown && !m.online {
		lines = append(lines, offlineStyle.Render("⚠ BACKEND UNREACHABLE"))
	}
	for _, t := range m.toasts {
		lines = append(lines, toastStyle.Render(fmt.Sprintf("%s: %s", t.alert.Title, t.alert.Body)))
	}
	if m.statusErr != "" {
		lines = append(lines, dangerStyle.Render("error: "+m.statusErr))
	}
	if len(lines) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewStats() string {
	if m.loading {
		return fmt.Sprintf("%s Loading stats...", m.spinner.View())
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.stats.Title))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	row("Level", fmt.Sprintf("%d", m.stats.Level))
	row("XP", fmt.Sprintf("%d", m.stats.XP))
	row("Streak", fmt.Sprintf("%d day(s)", m.stats.CurrentStreak))
	row("Longest streak", fmt.Sprintf("%d day(s)", m.stats.LongestStreak))
	row("Shields", fmt.Sprintf("%d", m.stats.Shields))
	row("Done today", fmt.Sprintf("%d / %d", m.stats.CompletedToday, m.stats.TotalHabits))

	if len(m.stats.Badges) > 0 {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Badges"))
		b.WriteString(badgeStyle.Render(strings.Join(m.stats.Badges, " · ")))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewHabits() string {
	if m.loading {
		return fmt.Sprintf("%s Loading habits...", m.spinner.View())
	}
	if len(m.habits) == 0 {
		return "No habits yet. Press 'a' to add one."
	}

	var b strings.Builder
	for i, habit := range m.habits {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}

		box := "[ ]"
		if m.completed[habit.ID] {
			box = doneStyle.Render("[✓]")
		}

		line := fmt.Sprintf("%s%s %s", cursor, box, habit.Name)

		detail := habit.FormatSchedule()
		if habit.HasAlert() {
			detail += " · " + habit.AlertTime
		}
		line += mutedStyle.Render("  " + detail)

		if i == m.selected {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
