package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/josephgoksu/TaskQuest/internal/task"
)

var (
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange
	ColorText      = lipgloss.Color("252")
	ColorCyan      = lipgloss.Color("87")
	ColorGold      = lipgloss.Color("220") // XP and badges

	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)
	StyleXP      = lipgloss.NewStyle().Foreground(ColorGold).Bold(true)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	StyleSectionTitle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				Underline(true)
)

// PriorityStyle colours a priority label.
func PriorityStyle(p task.Priority) lipgloss.Style {
	switch p {
	case task.PriorityCritical:
		return StyleError.Bold(true)
	case task.PriorityHigh:
		return StyleWarning
	case task.PriorityMedium:
		return lipgloss.NewStyle().Foreground(ColorCyan)
	default:
		return StyleSubtle
	}
}

// HorizonIcon is the glyph shown next to a horizon.
func HorizonIcon(h task.Horizon) string {
	switch h {
	case task.HorizonMonthly:
		return "🗓"
	case task.HorizonYearly:
		return "🏔"
	default:
		return "☀"
	}
}

// Icon returns a styled icon string
func Icon(icon string, style lipgloss.Style) string {
	return style.Render(icon)
}
