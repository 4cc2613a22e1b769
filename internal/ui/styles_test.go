package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/josephgoksu/TaskQuest/internal/task"
)

func TestStyles(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI256)
	defer lipgloss.SetColorProfile(termenv.Ascii)

	out := StyleXP.Render("+10 XP")
	assert.Contains(t, out, "+10 XP")
	assert.NotEqual(t, "+10 XP", out, "style should add ANSI codes when forced")

	icon := Icon("X", StyleError)
	assert.Contains(t, icon, "X")
	assert.NotEqual(t, "X", icon)
}

func TestPriorityStyle_Distinct(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI256)
	defer lipgloss.SetColorProfile(termenv.Ascii)

	seen := map[string]bool{}
	for _, p := range []task.Priority{task.PriorityLow, task.PriorityMedium, task.PriorityHigh, task.PriorityCritical} {
		seen[PriorityStyle(p).Render("p")] = true
	}
	assert.Len(t, seen, 4)
}

func TestHorizonIcon(t *testing.T) {
	assert.NotEqual(t, HorizonIcon(task.HorizonDaily), HorizonIcon(task.HorizonYearly))
	assert.Equal(t, HorizonIcon(task.HorizonDaily), HorizonIcon("unknown"))
}
