package mcp

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/josephgoksu/TaskQuest/internal/gamification"
	"github.com/josephgoksu/TaskQuest/internal/planner"
	"github.com/josephgoksu/TaskQuest/internal/store"
	"github.com/josephgoksu/TaskQuest/internal/task"
)

var titleCase = cases.Title(language.English)

// FormatTasks renders tasks as a compact Markdown list.
func FormatTasks(heading string, tasks []task.Task, today string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s (%d)\n", heading, len(tasks))
	if len(tasks) == 0 {
		sb.WriteString("No tasks.\n")
		return sb.String()
	}
	for _, t := range tasks {
		box := " "
		if t.IsCompleted {
			box = "x"
		}
		fmt.Fprintf(&sb, "- [%s] **%s** `%s` %s/%s, %d XP", box, t.Title, t.ID, titleCase.String(string(t.Priority)), t.Horizon, t.XPValue)
		if t.DueDate != "" {
			fmt.Fprintf(&sb, ", due %s", t.DueDate)
			if t.IsRolledOver(today) {
				sb.WriteString(" (overdue)")
			}
		}
		if t.Category != "" {
			fmt.Fprintf(&sb, ", #%s", t.Category)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatToggle reports a completion or reopen and everything it triggered.
func FormatToggle(res store.ToggleResult, p gamification.Profile) string {
	var sb strings.Builder
	if !res.Completed {
		fmt.Fprintf(&sb, "Reopened **%s**. XP is now %d (level %d).\n", res.Task.Title, p.XP, p.Level)
		return sb.String()
	}
	fmt.Fprintf(&sb, "Completed **%s** for +%d XP.\n", res.Task.Title, res.Outcome.XPAwarded)
	fmt.Fprintf(&sb, "- Level %d, %d/%d XP\n- Streak %d days\n", p.Level, p.XP, p.XPToNextLevel, p.CurrentStreak)
	for i, n := range res.Outcome.Notifications {
		if i == 0 {
			continue // the XP notice, already reported above
		}
		fmt.Fprintf(&sb, "- %s %s: %s\n", n.Icon, n.Title, n.Message)
	}
	return sb.String()
}

// FormatPlan renders the daily plan.
func FormatPlan(plan planner.Plan) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Plan for %s\nTarget %d tasks, %d planned, %d minutes.\n\n", plan.Date, plan.Target, len(plan.Items), plan.TotalMinutes)
	for i, it := range plan.Items {
		fmt.Fprintf(&sb, "%d. **%s** `%s` (%s, %d min): %s\n", i+1, it.Title, it.TaskID, it.Priority, it.EstimatedMinutes, it.Reason)
	}
	fmt.Fprintf(&sb, "\n> %s\n", plan.Advice)
	return sb.String()
}

// FormatProfile renders level, streaks, badges and the daily challenge.
func FormatProfile(p gamification.Profile, includeLocked bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n- Level %d, %d/%d XP\n- %d tasks completed\n- Streak %d days (longest %d)\n",
		p.Name, p.Level, p.XP, p.XPToNextLevel, p.TotalTasksCompleted, p.CurrentStreak, p.LongestStreak)

	if c := p.DailyChallenge; c != nil {
		state := fmt.Sprintf("%d/%d", c.Progress, c.Target)
		if c.IsCompleted {
			state = "done"
		}
		fmt.Fprintf(&sb, "\n### Daily challenge\n%s: %s (%s, +%d XP)\n", c.Title, c.Description, state, c.XPReward)
	}

	sb.WriteString("\n### Badges\n")
	for _, b := range p.Badges {
		switch {
		case b.IsUnlocked():
			fmt.Fprintf(&sb, "- %s **%s** (unlocked %s)\n", b.Icon, b.Name, b.UnlockedAt.Format("2006-01-02"))
		case includeLocked:
			fmt.Fprintf(&sb, "- locked: %s (%s)\n", b.Name, b.Requirement)
		}
	}
	return sb.String()
}
