package ui

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/TaskQuest/internal/gamification"
)

// RenderProfile shows level, XP progress and streaks.
func RenderProfile(p gamification.Profile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %s\n", StyleTitle.Render(p.Name), StyleXP.Render(fmt.Sprintf("Level %d", p.Level)))
	fmt.Fprintf(&sb, "XP      %s  %s / %s\n", ProgressBar(p.XP, p.XPToNextLevel, 24), FormatNumber(p.XP), FormatNumber(p.XPToNextLevel))
	fmt.Fprintf(&sb, "Streak  🔥 %d days (best %d)\n", p.CurrentStreak, p.LongestStreak)
	fmt.Fprintf(&sb, "Done    %s tasks", FormatNumber(p.TotalTasksCompleted))
	unlocked := p.UnlockedBadges()
	if len(unlocked) > 0 {
		icons := make([]string, len(unlocked))
		for i, b := range unlocked {
			icons[i] = b.Icon
		}
		fmt.Fprintf(&sb, "\nBadges  %s", strings.Join(icons, " "))
	}
	return NewPanel("", sb.String()).WithBorderColor(ColorGold).Render() + "\n"
}

// RenderBadges lists the full catalog grouped by unlock state.
func RenderBadges(badges []gamification.Badge) string {
	var unlocked, locked []gamification.Badge
	for _, b := range badges {
		if b.IsUnlocked() {
			unlocked = append(unlocked, b)
		} else {
			locked = append(locked, b)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %d/%d\n", StyleSectionTitle.Render("Badges"), len(unlocked), len(badges))
	for _, b := range unlocked {
		fmt.Fprintf(&sb, "  %s %s  %s  %s\n", b.Icon, StyleTitle.Render(b.Name), StyleSubtle.Render(b.Description),
			StyleSuccess.Render(b.UnlockedAt.Format("2006-01-02")))
	}
	for _, b := range locked {
		fmt.Fprintf(&sb, "  🔒 %s  %s\n", StyleSubtle.Render(b.Name), StyleSubtle.Render(b.Requirement))
	}
	return sb.String()
}

// RenderChallenge shows the daily challenge, or a hint when none is set.
func RenderChallenge(c *gamification.DailyChallenge) string {
	if c == nil {
		return StyleSubtle.Render("No challenge yet today. Complete a task to start one.") + "\n"
	}
	status := ProgressBar(c.Progress, c.Target, 20)
	if c.IsCompleted {
		status = StyleSuccess.Render("✔ complete")
	}
	body := fmt.Sprintf("%s\n%s\n%s  %d/%d  %s",
		c.Description,
		StyleSubtle.Render(c.Date),
		status, c.Progress, c.Target,
		StyleXP.Render(fmt.Sprintf("+%d XP", c.XPReward)))
	return NewPanel("🏁 "+c.Title, body).WithBorderColor(ColorCyan).Render() + "\n"
}

// RenderNotification formats one toast line.
func RenderNotification(n gamification.Notification) string {
	style := StyleText
	switch n.Kind {
	case gamification.KindXP:
		style = StyleXP
	case gamification.KindLevel, gamification.KindBadge:
		style = StylePrimary.Bold(true)
	case gamification.KindChallenge:
		style = StyleSuccess.Bold(true)
	}
	line := n.Icon + " " + style.Render(n.Title)
	if n.Message != "" {
		line += "  " + StyleSubtle.Render(n.Message)
	}
	return line
}

// RenderNotifications joins toasts, one per line.
func RenderNotifications(ns []gamification.Notification) string {
	var sb strings.Builder
	for _, n := range ns {
		sb.WriteString(RenderNotification(n) + "\n")
	}
	return sb.String()
}
