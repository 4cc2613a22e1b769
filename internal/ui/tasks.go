package ui

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/TaskQuest/internal/task"
	"github.com/josephgoksu/TaskQuest/internal/utils"
)

// MaxTitleWidth caps the title column in task tables.
const MaxTitleWidth = 48

// ShortID drops the "task-" prefix for display; the short form is accepted
// wherever an ID is.
func ShortID(id string) string {
	return strings.TrimPrefix(id, "task-")
}

func checkbox(done bool) string {
	if done {
		return "✔"
	}
	return "○"
}

func subtaskProgress(t *task.Task) string {
	if len(t.Subtasks) == 0 {
		return ""
	}
	done := 0
	for _, st := range t.Subtasks {
		if st.IsCompleted {
			done++
		}
	}
	return fmt.Sprintf("%d/%d", done, len(t.Subtasks))
}

func dueLabel(t *task.Task, today string) string {
	switch {
	case t.DueDate == "":
		return "-"
	case t.IsRolledOver(today):
		return "⚠ " + t.DueDate
	case t.DueDate == today:
		return "today"
	default:
		return t.DueDate
	}
}

// RenderTasks lays tasks out as a table. today marks rolled-over due dates.
func RenderTasks(tasks []task.Task, today string) string {
	if len(tasks) == 0 {
		return StyleSubtle.Render("No tasks. Add one with `taskquest add \"title\"`.") + "\n"
	}
	tbl := &Table{
		Headers: []string{"", "ID", "Title", "Priority", "Horizon", "Due", "XP", "Sub"},
	}
	for i := range tasks {
		t := &tasks[i]
		tbl.Rows = append(tbl.Rows, []string{
			checkbox(t.IsCompleted),
			ShortID(t.ID),
			utils.Truncate(t.Title, MaxTitleWidth),
			string(t.Priority),
			string(t.Horizon),
			dueLabel(t, today),
			fmt.Sprintf("%d", t.XPValue),
			subtaskProgress(t),
		})
	}
	return tbl.Render()
}

// RenderTaskDetail shows every field of one task.
func RenderTaskDetail(t task.Task, today string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", checkbox(t.IsCompleted), StyleTitle.Render(t.Title))
	if t.Description != "" {
		fmt.Fprintf(&sb, "%s\n", StyleSubtle.Render(WrapText(t.Description, 72)))
	}
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&sb, "  %-10s %s\n", label, value)
		}
	}
	row("ID", t.ID)
	row("Priority", PriorityStyle(t.Priority).Render(string(t.Priority)))
	row("Horizon", HorizonIcon(t.Horizon)+" "+string(t.Horizon))
	row("Category", t.Category)
	row("Due", dueLabel(&t, today))
	if t.Recurrence != task.RecurrenceNone {
		row("Repeats", string(t.Recurrence))
	}
	row("Energy", string(t.EnergyLevel))
	row("Estimate", fmt.Sprintf("%d min", t.DurationOrDefault()))
	row("XP", StyleXP.Render(fmt.Sprintf("%d", t.XPValue)))
	if len(t.Tags) > 0 {
		row("Tags", strings.Join(t.Tags, ", "))
	}
	if t.PostponedCount > 0 {
		row("Postponed", fmt.Sprintf("%d×", t.PostponedCount))
	}
	for _, st := range t.Subtasks {
		fmt.Fprintf(&sb, "    %s %s %s\n", checkbox(st.IsCompleted), StyleSubtle.Render(st.ID), st.Title)
	}
	return sb.String()
}
