package ui

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/TaskQuest/internal/planner"
	"github.com/josephgoksu/TaskQuest/internal/suggest"
	"github.com/josephgoksu/TaskQuest/internal/utils"
)

func RenderPlan(p planner.Plan) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %s\n", StyleHeader.Render("Plan for "+p.Date),
		StyleSubtle.Render(fmt.Sprintf("target %d · %d tasks · %d min", p.Target, len(p.Items), p.TotalMinutes)))
	if len(p.Items) > 0 {
		tbl := &Table{Headers: []string{"#", "ID", "Task", "Priority", "Min", "Why"}}
		for i, it := range p.Items {
			tbl.Rows = append(tbl.Rows, []string{
				fmt.Sprintf("%d", i+1),
				ShortID(it.TaskID),
				utils.Truncate(it.Title, MaxTitleWidth),
				string(it.Priority),
				fmt.Sprintf("%d", it.EstimatedMinutes),
				it.Reason,
			})
		}
		sb.WriteString(tbl.Render())
	}
	sb.WriteString("\n💡 " + WrapText(p.Advice, 76) + "\n")
	return sb.String()
}

// RenderSuggestions shows a coaching reply with numbered suggestions so the
// user can pick which to apply.
func RenderSuggestions(r *suggest.Response) string {
	var sb strings.Builder
	sb.WriteString(NewPanel("Coach", WrapText(r.Reflection, 72)).WithBorderColor(ColorCyan).Render() + "\n")
	for i, s := range r.SuggestedTasks {
		fmt.Fprintf(&sb, " %d. %s  %s  %s\n", i+1, StyleTitle.Render(s.Title),
			PriorityStyle(s.Priority).Render(string(s.Priority)),
			StyleSubtle.Render(fmt.Sprintf("%d min", s.EstimatedTime)))
		if s.Reason != "" {
			fmt.Fprintf(&sb, "    %s\n", StyleSubtle.Render(s.Reason))
		}
	}
	if r.FocusAdvice != "" {
		sb.WriteString("\n🎯 " + WrapText(r.FocusAdvice, 76) + "\n")
	}
	return sb.String()
}
