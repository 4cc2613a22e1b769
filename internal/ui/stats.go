package ui

import (
	"fmt"
	"strings"

	"github.com/josephgoksu/TaskQuest/internal/store"
	"github.com/josephgoksu/TaskQuest/internal/task"
)

const chartWidth = 20

// RenderStats draws the completion rates, weekly chart and category table.
func RenderStats(s store.Stats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", StyleSectionTitle.Render("Progress"))
	fmt.Fprintf(&sb, "  %-9s %s\n", "overall", ProgressBar(int(s.CompletionRate), 100, chartWidth))
	for _, h := range task.Horizons {
		fmt.Fprintf(&sb, "  %-9s %s\n", h, ProgressBar(int(s.HorizonRates[h]), 100, chartWidth))
	}
	fmt.Fprintf(&sb, "  Productivity score %s", StyleXP.Render(fmt.Sprintf("%d/100", s.ProductivityScore)))
	if s.RolledOver > 0 {
		fmt.Fprintf(&sb, "  %s", StyleWarning.Render(fmt.Sprintf("%d rolled over", s.RolledOver)))
	}
	sb.WriteString("\n\n")

	peak := 1
	for _, d := range s.Weekly {
		peak = max(peak, d.Completed)
	}
	fmt.Fprintf(&sb, "%s\n", StyleSectionTitle.Render("Last 7 days"))
	for _, d := range s.Weekly {
		n := d.Completed * chartWidth / peak
		fmt.Fprintf(&sb, "  %s %s %d/%d  %s\n", d.Label,
			StyleSuccess.Render(strings.Repeat("▇", n))+strings.Repeat(" ", chartWidth-n),
			d.Completed, d.Total, StyleSubtle.Render(fmt.Sprintf("+%d XP", d.XPEarned)))
	}

	if len(s.Categories) > 0 {
		sb.WriteString("\n" + StyleSectionTitle.Render("Categories") + "\n")
		tbl := &Table{Headers: []string{"Category", "Done", "Total", "Rate", "XP"}}
		for _, c := range s.Categories {
			tbl.Rows = append(tbl.Rows, []string{
				c.Category,
				fmt.Sprintf("%d", c.Completed),
				fmt.Sprintf("%d", c.Total),
				fmt.Sprintf("%.0f%%", c.Rate),
				FormatNumber(c.XPEarned),
			})
		}
		sb.WriteString(tbl.Render())
	}
	return sb.String()
}
