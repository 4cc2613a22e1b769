// Package planner builds the recommended daily plan from the live task set,
// the player profile and the completion history.
package planner

import (
	"math"
	"sort"

	"github.com/josephgoksu/TaskQuest/internal/gamification"
	"github.com/josephgoksu/TaskQuest/internal/task"
)

const (
	// MaxPlanMinutes is the total duration budget of a plan.
	MaxPlanMinutes = 480

	DefaultTarget = 5
	MinTarget     = 3
	MaxTarget     = 7

	// TrendWindowDays is how many days before today feed the average.
	TrendWindowDays = 7
)

// Reasons attached to plan items, one per selection step.
const (
	ReasonOverdueImportant  = "Overdue and high priority"
	ReasonDueTodayImportant = "Due today and important"
	ReasonDailyHabit        = "Daily habit/routine"
	ReasonClearingBacklog   = "Clearing backlog"
	ReasonScheduledToday    = "Scheduled for today"
	ReasonImportantBacklog  = "Important backlog item"
)

// Advice strings, chosen in this order of precedence.
const (
	AdviceClearBacklog = "You have several overdue tasks. Clear the backlog first and the rest of the day gets lighter."
	AdviceMomentum     = "Your streak is on fire. Keep the momentum going with today's plan."
	AdviceLightLoad    = "Yesterday was tough, so today's load is lighter. Small wins count."
	AdviceBalanced     = "Here is a balanced plan for today: important work first, then steady progress."
)

// Item is one selected task.
type Item struct {
	TaskID           string           `json:"taskId"`
	Title            string           `json:"title"`
	Reason           string           `json:"reason"`
	Priority         task.Priority    `json:"priority"`
	EstimatedMinutes int              `json:"estimatedMinutes"`
	EnergyLevel      task.EnergyLevel `json:"energyLevel"`
}

// Plan is the recommended schedule for one day.
type Plan struct {
	Date         string `json:"date"`
	Target       int    `json:"target"`
	Items        []Item `json:"items"`
	TotalMinutes int    `json:"totalMinutes"`
	Advice       string `json:"advice"`
}

type buckets struct {
	overdue   []task.Task
	dueToday  []task.Task
	recurring []task.Task
	backlog   []task.Task
}

func partition(tasks []task.Task, today string) buckets {
	var b buckets
	for _, t := range tasks {
		if t.IsCompleted {
			continue
		}
		switch {
		case t.DueDate != "" && t.DueDate < today:
			b.overdue = append(b.overdue, t)
		case t.DueDate == today:
			b.dueToday = append(b.dueToday, t)
		case t.DueDate == "" && t.Priority != task.PriorityLow:
			b.backlog = append(b.backlog, t)
		}
		if t.Recurrence == task.RecurrenceDaily {
			b.recurring = append(b.recurring, t)
		}
	}
	return b
}

// yesterdayRatio returns yesterday's completion ratio. ok is false when there
// is no record or nothing was scheduled.
func yesterdayRatio(history gamification.History, today string) (float64, bool) {
	rec, found := history.Find(task.AddDays(today, -1))
	if !found {
		return 0, false
	}
	return rec.Ratio()
}

// TargetCount derives how many tasks to aim for: the rounded average of the
// last week's completions (DefaultTarget without history), one less after a
// weak yesterday, one more on a streak above seven days, clamped to
// [MinTarget, MaxTarget].
func TargetCount(profile gamification.Profile, history gamification.History, today string) int {
	sum, n := 0, 0
	for _, rec := range history {
		days, ok := task.DaysBetween(rec.Date, today)
		if ok && days >= 1 && days <= TrendWindowDays {
			sum += rec.Completed
			n++
		}
	}
	target := DefaultTarget
	if n > 0 {
		target = int(math.Round(float64(sum) / float64(n)))
	}
	if ratio, ok := yesterdayRatio(history, today); ok && ratio < 0.5 {
		target = max(target-1, MinTarget)
	}
	if profile.CurrentStreak > 7 {
		target++
	}
	return min(max(target, MinTarget), MaxTarget)
}

type selector struct {
	plan     Plan
	selected map[string]bool
}

// add appends t unless it is already selected or would overflow the budget.
func (s *selector) add(t task.Task, reason string) {
	minutes := t.DurationOrDefault()
	if s.selected[t.ID] || s.plan.TotalMinutes+minutes > MaxPlanMinutes {
		return
	}
	s.selected[t.ID] = true
	s.plan.TotalMinutes += minutes
	s.plan.Items = append(s.plan.Items, Item{
		TaskID:           t.ID,
		Title:            t.Title,
		Reason:           reason,
		Priority:         t.Priority,
		EstimatedMinutes: minutes,
		EnergyLevel:      t.EnergyLevel,
	})
}

func (s *selector) fill(tasks []task.Task, reason string) {
	for _, t := range byPriority(tasks) {
		if len(s.plan.Items) >= s.plan.Target {
			return
		}
		s.add(t, reason)
	}
}

func byPriority(tasks []task.Task) []task.Task {
	out := append([]task.Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Score() > out[j].Priority.Score()
	})
	return out
}

// BuildDailyPlan selects today's tasks. Important overdue and due-today tasks
// and daily habits are always taken while the minute budget allows; the
// remaining overdue, due-today and backlog tasks fill up to the target count.
// It is a pure function of its inputs.
func BuildDailyPlan(tasks []task.Task, profile gamification.Profile, history gamification.History, today string) Plan {
	b := partition(tasks, today)
	s := selector{
		plan:     Plan{Date: today, Target: TargetCount(profile, history, today), Items: []Item{}},
		selected: make(map[string]bool),
	}

	for _, t := range b.overdue {
		if t.Priority.IsImportant() {
			s.add(t, ReasonOverdueImportant)
		}
	}
	for _, t := range b.dueToday {
		if t.Priority.IsImportant() {
			s.add(t, ReasonDueTodayImportant)
		}
	}
	for _, t := range b.recurring {
		s.add(t, ReasonDailyHabit)
	}

	s.fill(b.overdue, ReasonClearingBacklog)
	s.fill(b.dueToday, ReasonScheduledToday)
	s.fill(b.backlog, ReasonImportantBacklog)

	s.plan.Advice = advice(len(b.overdue), profile, history, today)
	return s.plan
}

func advice(overdue int, profile gamification.Profile, history gamification.History, today string) string {
	switch ratio, ok := yesterdayRatio(history, today); {
	case overdue > 2:
		return AdviceClearBacklog
	case profile.CurrentStreak > 5:
		return AdviceMomentum
	case ok && ratio < 0.5:
		return AdviceLightLoad
	default:
		return AdviceBalanced
	}
}
