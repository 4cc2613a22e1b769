package planner

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/josephgoksu/TaskQuest/internal/gamification"
	"github.com/josephgoksu/TaskQuest/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const today = "2026-03-14"

func mk(id string, p task.Priority, due string, minutes int) task.Task {
	return task.Task{ID: id, Title: "Task " + id, Priority: p, Horizon: task.HorizonDaily,
		DueDate: due, EstimatedMinutes: minutes, Recurrence: task.RecurrenceNone, EnergyLevel: task.EnergyMedium}
}

func ids(p Plan) []string {
	var out []string
	for _, it := range p.Items {
		out = append(out, it.TaskID)
	}
	return out
}

func TestBuildDailyPlan_Empty(t *testing.T) {
	plan := BuildDailyPlan(nil, gamification.Profile{}, nil, today)

	assert.Equal(t, DefaultTarget, plan.Target)
	assert.Empty(t, plan.Items)
	assert.Zero(t, plan.TotalMinutes)
	assert.Contains(t, plan.Advice, "balanced plan")
}

func TestBuildDailyPlan_SelectionOrder(t *testing.T) {
	habit := mk("habit", task.PriorityLow, "", 10)
	habit.Recurrence = task.RecurrenceDaily
	tasks := []task.Task{
		mk("backlog-med", task.PriorityMedium, "", 20),
		mk("today-low", task.PriorityLow, today, 20),
		mk("over-crit", task.PriorityCritical, "2026-03-10", 30),
		habit,
		mk("today-high", task.PriorityHigh, today, 30),
		mk("over-low", task.PriorityLow, "2026-03-12", 20),
		mk("backlog-low", task.PriorityLow, "", 20),
		mk("future", task.PriorityCritical, "2026-03-20", 20),
	}
	done := mk("done", task.PriorityCritical, "2026-03-01", 20)
	done.IsCompleted = true
	tasks = append(tasks, done)

	plan := BuildDailyPlan(tasks, gamification.Profile{}, nil, today)

	assert.Equal(t, []string{"over-crit", "today-high", "habit", "over-low", "today-low"}, ids(plan))
	assert.Equal(t, []string{ReasonOverdueImportant, ReasonDueTodayImportant, ReasonDailyHabit, ReasonClearingBacklog, ReasonScheduledToday},
		[]string{plan.Items[0].Reason, plan.Items[1].Reason, plan.Items[2].Reason, plan.Items[3].Reason, plan.Items[4].Reason})
	assert.Equal(t, 110, plan.TotalMinutes)
}

func TestBuildDailyPlan_BacklogFillsByPriority(t *testing.T) {
	tasks := []task.Task{
		mk("med-1", task.PriorityMedium, "", 20),
		mk("crit", task.PriorityCritical, "", 20),
		mk("med-2", task.PriorityMedium, "", 20),
		mk("high", task.PriorityHigh, "", 20),
	}
	history := gamification.History{{Date: "2026-03-13", Completed: 3, Total: 4}}
	plan := BuildDailyPlan(tasks, gamification.Profile{}, history, today)

	require.Equal(t, 3, plan.Target)
	assert.Equal(t, []string{"crit", "high", "med-1"}, ids(plan))
	for _, it := range plan.Items {
		assert.Equal(t, ReasonImportantBacklog, it.Reason)
	}
}

func TestBuildDailyPlan_MustsIgnoreTarget(t *testing.T) {
	var tasks []task.Task
	for i := 0; i < 9; i++ {
		tasks = append(tasks, mk(fmt.Sprintf("o%d", i), task.PriorityHigh, "2026-03-01", 30))
	}
	plan := BuildDailyPlan(tasks, gamification.Profile{}, nil, today)
	assert.Len(t, plan.Items, 9)
	assert.Equal(t, AdviceClearBacklog, plan.Advice)
}

func TestBuildDailyPlan_RespectsBudget(t *testing.T) {
	tasks := []task.Task{
		mk("a", task.PriorityCritical, "2026-03-01", 300),
		mk("b", task.PriorityCritical, "2026-03-01", 200),
		mk("c", task.PriorityHigh, today, 180),
		mk("d", task.PriorityMedium, "", 0),
	}
	plan := BuildDailyPlan(tasks, gamification.Profile{}, nil, today)

	assert.Equal(t, []string{"a", "c"}, ids(plan))
	assert.Equal(t, 480, plan.TotalMinutes)
}

func TestBuildDailyPlan_DefaultDuration(t *testing.T) {
	plan := BuildDailyPlan([]task.Task{mk("x", task.PriorityHigh, today, 0)}, gamification.Profile{}, nil, today)
	require.Len(t, plan.Items, 1)
	assert.Equal(t, task.DefaultMinutes, plan.Items[0].EstimatedMinutes)
}

func TestTargetCount(t *testing.T) {
	week := func(counts ...int) gamification.History {
		var h gamification.History
		for i, c := range counts {
			h = append(h, gamification.CompletionRecord{Date: task.AddDays(today, -(i + 1)), Completed: c, Total: c})
		}
		return h
	}
	tests := []struct {
		name    string
		streak  int
		history gamification.History
		want    int
	}{
		{"no history", 0, nil, 5},
		{"average rounds", 0, week(4, 5, 5), 5},
		{"clamped low", 0, week(1, 1), 3},
		{"clamped high", 0, week(9, 9, 9), 7},
		{"long streak bonus", 8, nil, 6},
		{"streak of seven gets nothing", 7, nil, 5},
		{"weak yesterday", 0, gamification.History{{Date: "2026-03-13", Completed: 1, Total: 4}, {Date: "2026-03-12", Completed: 7, Total: 7}}, 3},
		{"ignores today and older than a week", 0, gamification.History{{Date: today, Completed: 9, Total: 9}, {Date: "2026-03-01", Completed: 9, Total: 9}}, 5},
		{"zero total yesterday is no signal", 0, gamification.History{{Date: "2026-03-13", Completed: 0, Total: 0}}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TargetCount(gamification.Profile{CurrentStreak: tt.streak}, tt.history, today)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdvicePrecedence(t *testing.T) {
	over := []task.Task{
		mk("1", task.PriorityLow, "2026-03-01", 10),
		mk("2", task.PriorityLow, "2026-03-01", 10),
		mk("3", task.PriorityLow, "2026-03-01", 10),
	}
	weak := gamification.History{{Date: "2026-03-13", Completed: 1, Total: 5}}

	assert.Equal(t, AdviceClearBacklog, BuildDailyPlan(over, gamification.Profile{CurrentStreak: 9}, weak, today).Advice)
	assert.Equal(t, AdviceMomentum, BuildDailyPlan(over[:2], gamification.Profile{CurrentStreak: 6}, weak, today).Advice)
	assert.Equal(t, AdviceLightLoad, BuildDailyPlan(over[:2], gamification.Profile{CurrentStreak: 5}, weak, today).Advice)
	assert.Equal(t, AdviceBalanced, BuildDailyPlan(over[:2], gamification.Profile{}, nil, today).Advice)
}

func TestBuildDailyPlan_Deterministic(t *testing.T) {
	tasks := randomTasks(rand.New(rand.NewPCG(1, 2)), 25)
	a := BuildDailyPlan(tasks, gamification.Profile{CurrentStreak: 3}, nil, today)
	b := BuildDailyPlan(tasks, gamification.Profile{CurrentStreak: 3}, nil, today)
	assert.Equal(t, a, b)
}

var (
	priorities = []task.Priority{task.PriorityLow, task.PriorityMedium, task.PriorityHigh, task.PriorityCritical}
	dueDates   = []string{"", "", "2026-03-01", "2026-03-13", today, today, "2026-03-20"}
)

func randomTasks(rng *rand.Rand, n int) []task.Task {
	tasks := make([]task.Task, 0, n)
	for i := 0; i < n; i++ {
		tk := mk(fmt.Sprintf("t%d", i), priorities[rng.IntN(len(priorities))], dueDates[rng.IntN(len(dueDates))], 5+rng.IntN(120))
		if rng.IntN(8) == 0 {
			tk.Recurrence = task.RecurrenceDaily
		}
		tk.IsCompleted = rng.IntN(6) == 0
		tasks = append(tasks, tk)
	}
	return tasks
}

func TestBuildDailyPlan_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 99))
	for iter := 0; iter < 500; iter++ {
		tasks := randomTasks(rng, rng.IntN(30))
		profile := gamification.Profile{CurrentStreak: rng.IntN(12)}
		var history gamification.History
		for d := 1; d <= rng.IntN(10); d++ {
			total := rng.IntN(10)
			history = append(history, gamification.CompletionRecord{Date: task.AddDays(today, -d), Completed: rng.IntN(total + 1), Total: total})
		}

		plan := BuildDailyPlan(tasks, profile, history, today)
		name := fmt.Sprintf("iteration %d", iter)

		require.LessOrEqual(t, plan.TotalMinutes, MaxPlanMinutes, name)
		require.GreaterOrEqual(t, plan.Target, MinTarget, name)
		require.LessOrEqual(t, plan.Target, MaxTarget, name)

		sum := 0
		seen := make(map[string]bool)
		for _, it := range plan.Items {
			require.False(t, seen[it.TaskID], "%s: duplicate %s", name, it.TaskID)
			seen[it.TaskID] = true
			sum += it.EstimatedMinutes
		}
		require.Equal(t, sum, plan.TotalMinutes, name)

		var mustMinutes, musts, eligible int
		var overdueImportant []string
		for _, tk := range tasks {
			if tk.IsCompleted {
				continue
			}
			overdue := tk.DueDate != "" && tk.DueDate < today
			dueToday := tk.DueDate == today
			backlog := tk.DueDate == "" && tk.Priority != task.PriorityLow
			habit := tk.Recurrence == task.RecurrenceDaily
			if overdue || dueToday || backlog || habit {
				eligible++
			}
			if overdue && tk.Priority.IsImportant() {
				overdueImportant = append(overdueImportant, tk.ID)
				mustMinutes += tk.DurationOrDefault()
			}
			if (overdue || dueToday) && tk.Priority.IsImportant() || habit {
				musts++
			}
		}

		if mustMinutes <= MaxPlanMinutes {
			for _, id := range overdueImportant {
				require.True(t, seen[id], "%s: overdue important %s missing", name, id)
			}
		}
		if musts <= MaxTarget && plan.TotalMinutes+124 <= MaxPlanMinutes {
			require.LessOrEqual(t, len(plan.Items), MaxTarget, name)
			if eligible >= MinTarget {
				require.GreaterOrEqual(t, len(plan.Items), MinTarget, name)
			}
		}
		require.True(t, strings.TrimSpace(plan.Advice) != "", name)
	}
}
