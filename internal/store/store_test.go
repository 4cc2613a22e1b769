package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/josephgoksu/TaskQuest/internal/gamification"
	"github.com/josephgoksu/TaskQuest/internal/suggest"
	"github.com/josephgoksu/TaskQuest/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T) (*Store, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)}
	return New(WithClock(c.now), WithUserID("user-1")), c
}

type memPersister struct {
	state   *State
	saveErr error
	saves   int
}

func (m *memPersister) Load(context.Context) (*State, error) {
	if m.state == nil {
		return nil, nil
	}
	s := m.state.Clone()
	return &s, nil
}

func (m *memPersister) Save(_ context.Context, s State) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.state = &s
	return nil
}

func TestNew_DefaultState(t *testing.T) {
	s, _ := newTestStore(t)
	p := s.Profile()

	assert.Equal(t, 1, p.Level)
	assert.Zero(t, p.XP)
	assert.Equal(t, 500, p.XPToNextLevel)
	assert.Len(t, p.Badges, 12)
	assert.Empty(t, p.UnlockedBadges())
	require.NotNil(t, p.DailyChallenge)
	assert.Equal(t, "2026-03-14", p.DailyChallenge.Date)
	assert.Empty(t, s.Tasks())
	assert.Equal(t, ViewDashboard, s.CurrentView())
}

func TestAddTask_UsesPreferenceDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	monthly := task.HorizonMonthly
	high := task.PriorityHigh
	s.UpdatePreferences(gamification.PreferencesPatch{DefaultHorizon: &monthly, DefaultPriority: &high})

	tk := s.AddTask(task.Input{Title: "Quarterly review"})
	assert.Equal(t, task.HorizonMonthly, tk.Horizon)
	assert.Equal(t, task.PriorityHigh, tk.Priority)
	assert.Equal(t, 53, tk.XPValue)
}

func TestUpdateTask_KeepsXP(t *testing.T) {
	s, _ := newTestStore(t)
	tk := s.AddTask(task.Input{Title: "Read", Priority: task.PriorityLow})

	critical := task.PriorityCritical
	updated, ok := s.UpdateTask(tk.ID, task.Patch{Priority: &critical})
	require.True(t, ok)
	assert.Equal(t, task.PriorityCritical, updated.Priority)
	assert.Equal(t, 10, updated.XPValue)

	_, ok = s.UpdateTask("task-missing", task.Patch{Priority: &critical})
	assert.False(t, ok)
}

func TestDeleteTask_KeepsEarnedXP(t *testing.T) {
	s, _ := newTestStore(t)
	tk := s.AddTask(task.Input{Title: "Done soon", Priority: task.PriorityHigh})
	_, ok := s.ToggleTask(tk.ID)
	require.True(t, ok)

	assert.True(t, s.DeleteTask(tk.ID))
	assert.False(t, s.DeleteTask(tk.ID))
	assert.Empty(t, s.Tasks())
	assert.Equal(t, 35, s.Profile().XP)
}

func TestToggleTask_CriticalDailyScenario(t *testing.T) {
	s, _ := newTestStore(t)
	tk := s.AddTask(task.Input{Title: "Fix prod outage", Priority: task.PriorityCritical, Horizon: task.HorizonDaily})
	before := s.Profile()

	res, ok := s.ToggleTask(tk.ID)
	require.True(t, ok)
	after := s.Profile()

	assert.True(t, res.Completed)
	assert.True(t, res.Task.IsCompleted)
	require.NotNil(t, res.Task.CompletedAt)
	assert.Equal(t, before.XP+50, after.XP)
	assert.Equal(t, before.TotalTasksCompleted+1, after.TotalTasksCompleted)

	notes := s.Notifications()
	require.NotEmpty(t, notes)
	assert.Equal(t, gamification.KindXP, notes[0].Kind)
	assert.Contains(t, notes[0].Message, "Fix prod outage")
}

func TestToggleTask_TwiceRestoresXPButNotStreak(t *testing.T) {
	s, _ := newTestStore(t)
	tk := s.AddTask(task.Input{Title: "Walk", Priority: task.PriorityMedium})
	before := s.Profile()

	_, ok := s.ToggleTask(tk.ID)
	require.True(t, ok)
	res, ok := s.ToggleTask(tk.ID)
	require.True(t, ok)

	after := s.Profile()
	assert.False(t, res.Completed)
	assert.False(t, res.Task.IsCompleted)
	assert.Nil(t, res.Task.CompletedAt)
	assert.Equal(t, before.XP, after.XP)
	assert.Equal(t, before.TotalTasksCompleted, after.TotalTasksCompleted)

	// Asymmetry: streak, badges and history stay.
	assert.Equal(t, 1, after.CurrentStreak)
	assert.NotEmpty(t, after.UnlockedBadges())
	_, found := s.History().Find("2026-03-14")
	assert.True(t, found)
}

func TestToggleTask_UnknownIDIsNoop(t *testing.T) {
	s, _ := newTestStore(t)
	v := s.Version()
	_, ok := s.ToggleTask("task-nope")
	assert.False(t, ok)
	assert.Equal(t, v, s.Version())
}

func TestToggleTask_StreakAcrossDays(t *testing.T) {
	s, c := newTestStore(t)
	first := s.AddTask(task.Input{Title: "Day one"})
	_, _ = s.ToggleTask(first.ID)
	assert.Equal(t, 1, s.Profile().CurrentStreak)

	c.advance(24 * time.Hour)
	second := s.AddTask(task.Input{Title: "Day two"})
	third := s.AddTask(task.Input{Title: "Day two again"})
	_, _ = s.ToggleTask(second.ID)
	_, _ = s.ToggleTask(third.ID)
	assert.Equal(t, 2, s.Profile().CurrentStreak, "only the first completion of a day counts")

	c.advance(72 * time.Hour)
	fourth := s.AddTask(task.Input{Title: "After a gap"})
	_, _ = s.ToggleTask(fourth.ID)
	p := s.Profile()
	assert.Equal(t, 1, p.CurrentStreak)
	assert.Equal(t, 2, p.LongestStreak)
	assert.Equal(t, "2026-03-18", p.DailyChallenge.Date, "stale challenge is regenerated")
}

func TestToggleTask_RecordsHistory(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddTask(task.Input{Title: "A", Priority: task.PriorityLow})
	s.AddTask(task.Input{Title: "B"})
	_, _ = s.ToggleTask(a.ID)

	rec, ok := s.History().Find("2026-03-14")
	require.True(t, ok)
	assert.Equal(t, 1, rec.Completed)
	assert.Equal(t, 2, rec.Total)
	assert.GreaterOrEqual(t, rec.XPEarned, 10)
}

func TestToggleSubtask(t *testing.T) {
	s, _ := newTestStore(t)
	tk := s.AddTask(task.Input{Title: "Trip", Subtasks: []string{"Book", "Pack"}})
	xp := s.Profile().XP

	got, ok := s.ToggleSubtask(tk.ID, tk.Subtasks[1].ID)
	require.True(t, ok)
	assert.False(t, got.Subtasks[0].IsCompleted)
	assert.True(t, got.Subtasks[1].IsCompleted)
	assert.Equal(t, xp, s.Profile().XP)

	_, ok = s.ToggleSubtask(tk.ID, "sub-missing")
	assert.False(t, ok)
	_, ok = s.ToggleSubtask("task-missing", tk.Subtasks[0].ID)
	assert.False(t, ok)
}

func TestPostponeTask(t *testing.T) {
	tests := []struct {
		name string
		due  string
		want string
	}{
		{"overdue moves to tomorrow", "2026-03-10", "2026-03-15"},
		{"unset moves to tomorrow", "", "2026-03-15"},
		{"due today moves to tomorrow", "2026-03-14", "2026-03-15"},
		{"future date moves one day later", "2026-03-20", "2026-03-21"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			tk := s.AddTask(task.Input{Title: "Taxes", Priority: task.PriorityHigh, DueDate: tt.due})
			before := s.Profile()

			got, ok := s.PostponeTask(tk.ID)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.DueDate)
			assert.Equal(t, 1, got.PostponedCount)
			assert.Equal(t, tk.XPValue, got.XPValue)
			assert.Empty(t, s.RolledOverTasks())

			after := s.Profile()
			assert.Equal(t, before.XP, after.XP)
			assert.Equal(t, before.Level, after.Level)
			assert.Equal(t, before.TotalTasksCompleted, after.TotalTasksCompleted)
			assert.Equal(t, before.CurrentStreak, after.CurrentStreak)
		})
	}

	s, _ := newTestStore(t)
	tk := s.AddTask(task.Input{Title: "Twice", DueDate: "2026-03-20"})
	s.PostponeTask(tk.ID)
	got, _ := s.PostponeTask(tk.ID)
	assert.Equal(t, "2026-03-22", got.DueDate)
	assert.Equal(t, 2, got.PostponedCount)

	_, ok := s.PostponeTask("task-missing")
	assert.False(t, ok)
}

func TestReturnedTasksDoNotAlias(t *testing.T) {
	s, _ := newTestStore(t)
	tk := s.AddTask(task.Input{Title: "Alias", Tags: []string{"x"}})
	tk.Tags[0] = "mutated"
	tasks := s.Tasks()
	tasks[0].Title = "mutated"

	got, _ := s.Task(tk.ID)
	assert.Equal(t, "Alias", got.Title)
	assert.Equal(t, []string{"x"}, got.Tags)
}

func TestLoadSave(t *testing.T) {
	p := &memPersister{}
	c := &clock{t: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)}
	s := New(WithClock(c.now), WithPersister(p))

	require.NoError(t, s.Load(context.Background()), "missing snapshot falls back to defaults")
	tk := s.AddTask(task.Input{Title: "Persist me"})
	_, _ = s.ToggleTask(tk.ID)
	require.NoError(t, s.Save(context.Background()))
	assert.Equal(t, 1, p.saves)

	other := New(WithClock(c.now), WithPersister(p))
	require.NoError(t, other.Load(context.Background()))
	assert.Equal(t, s.Snapshot().Tasks, other.Snapshot().Tasks)
	assert.Equal(t, s.Profile().XP, other.Profile().XP)
	assert.Empty(t, other.Notifications(), "notifications are not persisted")
}

func TestLoad_PartialSnapshot(t *testing.T) {
	p := &memPersister{state: &State{
		Tasks: []task.Task{
			{ID: "task-1", Title: "Legacy", Priority: "urgent", EstimatedMinutes: 9000},
			{ID: "task-1", Title: "Duplicate"},
			{ID: "", Title: "No id"},
		},
		CurrentView: "kanban",
	}}
	c := &clock{t: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)}
	s := New(WithClock(c.now), WithPersister(p))
	require.NoError(t, s.Load(context.Background()))

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, task.PriorityMedium, tasks[0].Priority)
	assert.Equal(t, task.HorizonDaily, tasks[0].Horizon)
	assert.Equal(t, task.MaxMinutes, tasks[0].EstimatedMinutes)
	assert.Equal(t, 20, tasks[0].XPValue)

	prof := s.Profile()
	assert.Equal(t, 1, prof.Level)
	assert.Len(t, prof.Badges, 12)
	assert.NotNil(t, prof.DailyChallenge)
	assert.Equal(t, ViewDashboard, s.CurrentView())
}

func TestLoadSave_Errors(t *testing.T) {
	s, _ := newTestStore(t)
	assert.ErrorIs(t, s.Load(context.Background()), ErrNoPersister)
	assert.ErrorIs(t, s.Save(context.Background()), ErrNoPersister)

	boom := errors.New("disk full")
	p := &memPersister{saveErr: boom}
	s = New(WithPersister(p))
	assert.ErrorIs(t, s.Save(context.Background()), boom)
}

func TestSubscribe_CancelIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	ch, cancel := s.Subscribe()
	cancel()
	assert.NotPanics(t, cancel)

	_, open := <-ch
	assert.False(t, open)
	assert.NotPanics(t, func() { s.Notify("After", "cancel") })
	assert.Len(t, s.Notifications(), 1)
}

func TestNotifications_Lifecycle(t *testing.T) {
	s, c := newTestStore(t)
	ch, cancel := s.Subscribe()
	defer cancel()

	n := s.Notify("Hello", "world")
	select {
	case got := <-ch:
		assert.Equal(t, n.ID, got.ID)
	default:
		t.Fatal("subscriber did not receive notification")
	}

	s.Notify("Second", "one")
	assert.True(t, s.DismissNotification(n.ID))
	assert.False(t, s.DismissNotification(n.ID))
	assert.Len(t, s.Notifications(), 1)

	c.advance(gamification.NotificationTTL)
	assert.Equal(t, 1, s.PruneNotifications())
	assert.Empty(t, s.Notifications())

	s.Notify("Third", "one")
	assert.Len(t, s.DrainNotifications(), 1)
	assert.Empty(t, s.Notifications())
}

func TestSetters(t *testing.T) {
	s, _ := newTestStore(t)
	v := s.Version()

	assert.True(t, s.SetProfileName("Grace"))
	assert.False(t, s.SetProfileName(""))
	assert.Equal(t, "Grace", s.Profile().Name)

	assert.True(t, s.SetCurrentView(ViewStats))
	assert.False(t, s.SetCurrentView("kanban"))
	assert.Equal(t, ViewStats, s.CurrentView())
	assert.Greater(t, s.Version(), v)
}

func TestApplySuggestion(t *testing.T) {
	s, _ := newTestStore(t)
	tk := s.ApplySuggestion(suggest.SuggestedTask{Title: "Inbox zero", Priority: task.PriorityHigh, EstimatedTime: 2, Reason: "Clears your head"})

	assert.Equal(t, task.HorizonDaily, tk.Horizon)
	assert.Equal(t, "Work", tk.Category)
	assert.Equal(t, "2026-03-14", tk.DueDate)
	assert.Equal(t, []string{"AI Suggested"}, tk.Tags)
	assert.Equal(t, task.MinMinutes, tk.EstimatedMinutes)
	assert.Equal(t, 35, tk.XPValue)
}

func TestSuggestionRequest(t *testing.T) {
	s, c := newTestStore(t)
	a := s.AddTask(task.Input{Title: "Done yesterday"})
	s.AddTask(task.Input{Title: "Late", DueDate: "2026-03-13", Priority: task.PriorityHigh})
	_, _ = s.ToggleTask(a.ID)
	c.advance(24 * time.Hour)

	req, err := s.SuggestionRequest("  what next?  ")
	require.NoError(t, err)
	assert.Equal(t, "what next?", req.Message)
	assert.Equal(t, 1, req.Context.YesterdayCompletedCount)
	assert.Equal(t, 1, req.Context.Streak)
	require.Len(t, req.Context.PendingTasks, 1)
	assert.True(t, req.Context.PendingTasks[0].IsRolledOver)

	_, err = s.SuggestionRequest("   ")
	assert.ErrorIs(t, err, suggest.ErrEmptyMessage)
}
