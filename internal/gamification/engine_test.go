package gamification

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/josephgoksu/TaskQuest/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func completedTask(title string, p task.Priority, h task.Horizon) task.Task {
	tk := task.New(task.Input{Title: title, Priority: p, Horizon: h}, now)
	tk.IsCompleted = true
	ts := now
	tk.CompletedAt = &ts
	return tk
}

func complete(p *Profile, h History, tk task.Task) (History, Outcome) {
	return Complete(p, h, Completion{
		Task:           tk,
		Today:          "2026-03-14",
		Now:            now,
		UserID:         "user-1",
		CompletedTasks: []task.Task{tk},
		CompletedToday: []task.Task{tk},
		TodayTotal:     4,
	})
}

func TestXPToNextLevel(t *testing.T) {
	tests := map[int]int{0: 500, 1: 500, 2: 575, 3: 661, 4: 760, 5: 875}
	for level, want := range tests {
		assert.Equal(t, want, XPToNextLevel(level), "level %d", level)
	}
}

func TestXPNotification_KeepsRawTitle(t *testing.T) {
	n := XPNotification(`Say "hi"`, 20, now)
	assert.Equal(t, "+20 XP", n.Title)
	assert.Contains(t, n.Message, `Say "hi"`)
	assert.NotContains(t, n.Message, `\"`)
}

func TestComplete_CriticalDailyAwardsFiftyXP(t *testing.T) {
	p := NewProfile("Ada", now)
	tk := completedTask("Ship the release", task.PriorityCritical, task.HorizonDaily)

	h, out := complete(&p, nil, tk)

	assert.Equal(t, 50, p.XP)
	assert.Equal(t, 1, p.TotalTasksCompleted)
	require.NotEmpty(t, out.Notifications)
	assert.Equal(t, KindXP, out.Notifications[0].Kind)
	assert.Contains(t, out.Notifications[0].Message, "Ship the release")

	rec, ok := h.Find("2026-03-14")
	require.True(t, ok)
	assert.Equal(t, 1, rec.Completed)
	assert.Equal(t, 4, rec.Total)
	assert.Equal(t, 50, rec.XPEarned)
}

func TestComplete_LevelUpCarriesRemainder(t *testing.T) {
	p := NewProfile("Ada", now)
	p.Level, p.XP, p.XPToNextLevel = 3, 490, 500
	p.DailyChallenge = nil

	_, out := complete(&p, nil, completedTask("Refactor", task.PriorityHigh, task.HorizonDaily))

	assert.Equal(t, 4, p.Level)
	assert.Equal(t, 25, p.XP)
	assert.Equal(t, 760, p.XPToNextLevel)
	assert.Equal(t, 1, out.LevelsGained)

	var kinds []NotificationKind
	for _, n := range out.Notifications {
		kinds = append(kinds, n.Kind)
	}
	assert.Contains(t, kinds, KindLevel)
}

func TestComplete_NoLevelNotificationWithoutLevelUp(t *testing.T) {
	p := NewProfile("Ada", now)
	_, out := complete(&p, nil, completedTask("Small", task.PriorityLow, task.HorizonDaily))
	for _, n := range out.Notifications {
		assert.NotEqual(t, KindLevel, n.Kind)
	}
}

func TestRecordActivity(t *testing.T) {
	tests := []struct {
		name       string
		last       string
		streak     int
		longest    int
		wantStreak int
		wantLong   int
		advanced   bool
	}{
		{"first ever", "", 0, 0, 1, 1, true},
		{"consecutive day", "2026-03-13", 7, 7, 8, 8, true},
		{"same day", "2026-03-14", 3, 5, 3, 5, false},
		{"gap resets", "2026-03-10", 9, 12, 1, 12, true},
		{"future date resets", "2026-03-15", 4, 4, 1, 4, true},
		{"unparsable resets", "yesterday", 4, 4, 1, 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Profile{LastActiveDate: tt.last, CurrentStreak: tt.streak, LongestStreak: tt.longest}
			assert.Equal(t, tt.advanced, p.RecordActivity("2026-03-14"))
			assert.Equal(t, tt.wantStreak, p.CurrentStreak)
			assert.Equal(t, tt.wantLong, p.LongestStreak)
			assert.Equal(t, "2026-03-14", p.LastActiveDate)
		})
	}
}

func TestComplete_StreakContinuesAndBadgeStaysUnlocked(t *testing.T) {
	p := NewProfile("Ada", now)
	p.CurrentStreak, p.LongestStreak, p.LastActiveDate = 7, 7, "2026-03-13"
	unlockedAt := now.AddDate(0, 0, -1)
	for i := range p.Badges {
		if p.Badges[i].ID == "streak_7" {
			p.Badges[i].UnlockedAt = &unlockedAt
		}
	}

	_, out := complete(&p, nil, completedTask("Stretch", task.PriorityLow, task.HorizonDaily))

	assert.Equal(t, 8, p.CurrentStreak)
	assert.Equal(t, 8, p.LongestStreak)
	for _, b := range out.Unlocked {
		assert.NotEqual(t, "streak_7", b.ID)
	}
	for _, b := range p.Badges {
		if b.ID == "streak_7" {
			require.NotNil(t, b.UnlockedAt)
			assert.Equal(t, unlockedAt, *b.UnlockedAt)
		}
	}
}

func TestUncomplete_RestoresXPButNotStreakOrHistory(t *testing.T) {
	p := NewProfile("Ada", now)
	before := p.Clone()
	tk := completedTask("Write", task.PriorityMedium, task.HorizonMonthly)

	h, _ := complete(&p, nil, tk)
	Uncomplete(&p, tk)

	assert.Equal(t, before.XP, p.XP)
	assert.Equal(t, before.TotalTasksCompleted, p.TotalTasksCompleted)
	assert.Equal(t, 1, p.CurrentStreak, "streak is not rolled back")
	assert.NotEmpty(t, p.UnlockedBadges(), "badges are not rolled back")
	_, ok := h.Find("2026-03-14")
	assert.True(t, ok, "history is not rolled back")
}

func TestUncomplete_FloorsAtZero(t *testing.T) {
	p := Profile{Level: 2, XP: 5, XPToNextLevel: 575}
	Uncomplete(&p, task.Task{XPValue: 50})
	assert.Zero(t, p.XP)
	assert.Zero(t, p.TotalTasksCompleted)
	assert.Equal(t, 2, p.Level)
}

func TestComplete_ChallengeRewardRunsLevelUp(t *testing.T) {
	p := NewProfile("Ada", now)
	p.XP = 480
	p.DailyChallenge = &DailyChallenge{ID: "challenge-2026-03-14", Date: "2026-03-14",
		Rule: RuleCompletions, Target: 1, XPReward: 40}

	_, out := complete(&p, nil, completedTask("Plan", task.PriorityLow, task.HorizonDaily))

	assert.True(t, out.ChallengeCompleted)
	assert.True(t, p.DailyChallenge.IsCompleted)
	assert.Equal(t, 50, out.XPAwarded)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 30, p.XP)
	assert.Less(t, p.XP, p.XPToNextLevel)
}

func TestComplete_XPInvariantHolds(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	priorities := []task.Priority{task.PriorityLow, task.PriorityMedium, task.PriorityHigh, task.PriorityCritical}

	p := NewProfile("Ada", now)
	var h History
	for i := 0; i < 500; i++ {
		tk := completedTask("t", priorities[rng.IntN(4)], task.Horizons[rng.IntN(3)])
		h, _ = complete(&p, h, tk)
		if rng.IntN(5) == 0 {
			Uncomplete(&p, tk)
		}
		require.GreaterOrEqual(t, p.XP, 0)
		require.Less(t, p.XP, p.XPToNextLevel)
		require.Equal(t, XPToNextLevel(p.Level), p.XPToNextLevel)
	}
}
