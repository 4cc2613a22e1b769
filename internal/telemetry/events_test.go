package telemetry

import (
	"testing"
	"time"

	"github.com/josephgoksu/TaskQuest/internal/gamification"
	"github.com/josephgoksu/TaskQuest/internal/planner"
	"github.com/josephgoksu/TaskQuest/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionEvents(t *testing.T) {
	tk := task.Task{ID: "task-1", Title: "secret title", Horizon: task.HorizonDaily, Priority: task.PriorityHigh}
	challenge := gamification.NewDailyChallenge("2026-03-14", "local")
	profile := gamification.Profile{Level: 3, CurrentStreak: 4, DailyChallenge: &challenge}
	out := gamification.Outcome{
		XPAwarded:          25,
		LevelsGained:       1,
		Unlocked:           []gamification.Badge{{ID: "first_task", Category: gamification.BadgeCategoryTasks}},
		ChallengeCompleted: true,
	}

	events := CompletionEvents(tk, profile, out)

	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.Name)
		for _, v := range e.Properties {
			assert.NotEqual(t, "secret title", v)
		}
	}
	assert.Equal(t, []string{EventTaskCompleted, EventLevelUp, EventBadgeUnlocked, EventChallengeCompleted}, names)
	assert.Equal(t, 25, events[0].Properties["xp"])
	assert.Equal(t, "first_task", events[2].Properties["badge"])
	assert.Equal(t, challenge.XPReward, events[3].Properties["xp"])
}

func TestCompletionEvents_PlainCompletion(t *testing.T) {
	events := CompletionEvents(task.Task{Priority: task.PriorityLow}, gamification.Profile{Level: 1}, gamification.Outcome{XPAwarded: 10})
	require.Len(t, events, 1)
	assert.Equal(t, EventTaskCompleted, events[0].Name)
}

func TestTrackAll(t *testing.T) {
	client, mock := newTestClient(&Config{Enabled: true, AnonymousID: "a"})
	plan := planner.BuildDailyPlan(nil, gamification.NewProfile("p", time.Now()), nil, "2026-03-14")

	TrackAll(client, PlanEvent(plan), SuggestionEvent(task.Task{Priority: task.PriorityMedium}))

	events := mock.captured()
	require.Len(t, events, 2)
	assert.Equal(t, EventPlanGenerated, events[0].Event)
	assert.Equal(t, plan.Target, events[0].Properties["target"])
	assert.Equal(t, EventSuggestionApplied, events[1].Event)
	assert.Equal(t, "medium", events[1].Properties["priority"])
}
