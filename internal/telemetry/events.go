package telemetry

import (
	"github.com/josephgoksu/TaskQuest/internal/gamification"
	"github.com/josephgoksu/TaskQuest/internal/planner"
	"github.com/josephgoksu/TaskQuest/internal/task"
)

const (
	EventTaskCompleted      = "task_completed"
	EventLevelUp            = "level_up"
	EventBadgeUnlocked      = "badge_unlocked"
	EventChallengeCompleted = "challenge_completed"
	EventPlanGenerated      = "plan_generated"
	EventSuggestionApplied  = "suggestion_applied"
)

// Event is a named set of properties ready for Track.
type Event struct {
	Name       string
	Properties Properties
}

// CompletionEvents describes one task completion. Titles and descriptions are
// never included.
func CompletionEvents(t task.Task, p gamification.Profile, out gamification.Outcome) []Event {
	events := []Event{{
		Name: EventTaskCompleted,
		Properties: Properties{
			"horizon":  string(t.Horizon),
			"priority": string(t.Priority),
			"xp":       out.XPAwarded,
			"streak":   p.CurrentStreak,
		},
	}}
	if out.LevelsGained > 0 {
		events = append(events, Event{Name: EventLevelUp, Properties: Properties{"level": p.Level, "levels_gained": out.LevelsGained}})
	}
	for _, b := range out.Unlocked {
		events = append(events, Event{Name: EventBadgeUnlocked, Properties: Properties{"badge": b.ID, "category": string(b.Category)}})
	}
	if out.ChallengeCompleted && p.DailyChallenge != nil {
		events = append(events, Event{Name: EventChallengeCompleted, Properties: Properties{
			"challenge": string(p.DailyChallenge.Type),
			"xp":        p.DailyChallenge.XPReward,
		}})
	}
	return events
}

// PlanEvent describes a generated daily plan.
func PlanEvent(plan planner.Plan) Event {
	return Event{Name: EventPlanGenerated, Properties: Properties{
		"target":        plan.Target,
		"items":         len(plan.Items),
		"total_minutes": plan.TotalMinutes,
	}}
}

// SuggestionEvent describes a suggestion turned into a task.
func SuggestionEvent(t task.Task) Event {
	return Event{Name: EventSuggestionApplied, Properties: Properties{"priority": string(t.Priority)}}
}

// TrackAll sends events in order.
func TrackAll(c Client, events ...Event) {
	for _, e := range events {
		c.Track(e.Name, e.Properties)
	}
}
