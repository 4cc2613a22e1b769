package gamification

import (
	"time"

	"github.com/josephgoksu/TaskQuest/internal/task"
)

// Completion describes one Incomplete -> Completed transition.
type Completion struct {
	Task   task.Task
	Today  string
	Now    time.Time
	UserID string

	// CompletedTasks is every completed task, including Task.
	CompletedTasks []task.Task
	// CompletedToday is the subset completed on Today, including Task.
	CompletedToday []task.Task
	// TodayTotal is the number of tasks scheduled for Today.
	TodayTotal int
}

// Outcome summarises what a completion changed.
type Outcome struct {
	XPAwarded          int            `json:"xpAwarded"`
	LevelsGained       int            `json:"levelsGained"`
	StreakAdvanced     bool           `json:"streakAdvanced"`
	Unlocked           []Badge        `json:"unlocked,omitempty"`
	ChallengeCompleted bool           `json:"challengeCompleted"`
	Notifications      []Notification `json:"notifications"`
}

// Complete applies the completion rules to the profile and ledger: task XP
// and level-ups, streak, badges, daily challenge (whose reward also levels up),
// then today's history entry. Notifications are returned with the task's XP
// notification first, followed by the others in the order they happened.
func Complete(p *Profile, h History, c Completion) (History, Outcome) {
	out := Outcome{Notifications: []Notification{XPNotification(c.Task.Title, c.Task.XPValue, c.Now)}}
	var events []Notification

	p.TotalTasksCompleted++
	out.XPAwarded = c.Task.XPValue
	if gained := p.AwardXP(c.Task.XPValue); gained > 0 {
		out.LevelsGained += gained
		events = append(events, LevelNotification(p.Level, c.Now))
	}

	out.StreakAdvanced = p.RecordActivity(c.Today)

	facts := BadgeFacts{DistinctHorizons: distinctHorizons(c.CompletedTasks), CompletedAt: c.Now}
	for _, b := range EvaluateBadges(p, facts, c.Now) {
		out.Unlocked = append(out.Unlocked, b)
		events = append(events, BadgeNotification(b, c.Now))
	}

	if ch := p.DailyChallenge; ch != nil && ch.Date == c.Today && ch.Advance(c.CompletedToday) {
		out.ChallengeCompleted = true
		out.XPAwarded += ch.XPReward
		events = append(events, ChallengeNotification(ch, c.Now))
		if gained := p.AwardXP(ch.XPReward); gained > 0 {
			out.LevelsGained += gained
			events = append(events, LevelNotification(p.Level, c.Now))
			for _, b := range EvaluateBadges(p, facts, c.Now) {
				out.Unlocked = append(out.Unlocked, b)
				events = append(events, BadgeNotification(b, c.Now))
			}
		}
	}

	h = h.Record(c.Today, c.TodayTotal, out.XPAwarded)
	out.Notifications = append(out.Notifications, events...)
	return h, out
}

// Uncomplete reverses the XP and completion count of a task. Streak, badges,
// challenge progress and history are kept.
func Uncomplete(p *Profile, t task.Task) {
	p.RevokeXP(t.XPValue)
	if p.TotalTasksCompleted > 0 {
		p.TotalTasksCompleted--
	}
}

func distinctHorizons(tasks []task.Task) int {
	seen := make(map[task.Horizon]bool, len(task.Horizons))
	for _, t := range tasks {
		if t.IsCompleted {
			seen[t.Horizon] = true
		}
	}
	return len(seen)
}
