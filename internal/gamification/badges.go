package gamification

import "time"

// BadgeCategory groups badges for display.
type BadgeCategory string

const (
	BadgeCategoryTasks   BadgeCategory = "tasks"
	BadgeCategoryStreak  BadgeCategory = "streak"
	BadgeCategoryLevel   BadgeCategory = "level"
	BadgeCategorySpecial BadgeCategory = "special"
)

// Badge is a one-way achievement. UnlockedAt is nil while locked and never
// changes once set.
type Badge struct {
	ID          string        `json:"id" yaml:"id" toml:"id"`
	Name        string        `json:"name" yaml:"name" toml:"name"`
	Description string        `json:"description" yaml:"description" toml:"description"`
	Icon        string        `json:"icon" yaml:"icon" toml:"icon"`
	Requirement string        `json:"requirement" yaml:"requirement" toml:"requirement"`
	Category    BadgeCategory `json:"category" yaml:"category" toml:"category"`
	UnlockedAt  *time.Time    `json:"unlockedAt,omitempty" yaml:"unlockedAt,omitempty" toml:"unlockedAt,omitempty"`
}

func (b Badge) IsUnlocked() bool { return b.UnlockedAt != nil }

func (b Badge) Clone() Badge {
	if b.UnlockedAt != nil {
		ts := *b.UnlockedAt
		b.UnlockedAt = &ts
	}
	return b
}

// BadgeFacts are the inputs to badge conditions that are not on the profile.
type BadgeFacts struct {
	// DistinctHorizons is the number of horizons among completed tasks.
	DistinctHorizons int
	// CompletedAt is the local time of the completion being evaluated.
	CompletedAt time.Time
}

// EarlyBirdHour is the local hour before which a completion counts as early.
const EarlyBirdHour = 7

type badgeDef struct {
	Badge
	earned func(p *Profile, f BadgeFacts) bool
}

func completions(n int) func(*Profile, BadgeFacts) bool {
	return func(p *Profile, _ BadgeFacts) bool { return p.TotalTasksCompleted >= n }
}

func streak(n int) func(*Profile, BadgeFacts) bool {
	return func(p *Profile, _ BadgeFacts) bool { return p.CurrentStreak >= n }
}

func level(n int) func(*Profile, BadgeFacts) bool {
	return func(p *Profile, _ BadgeFacts) bool { return p.Level >= n }
}

var badgeCatalog = []badgeDef{
	{Badge{ID: "first_task", Name: "First Step", Description: "Complete your first task", Icon: "🎯", Requirement: "Complete 1 task", Category: BadgeCategoryTasks}, completions(1)},
	{Badge{ID: "tasks_10", Name: "Getting Things Done", Description: "Complete 10 tasks", Icon: "📋", Requirement: "Complete 10 tasks", Category: BadgeCategoryTasks}, completions(10)},
	{Badge{ID: "tasks_50", Name: "Achiever", Description: "Complete 50 tasks", Icon: "🏅", Requirement: "Complete 50 tasks", Category: BadgeCategoryTasks}, completions(50)},
	{Badge{ID: "tasks_100", Name: "Centurion", Description: "Complete 100 tasks", Icon: "🏆", Requirement: "Complete 100 tasks", Category: BadgeCategoryTasks}, completions(100)},
	{Badge{ID: "tasks_500", Name: "Unstoppable", Description: "Complete 500 tasks", Icon: "👑", Requirement: "Complete 500 tasks", Category: BadgeCategoryTasks}, completions(500)},
	{Badge{ID: "streak_7", Name: "Week Warrior", Description: "Keep a 7 day streak", Icon: "🔥", Requirement: "7 day streak", Category: BadgeCategoryStreak}, streak(7)},
	{Badge{ID: "streak_30", Name: "Monthly Master", Description: "Keep a 30 day streak", Icon: "⚡", Requirement: "30 day streak", Category: BadgeCategoryStreak}, streak(30)},
	{Badge{ID: "streak_100", Name: "Legendary Streak", Description: "Keep a 100 day streak", Icon: "💎", Requirement: "100 day streak", Category: BadgeCategoryStreak}, streak(100)},
	{Badge{ID: "level_5", Name: "Rising Star", Description: "Reach level 5", Icon: "⭐", Requirement: "Reach level 5", Category: BadgeCategoryLevel}, level(5)},
	{Badge{ID: "level_10", Name: "Veteran", Description: "Reach level 10", Icon: "🌟", Requirement: "Reach level 10", Category: BadgeCategoryLevel}, level(10)},
	{Badge{ID: "all_horizons", Name: "Visionary", Description: "Complete daily, monthly and yearly tasks", Icon: "🔭", Requirement: "Complete a task in every horizon", Category: BadgeCategorySpecial},
		func(_ *Profile, f BadgeFacts) bool { return f.DistinctHorizons >= 3 }},
	{Badge{ID: "early_bird", Name: "Early Bird", Description: "Complete a task before 7 AM", Icon: "🌅", Requirement: "Complete a task before 7:00", Category: BadgeCategorySpecial},
		func(_ *Profile, f BadgeFacts) bool { return !f.CompletedAt.IsZero() && f.CompletedAt.Hour() < EarlyBirdHour }},
}

// NewBadgeCatalog returns every badge in catalog order, all locked.
func NewBadgeCatalog() []Badge {
	out := make([]Badge, len(badgeCatalog))
	for i, def := range badgeCatalog {
		out[i] = def.Badge
	}
	return out
}

// MergeBadges rebuilds the catalog and carries over unlock times from saved
// badges with matching IDs. Unknown saved badges are dropped.
func MergeBadges(saved []Badge) []Badge {
	unlocked := make(map[string]*time.Time, len(saved))
	for _, b := range saved {
		if b.UnlockedAt != nil {
			ts := *b.UnlockedAt
			unlocked[b.ID] = &ts
		}
	}
	out := NewBadgeCatalog()
	for i := range out {
		out[i].UnlockedAt = unlocked[out[i].ID]
	}
	return out
}

// EvaluateBadges unlocks every badge whose condition now holds and returns the
// newly unlocked ones. Already unlocked badges are left untouched, so running
// it twice on the same state unlocks nothing the second time.
func EvaluateBadges(p *Profile, facts BadgeFacts, now time.Time) []Badge {
	if len(p.Badges) != len(badgeCatalog) {
		p.Badges = MergeBadges(p.Badges)
	}
	index := make(map[string]int, len(p.Badges))
	for i, b := range p.Badges {
		index[b.ID] = i
	}

	var unlocked []Badge
	for _, def := range badgeCatalog {
		i, ok := index[def.ID]
		if !ok || p.Badges[i].IsUnlocked() || !def.earned(p, facts) {
			continue
		}
		ts := now
		p.Badges[i].UnlockedAt = &ts
		unlocked = append(unlocked, p.Badges[i].Clone())
	}
	return unlocked
}
