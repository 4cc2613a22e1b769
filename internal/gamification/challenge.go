package gamification

import (
	"hash/fnv"
	"strings"

	"github.com/josephgoksu/TaskQuest/internal/task"
)

// ChallengeType classifies a daily challenge.
type ChallengeType string

const (
	ChallengeCompleteN ChallengeType = "complete_n"
	ChallengeStreak    ChallengeType = "streak"
	ChallengeCategory  ChallengeType = "category"
	ChallengeTimeBased ChallengeType = "time_based"
)

// ChallengeRule names the counting rule applied to today's completions.
type ChallengeRule string

const (
	RuleCompletions ChallengeRule = "completions"
	RuleImportant   ChallengeRule = "important"
	RuleQuick       ChallengeRule = "quick"
	RuleHorizons    ChallengeRule = "horizons"
	RuleCategories  ChallengeRule = "categories"
)

// QuickTaskMinutes is the exclusive upper bound for a "quick" completion.
const QuickTaskMinutes = 15

// Count applies the rule to the tasks completed today.
func (r ChallengeRule) Count(completedToday []task.Task) int {
	switch r {
	case RuleCompletions:
		return len(completedToday)
	case RuleImportant:
		n := 0
		for _, t := range completedToday {
			if t.Priority.IsImportant() {
				n++
			}
		}
		return n
	case RuleQuick:
		n := 0
		for _, t := range completedToday {
			if t.DurationOrDefault() < QuickTaskMinutes {
				n++
			}
		}
		return n
	case RuleHorizons:
		seen := make(map[task.Horizon]bool)
		for _, t := range completedToday {
			seen[t.Horizon] = true
		}
		return len(seen)
	case RuleCategories:
		seen := make(map[string]bool)
		for _, t := range completedToday {
			if c := strings.ToLower(strings.TrimSpace(t.Category)); c != "" {
				seen[c] = true
			}
		}
		return len(seen)
	default:
		return 0
	}
}

// DailyChallenge is the bonus objective for one calendar day.
type DailyChallenge struct {
	ID          string        `json:"id" yaml:"id" toml:"id"`
	Title       string        `json:"title" yaml:"title" toml:"title"`
	Description string        `json:"description" yaml:"description" toml:"description"`
	Type        ChallengeType `json:"type" yaml:"type" toml:"type"`
	Rule        ChallengeRule `json:"rule" yaml:"rule" toml:"rule"`
	Target      int           `json:"target" yaml:"target" toml:"target"`
	Progress    int           `json:"progress" yaml:"progress" toml:"progress"`
	XPReward    int           `json:"xpReward" yaml:"xpReward" toml:"xpReward"`
	IsCompleted bool          `json:"isCompleted" yaml:"isCompleted" toml:"isCompleted"`
	Date        string        `json:"date" yaml:"date" toml:"date"`
}

type challengeTemplate struct {
	title       string
	description string
	kind        ChallengeType
	rule        ChallengeRule
	target      int
	reward      int
}

var challengeTemplates = []challengeTemplate{
	{"Hat Trick", "Complete 3 tasks today", ChallengeCompleteN, RuleCompletions, 3, 40},
	{"Power Hour", "Complete 5 tasks today", ChallengeCompleteN, RuleCompletions, 5, 75},
	{"Priority Crusher", "Complete 2 high or critical priority tasks", ChallengeCategory, RuleImportant, 2, 60},
	{"Quick Wins", "Complete 3 tasks estimated under 15 minutes", ChallengeTimeBased, RuleQuick, 3, 40},
	{"Full Spectrum", "Complete tasks from 2 different horizons", ChallengeStreak, RuleHorizons, 2, 50},
	{"Well Rounded", "Complete tasks in 3 different categories", ChallengeCategory, RuleCategories, 3, 50},
}

// ChallengeTemplateCount is the size of the challenge pool.
var ChallengeTemplateCount = len(challengeTemplates)

// challengeIndex picks a template as a pure function of user and date.
func challengeIndex(userID, date string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID + "|" + date))
	return int(h.Sum32() % uint32(len(challengeTemplates)))
}

// NewDailyChallenge returns the challenge for date. The same user and date
// always get the same challenge.
func NewDailyChallenge(date, userID string) DailyChallenge {
	tpl := challengeTemplates[challengeIndex(userID, date)]
	return DailyChallenge{
		ID:          "challenge-" + date,
		Title:       tpl.title,
		Description: tpl.description,
		Type:        tpl.kind,
		Rule:        tpl.rule,
		Target:      tpl.target,
		XPReward:    tpl.reward,
		Date:        date,
	}
}

// EnsureDailyChallenge replaces a missing or stale challenge with today's.
// It reports whether a new challenge was generated.
func (p *Profile) EnsureDailyChallenge(today, userID string) bool {
	if p.DailyChallenge != nil && p.DailyChallenge.Date == today {
		return false
	}
	c := NewDailyChallenge(today, userID)
	p.DailyChallenge = &c
	return true
}

// Advance recomputes progress from today's completions. Progress never moves
// backwards. It reports whether this call completed the challenge.
func (c *DailyChallenge) Advance(completedToday []task.Task) bool {
	if c.IsCompleted {
		return false
	}
	if n := c.Rule.Count(completedToday); n > c.Progress {
		c.Progress = n
	}
	if c.Progress >= c.Target {
		c.Progress = c.Target
		c.IsCompleted = true
		return true
	}
	return false
}

// Percent returns progress as 0..100.
func (c *DailyChallenge) Percent() int {
	if c.Target <= 0 {
		return 0
	}
	pct := c.Progress * 100 / c.Target
	if pct > 100 {
		pct = 100
	}
	return pct
}
