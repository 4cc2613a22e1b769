package gamification

import (
	"math"

	"github.com/josephgoksu/TaskQuest/internal/task"
)

const (
	// BaseXP is the XP needed to go from level 1 to level 2.
	BaseXP = 500.0

	// LevelGrowth is the per-level multiplier on the XP requirement.
	LevelGrowth = 1.15
)

// XPToNextLevel returns round(BaseXP * LevelGrowth^(level-1)).
func XPToNextLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Round(BaseXP * math.Pow(LevelGrowth, float64(level-1))))
}

// AwardXP adds amount to the profile and rolls overflow into levels.
// It returns the number of levels gained.
func (p *Profile) AwardXP(amount int) int {
	if amount > 0 {
		p.XP += amount
	}
	return p.levelUp()
}

func (p *Profile) levelUp() int {
	if p.XPToNextLevel <= 0 {
		p.XPToNextLevel = XPToNextLevel(p.Level)
	}
	gained := 0
	for p.XP >= p.XPToNextLevel {
		p.XP -= p.XPToNextLevel
		p.Level++
		p.XPToNextLevel = XPToNextLevel(p.Level)
		gained++
	}
	return gained
}

// RevokeXP removes amount from the current level's XP, floored at zero.
// Levels are never lost.
func (p *Profile) RevokeXP(amount int) {
	p.XP -= amount
	if p.XP < 0 {
		p.XP = 0
	}
}

// RecordActivity advances the streak for a completion on today. Only the
// first completion of a day changes anything; it reports whether it did.
func (p *Profile) RecordActivity(today string) bool {
	if p.LastActiveDate == today {
		return false
	}
	if days, ok := task.DaysBetween(p.LastActiveDate, today); ok && days == 1 {
		p.CurrentStreak++
	} else {
		p.CurrentStreak = 1
	}
	if p.CurrentStreak > p.LongestStreak {
		p.LongestStreak = p.CurrentStreak
	}
	p.LastActiveDate = today
	return true
}

// StreakAlive reports whether the streak still counts on today, i.e. the last
// active day is today or yesterday.
func (p *Profile) StreakAlive(today string) bool {
	days, ok := task.DaysBetween(p.LastActiveDate, today)
	return ok && (days == 0 || days == 1)
}
