// Package gamification holds the player profile and the pure rules that turn
// task completions into XP, levels, streaks, badges and daily challenges.
package gamification

import (
	"strings"
	"time"

	"github.com/josephgoksu/TaskQuest/internal/task"
)

// DefaultProfileName is used when a profile is created without a name.
const DefaultProfileName = "Adventurer"

// Theme is the UI colour scheme preference.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

func (t Theme) IsValid() bool {
	return t == ThemeDark || t == ThemeLight
}

// Preferences are user-facing toggles and defaults for new tasks.
type Preferences struct {
	Theme           Theme         `json:"theme" yaml:"theme" toml:"theme"`
	Celebrations    bool          `json:"celebrations" yaml:"celebrations" toml:"celebrations"`
	Sound           bool          `json:"sound" yaml:"sound" toml:"sound"`
	DefaultHorizon  task.Horizon  `json:"defaultHorizon" yaml:"defaultHorizon" toml:"defaultHorizon"`
	DefaultPriority task.Priority `json:"defaultPriority" yaml:"defaultPriority" toml:"defaultPriority"`
}

// DefaultPreferences returns the preferences of a fresh profile.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:           ThemeDark,
		Celebrations:    true,
		Sound:           true,
		DefaultHorizon:  task.HorizonDaily,
		DefaultPriority: task.PriorityMedium,
	}
}

// PreferencesPatch is a partial preferences update.
type PreferencesPatch struct {
	Theme           *Theme         `json:"theme,omitempty"`
	Celebrations    *bool          `json:"celebrations,omitempty"`
	Sound           *bool          `json:"sound,omitempty"`
	DefaultHorizon  *task.Horizon  `json:"defaultHorizon,omitempty"`
	DefaultPriority *task.Priority `json:"defaultPriority,omitempty"`
}

// Apply merges the patch, ignoring invalid enum values.
func (p PreferencesPatch) Apply(prefs *Preferences) {
	if p.Theme != nil && p.Theme.IsValid() {
		prefs.Theme = *p.Theme
	}
	if p.Celebrations != nil {
		prefs.Celebrations = *p.Celebrations
	}
	if p.Sound != nil {
		prefs.Sound = *p.Sound
	}
	if p.DefaultHorizon != nil && p.DefaultHorizon.IsValid() {
		prefs.DefaultHorizon = *p.DefaultHorizon
	}
	if p.DefaultPriority != nil && p.DefaultPriority.IsValid() {
		prefs.DefaultPriority = *p.DefaultPriority
	}
}

// Profile is the single player record. XP always stays below XPToNextLevel.
type Profile struct {
	Name                string          `json:"name" yaml:"name" toml:"name"`
	Level               int             `json:"level" yaml:"level" toml:"level"`
	XP                  int             `json:"xp" yaml:"xp" toml:"xp"`
	XPToNextLevel       int             `json:"xpToNextLevel" yaml:"xpToNextLevel" toml:"xpToNextLevel"`
	TotalTasksCompleted int             `json:"totalTasksCompleted" yaml:"totalTasksCompleted" toml:"totalTasksCompleted"`
	CurrentStreak       int             `json:"currentStreak" yaml:"currentStreak" toml:"currentStreak"`
	LongestStreak       int             `json:"longestStreak" yaml:"longestStreak" toml:"longestStreak"`
	LastActiveDate      string          `json:"lastActiveDate,omitempty" yaml:"lastActiveDate,omitempty" toml:"lastActiveDate,omitempty"`
	JoinedDate          string          `json:"joinedDate" yaml:"joinedDate" toml:"joinedDate"`
	Badges              []Badge         `json:"badges" yaml:"badges" toml:"badges"`
	DailyChallenge      *DailyChallenge `json:"dailyChallenge,omitempty" yaml:"dailyChallenge,omitempty" toml:"dailyChallenge,omitempty"`
	Preferences         Preferences     `json:"preferences" yaml:"preferences" toml:"preferences"`
}

// NewProfile returns a level 1 profile with a fresh badge catalog.
func NewProfile(name string, now time.Time) Profile {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultProfileName
	}
	return Profile{
		Name:          name,
		Level:         1,
		XPToNextLevel: XPToNextLevel(1),
		JoinedDate:    task.FormatDate(now),
		Badges:        NewBadgeCatalog(),
		Preferences:   DefaultPreferences(),
	}
}

// Normalize repairs a profile read from a partial or older snapshot: missing
// counters get defaults, the badge catalog is completed and XP overflow is
// rolled into levels.
func (p *Profile) Normalize(now time.Time) {
	if strings.TrimSpace(p.Name) == "" {
		p.Name = DefaultProfileName
	}
	if p.Level < 1 {
		p.Level = 1
	}
	p.XPToNextLevel = XPToNextLevel(p.Level)
	if p.XP < 0 {
		p.XP = 0
	}
	p.levelUp()
	if p.TotalTasksCompleted < 0 {
		p.TotalTasksCompleted = 0
	}
	if p.CurrentStreak < 0 {
		p.CurrentStreak = 0
	}
	if p.LongestStreak < p.CurrentStreak {
		p.LongestStreak = p.CurrentStreak
	}
	if p.JoinedDate == "" {
		p.JoinedDate = task.FormatDate(now)
	}
	p.Badges = MergeBadges(p.Badges)

	defaults := DefaultPreferences()
	if p.Preferences == (Preferences{}) {
		p.Preferences = defaults
	}
	if !p.Preferences.Theme.IsValid() {
		p.Preferences.Theme = defaults.Theme
	}
	if !p.Preferences.DefaultHorizon.IsValid() {
		p.Preferences.DefaultHorizon = defaults.DefaultHorizon
	}
	if !p.Preferences.DefaultPriority.IsValid() {
		p.Preferences.DefaultPriority = defaults.DefaultPriority
	}
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	out := p
	out.Badges = make([]Badge, len(p.Badges))
	for i, b := range p.Badges {
		out.Badges[i] = b.Clone()
	}
	if p.DailyChallenge != nil {
		c := *p.DailyChallenge
		out.DailyChallenge = &c
	}
	return out
}

// UnlockedBadges returns the badges with a non-nil unlock time, in catalog order.
func (p *Profile) UnlockedBadges() []Badge {
	var out []Badge
	for _, b := range p.Badges {
		if b.IsUnlocked() {
			out = append(out, b)
		}
	}
	return out
}
