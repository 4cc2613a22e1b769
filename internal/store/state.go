package store

import (
	"context"
	"errors"
	"time"

	"github.com/josephgoksu/TaskQuest/internal/gamification"
	"github.com/josephgoksu/TaskQuest/internal/task"
)

// StateVersion is the snapshot schema version written by Save.
const StateVersion = 1

// ErrNoPersister is returned by Load and Save when the store has no persister.
var ErrNoPersister = errors.New("store: no persister configured")

// View is the screen the user last had open.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewDaily     View = "daily"
	ViewMonthly   View = "monthly"
	ViewYearly    View = "yearly"
	ViewStats     View = "stats"
	ViewBadges    View = "badges"
)

func (v View) IsValid() bool {
	switch v {
	case ViewDashboard, ViewDaily, ViewMonthly, ViewYearly, ViewStats, ViewBadges:
		return true
	default:
		return false
	}
}

// State is the persisted snapshot of a store.
type State struct {
	Version     int                  `json:"version" yaml:"version" toml:"version"`
	Tasks       []task.Task          `json:"tasks" yaml:"tasks" toml:"tasks"`
	Profile     gamification.Profile `json:"profile" yaml:"profile" toml:"profile"`
	History     gamification.History `json:"completionHistory" yaml:"completionHistory" toml:"completionHistory"`
	CurrentView View                 `json:"currentView" yaml:"currentView" toml:"currentView"`
}

// Persister durably stores snapshots. Load returns (nil, nil) when nothing
// has been saved yet.
type Persister interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, s State) error
}

// DefaultState is the state of a brand-new user.
func DefaultState(name, userID string, now time.Time) State {
	p := gamification.NewProfile(name, now)
	p.EnsureDailyChallenge(task.FormatDate(now), userID)
	return State{
		Version:     StateVersion,
		Tasks:       []task.Task{},
		Profile:     p,
		History:     gamification.History{},
		CurrentView: ViewDashboard,
	}
}

// Normalize repairs a partial or older snapshot in place. Tasks without an ID
// or title are dropped, duplicate IDs keep the first occurrence, unknown enum
// values fall back to defaults and a missing XP value is computed once.
func (s *State) Normalize(userID string, now time.Time) {
	seen := make(map[string]bool, len(s.Tasks))
	tasks := make([]task.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if t.ID == "" || t.Title == "" || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		normalizeTask(&t, now)
		tasks = append(tasks, t)
	}
	s.Tasks = tasks

	s.Profile.Normalize(now)
	s.Profile.EnsureDailyChallenge(task.FormatDate(now), userID)
	s.History = s.History.Normalize()
	if !s.CurrentView.IsValid() {
		s.CurrentView = ViewDashboard
	}
	s.Version = StateVersion
}

func normalizeTask(t *task.Task, now time.Time) {
	if !t.Horizon.IsValid() {
		t.Horizon = task.HorizonDaily
	}
	if !t.Priority.IsValid() {
		t.Priority = task.PriorityMedium
	}
	if !t.Recurrence.IsValid() {
		t.Recurrence = task.RecurrenceNone
	}
	if !t.EnergyLevel.IsValid() {
		t.EnergyLevel = task.EnergyMedium
	}
	if _, err := task.ParseDate(t.DueDate); t.DueDate != "" && err != nil {
		t.DueDate = ""
	}
	t.EstimatedMinutes = task.ClampMinutes(t.EstimatedMinutes)
	t.Tags = task.SanitizeTags(t.Tags)
	if t.Subtasks == nil {
		t.Subtasks = []task.Subtask{}
	}
	if t.XPValue <= 0 {
		t.XPValue = task.CalculateXP(t.Priority, t.Horizon)
	}
	if t.PostponedCount < 0 {
		t.PostponedCount = 0
	}
	if !t.IsCompleted {
		t.CompletedAt = nil
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	out.Tasks = make([]task.Task, len(s.Tasks))
	for i, t := range s.Tasks {
		out.Tasks[i] = t.Clone()
	}
	out.Profile = s.Profile.Clone()
	out.History = s.History.Clone()
	return out
}
