// Package store is the authoritative state container for tasks, the player
// profile and the completion ledger. All mutations go through typed command
// methods and are serialised by a mutex.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/josephgoksu/TaskQuest/internal/gamification"
	"github.com/josephgoksu/TaskQuest/internal/task"
)

// DefaultUserID seeds challenge selection when no user is configured.
const DefaultUserID = "local"

// subscriberBuffer is the channel capacity of a notification subscriber.
const subscriberBuffer = 32

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source. The clock's location defines "today".
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

func WithUserID(id string) Option {
	return func(s *Store) {
		if id != "" {
			s.userID = id
		}
	}
}

// WithProfileName names the profile of a fresh state.
func WithProfileName(name string) Option {
	return func(s *Store) { s.profileName = name }
}

// Store owns all tasks and profile state.
type Store struct {
	mu            sync.RWMutex
	state         State
	notifications []gamification.Notification
	subscribers   map[int]chan gamification.Notification
	nextSubID     int
	version       uint64

	now         func() time.Time
	log         *slog.Logger
	persister   Persister
	userID      string
	profileName string
}

// New returns a store holding the default initial state.
func New(opts ...Option) *Store {
	s := &Store{
		now:         time.Now,
		log:         slog.Default(),
		userID:      DefaultUserID,
		subscribers: make(map[int]chan gamification.Notification),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = DefaultState(s.profileName, s.userID, s.now())
	return s
}

func (s *Store) today() string {
	return task.FormatDate(s.now())
}

// Version is a counter bumped by every successful mutation. It can key caches
// of derived views.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// UserID returns the identity used for challenge selection.
func (s *Store) UserID() string { return s.userID }

// Load replaces the in-memory state with the persisted snapshot. A missing
// snapshot resets to the default state.
func (s *Store) Load(ctx context.Context) error {
	if s.persister == nil {
		return ErrNoPersister
	}
	snap, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	if snap == nil {
		s.log.Debug("no saved state, starting fresh")
	}
	s.Restore(snap)
	return nil
}

// Save writes the current state through the persister. There is no retry.
func (s *Store) Save(ctx context.Context) error {
	if s.persister == nil {
		return ErrNoPersister
	}
	snap := s.Snapshot()
	if err := s.persister.Save(ctx, snap); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	s.log.Debug("state saved", "tasks", len(snap.Tasks), "version", s.Version())
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Restore installs snap after normalising it. nil restores the default state.
func (s *Store) Restore(snap *State) {
	now := s.now()
	var st State
	if snap == nil {
		st = DefaultState(s.profileName, s.userID, now)
	} else {
		st = snap.Clone()
		if st.Version > StateVersion {
			s.log.Warn("snapshot written by a newer version", "version", st.Version)
		}
		st.Normalize(s.userID, now)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	s.version++
}

func (s *Store) indexOf(id string) int {
	for i := range s.state.Tasks {
		if s.state.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// AddTask creates a task. Empty horizon and priority come from preferences.
func (s *Store) AddTask(in task.Input) task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs := s.state.Profile.Preferences
	if in.Horizon == "" {
		in.Horizon = prefs.DefaultHorizon
	}
	if in.Priority == "" {
		in.Priority = prefs.DefaultPriority
	}
	t := task.New(in, s.now())
	s.state.Tasks = append(s.state.Tasks, t)
	s.version++
	s.log.Debug("task added", "id", t.ID, "xp", t.XPValue)
	return t.Clone()
}

// UpdateTask merges p into the task. XP is not recomputed.
func (s *Store) UpdateTask(id string, p task.Patch) (task.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return task.Task{}, false
	}
	p.Apply(&s.state.Tasks[i], s.now())
	s.version++
	s.log.Debug("task updated", "id", id)
	return s.state.Tasks[i].Clone(), true
}

// DeleteTask removes a task. Earned XP is kept.
func (s *Store) DeleteTask(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.state.Tasks = append(s.state.Tasks[:i], s.state.Tasks[i+1:]...)
	s.version++
	s.log.Debug("task deleted", "id", id)
	return true
}

// ToggleResult reports the outcome of a completion toggle.
type ToggleResult struct {
	Task      task.Task            `json:"task"`
	Completed bool                 `json:"completed"`
	Outcome   gamification.Outcome `json:"outcome"`
}

// ToggleTask flips a task between incomplete and completed. Completing runs
// the gamification rules; un-completing only takes back XP and the completion
// count. An unknown id is a no-op.
func (s *Store) ToggleTask(id string) (ToggleResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ToggleResult{}, false
	}
	t := &s.state.Tasks[i]
	p := &s.state.Profile
	now := s.now()

	if t.IsCompleted {
		gamification.Uncomplete(p, *t)
		t.IsCompleted = false
		t.CompletedAt = nil
		t.UpdatedAt = now
		s.version++
		s.log.Debug("task reopened", "id", id, "xp", p.XP)
		return ToggleResult{Task: t.Clone()}, true
	}

	today := task.FormatDate(now)
	if p.EnsureDailyChallenge(today, s.userID) {
		s.log.Debug("daily challenge regenerated", "date", today, "title", p.DailyChallenge.Title)
	}

	done := t.Clone()
	done.IsCompleted = true
	ts := now
	done.CompletedAt = &ts

	var completed, completedToday []task.Task
	for j := range s.state.Tasks {
		c := &s.state.Tasks[j]
		if j == i {
			c = &done
		}
		if !c.IsCompleted {
			continue
		}
		completed = append(completed, *c)
		if c.CompletedOn(today, now.Location()) {
			completedToday = append(completedToday, *c)
		}
	}

	var outcome gamification.Outcome
	s.state.History, outcome = gamification.Complete(p, s.state.History, gamification.Completion{
		Task:           done,
		Today:          today,
		Now:            now,
		UserID:         s.userID,
		CompletedTasks: completed,
		CompletedToday: completedToday,
		TodayTotal:     len(s.todaysTasks(today)),
	})

	t.IsCompleted = true
	t.CompletedAt = &ts
	t.UpdatedAt = now
	s.version++
	s.notify(outcome.Notifications...)

	s.log.Debug("task completed", "id", id, "xp", outcome.XPAwarded, "level", p.Level, "streak", p.CurrentStreak)
	if outcome.LevelsGained > 0 {
		s.log.Debug("level up", "level", p.Level)
	}
	for _, b := range outcome.Unlocked {
		s.log.Debug("badge unlocked", "badge", b.ID)
	}
	if outcome.ChallengeCompleted {
		s.log.Debug("daily challenge completed", "challenge", p.DailyChallenge.ID)
	}
	return ToggleResult{Task: t.Clone(), Completed: true, Outcome: outcome}, true
}

// ToggleSubtask flips one subtask. It never touches XP or the profile.
func (s *Store) ToggleSubtask(taskID, subtaskID string) (task.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(taskID)
	if i < 0 {
		return task.Task{}, false
	}
	t := &s.state.Tasks[i]
	for j := range t.Subtasks {
		if t.Subtasks[j].ID == subtaskID {
			t.Subtasks[j].IsCompleted = !t.Subtasks[j].IsCompleted
			t.UpdatedAt = s.now()
			s.version++
			return t.Clone(), true
		}
	}
	return task.Task{}, false
}

// PostponeTask pushes the due date back one day and bumps the postponed
// count. Unset and overdue dates move to tomorrow.
func (s *Store) PostponeTask(id string) (task.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return task.Task{}, false
	}
	t := &s.state.Tasks[i]
	now := s.now()
	from := task.FormatDate(now)
	if t.DueDate != "" && t.DueDate > from {
		from = t.DueDate
	}
	t.DueDate = task.AddDays(from, 1)
	t.PostponedCount++
	t.UpdatedAt = now
	s.version++
	s.log.Debug("task postponed", "id", id, "due", t.DueDate, "count", t.PostponedCount)
	return t.Clone(), true
}

// SetProfileName renames the profile. Blank names are ignored.
func (s *Store) SetProfileName(name string) bool {
	if name == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Profile.Name = name
	s.version++
	return true
}

// UpdatePreferences merges p into the profile preferences.
func (s *Store) UpdatePreferences(p gamification.PreferencesPatch) gamification.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.Apply(&s.state.Profile.Preferences)
	s.version++
	return s.state.Profile.Preferences
}

// SetCurrentView records the active screen. Unknown views are ignored.
func (s *Store) SetCurrentView(v View) bool {
	if !v.IsValid() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CurrentView = v
	s.version++
	return true
}

// CurrentView returns the active screen.
func (s *Store) CurrentView() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CurrentView
}

// RefreshDailyChallenge regenerates a stale challenge and reports whether it did.
func (s *Store) RefreshDailyChallenge() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Profile.EnsureDailyChallenge(s.today(), s.userID) {
		return false
	}
	s.version++
	return true
}
