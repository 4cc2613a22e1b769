package store

import (
	"strings"

	"github.com/josephgoksu/TaskQuest/internal/suggest"
	"github.com/josephgoksu/TaskQuest/internal/task"
)

const (
	// SuggestionCategory is the category given to applied suggestions.
	SuggestionCategory = "Work"
	// SuggestionTag marks tasks created from a suggestion.
	SuggestionTag = "AI Suggested"
)

// SuggestionRequest builds a provider request from the current state.
func (s *Store) SuggestionRequest(message string) (suggest.Request, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return suggest.Request{}, suggest.ErrEmptyMessage
	}
	today := s.today()
	yesterday := task.AddDays(today, -1)

	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := []suggest.PendingTask{}
	for i := range s.state.Tasks {
		t := &s.state.Tasks[i]
		if t.IsCompleted {
			continue
		}
		pending = append(pending, suggest.PendingTask{
			Title:        t.Title,
			Priority:     t.Priority,
			Horizon:      t.Horizon,
			IsRolledOver: t.IsRolledOver(today),
		})
	}
	var yesterdayDone int
	if rec, ok := s.state.History.Find(yesterday); ok {
		yesterdayDone = rec.Completed
	}
	return suggest.Request{
		Message: message,
		Context: suggest.Context{
			PendingTasks:            pending,
			YesterdayCompletedCount: yesterdayDone,
			Streak:                  s.state.Profile.CurrentStreak,
		},
	}, nil
}

// ApplySuggestion adds a suggested task as a daily task due today.
func (s *Store) ApplySuggestion(item suggest.SuggestedTask) task.Task {
	priority := item.Priority
	if !priority.IsValid() {
		priority = task.PriorityMedium
	}
	return s.AddTask(task.Input{
		Title:            item.Title,
		Description:      item.Reason,
		Horizon:          task.HorizonDaily,
		Priority:         priority,
		Category:         SuggestionCategory,
		DueDate:          s.today(),
		EstimatedMinutes: item.EstimatedTime,
		Tags:             []string{SuggestionTag},
	})
}
