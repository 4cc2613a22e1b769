// Package util resolves the short task and subtask IDs users type.
package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/josephgoksu/TaskQuest/internal/task"
)

const (
	TaskIDPrefix    = "task-"
	SubtaskIDPrefix = "sub-"

	// MaxAmbiguousCandidates caps the IDs listed in an ambiguity error.
	MaxAmbiguousCandidates = 5
)

var (
	ErrAmbiguousID = errors.New("ambiguous ID prefix")
	ErrNotFound    = errors.New("not found")
)

// ResolveTaskID maps a full ID or a unique prefix (with or without "task-")
// to a task ID. An exact match always wins over prefix matches.
func ResolveTaskID(tasks []task.Task, idOrPrefix string) (string, error) {
	ids := make([]string, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].ID
	}
	return resolve(ids, idOrPrefix, TaskIDPrefix, "task")
}

// ResolveSubtaskID does the same for the subtasks of t.
func ResolveSubtaskID(t task.Task, idOrPrefix string) (string, error) {
	ids := make([]string, len(t.Subtasks))
	for i, st := range t.Subtasks {
		ids[i] = st.ID
	}
	return resolve(ids, idOrPrefix, SubtaskIDPrefix, "subtask")
}

func resolve(ids []string, idOrPrefix, prefix, entity string) (string, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return "", fmt.Errorf("%s ID: %w", entity, ErrNotFound)
	}
	normalized := idOrPrefix
	if !strings.HasPrefix(normalized, prefix) {
		normalized = prefix + normalized
	}

	var candidates []string
	for _, id := range ids {
		if id == idOrPrefix || id == normalized {
			return id, nil
		}
		if strings.HasPrefix(id, normalized) {
			candidates = append(candidates, id)
		}
	}
	return fromCandidates(normalized, candidates, entity)
}

func fromCandidates(prefix string, candidates []string, entity string) (string, error) {
	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("%s with prefix %q: %w", entity, prefix, ErrNotFound)
	case 1:
		return candidates[0], nil
	default:
		shown := candidates
		if len(shown) > MaxAmbiguousCandidates {
			shown = shown[:MaxAmbiguousCandidates]
		}
		return "", fmt.Errorf("%w: prefix %q matches %d %ss: %v",
			ErrAmbiguousID, prefix, len(candidates), entity, shown)
	}
}
