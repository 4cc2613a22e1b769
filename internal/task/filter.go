package task

import "strings"

// Filter is a conjunction of optional predicates. Zero-valued fields match everything.
type Filter struct {
	Horizon     Horizon     `json:"horizon,omitempty"`
	Priority    Priority    `json:"priority,omitempty"`
	Category    string      `json:"category,omitempty"`
	EnergyLevel EnergyLevel `json:"energyLevel,omitempty"`
	IsCompleted *bool       `json:"isCompleted,omitempty"`
	Search      string      `json:"search,omitempty"`
}

// Matches reports whether t satisfies every set predicate. Search is a
// case-insensitive substring match over title and description.
func (f Filter) Matches(t *Task) bool {
	if f.Horizon != "" && t.Horizon != f.Horizon {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Category != "" && !strings.EqualFold(t.Category, f.Category) {
		return false
	}
	if f.EnergyLevel != "" && t.EnergyLevel != f.EnergyLevel {
		return false
	}
	if f.IsCompleted != nil && t.IsCompleted != *f.IsCompleted {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		haystack := strings.ToLower(t.Title + " " + t.Description)
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	return true
}
