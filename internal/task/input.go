package task

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Input limits. Out-of-range values are clamped or truncated, never rejected.
const (
	MinMinutes           = 5
	MaxMinutes           = 480
	DefaultMinutes       = 30
	MaxTags              = 10
	MaxTagLength         = 24
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// NewID returns a short task identifier ("task-" + 8 hex chars).
func NewID() string {
	return "task-" + uuid.New().String()[:8]
}

// NewSubtaskID returns a short subtask identifier.
func NewSubtaskID() string {
	return "sub-" + uuid.New().String()[:8]
}

// Input carries the caller-supplied fields for a new task.
type Input struct {
	Title            string      `json:"title"`
	Description      string      `json:"description,omitempty"`
	Horizon          Horizon     `json:"horizon,omitempty"`
	Priority         Priority    `json:"priority,omitempty"`
	Category         string      `json:"category,omitempty"`
	DueDate          string      `json:"dueDate,omitempty"`
	Recurrence       Recurrence  `json:"recurrence,omitempty"`
	EnergyLevel      EnergyLevel `json:"energyLevel,omitempty"`
	EstimatedMinutes int         `json:"estimatedMinutes,omitempty"`
	Tags             []string    `json:"tags,omitempty"`
	Subtasks         []string    `json:"subtasks,omitempty"`
}

// New builds a task from sanitized input. XP is computed here and never again.
func New(in Input, now time.Time) Task {
	in = Sanitize(in)
	subtasks := make([]Subtask, 0, len(in.Subtasks))
	for _, title := range in.Subtasks {
		subtasks = append(subtasks, Subtask{ID: NewSubtaskID(), Title: title})
	}
	return Task{
		ID:               NewID(),
		Title:            in.Title,
		Description:      in.Description,
		Horizon:          in.Horizon,
		Priority:         in.Priority,
		Category:         in.Category,
		DueDate:          in.DueDate,
		Recurrence:       in.Recurrence,
		EnergyLevel:      in.EnergyLevel,
		EstimatedMinutes: in.EstimatedMinutes,
		Tags:             in.Tags,
		Subtasks:         subtasks,
		XPValue:          CalculateXP(in.Priority, in.Horizon),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// Sanitize normalizes user input: trims text, clamps durations, caps tags and
// replaces unknown enum values with defaults.
func Sanitize(in Input) Input {
	in.Title = truncate(strings.TrimSpace(in.Title), MaxTitleLength)
	in.Description = truncate(strings.TrimSpace(in.Description), MaxDescriptionLength)
	if !in.Horizon.IsValid() {
		in.Horizon = HorizonDaily
	}
	if !in.Priority.IsValid() {
		in.Priority = PriorityMedium
	}
	if !in.Recurrence.IsValid() {
		in.Recurrence = RecurrenceNone
	}
	if !in.EnergyLevel.IsValid() {
		in.EnergyLevel = EnergyMedium
	}
	in.Category = NormalizeCategory(in.Category)
	if _, err := ParseDate(in.DueDate); err != nil {
		in.DueDate = ""
	}
	in.EstimatedMinutes = ClampMinutes(in.EstimatedMinutes)
	in.Tags = SanitizeTags(in.Tags)

	subtasks := in.Subtasks[:0:0]
	for _, s := range in.Subtasks {
		if s = truncate(strings.TrimSpace(s), MaxTitleLength); s != "" {
			subtasks = append(subtasks, s)
		}
	}
	in.Subtasks = subtasks
	return in
}

// ClampMinutes keeps a duration inside [MinMinutes, MaxMinutes]. Zero means unset
// and becomes DefaultMinutes.
func ClampMinutes(m int) int {
	switch {
	case m == 0:
		return DefaultMinutes
	case m < MinMinutes:
		return MinMinutes
	case m > MaxMinutes:
		return MaxMinutes
	default:
		return m
	}
}

// SanitizeTags trims, de-duplicates (case-insensitively) and caps the tag list.
func SanitizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = truncate(strings.TrimSpace(tag), MaxTagLength)
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
		if len(out) == MaxTags {
			break
		}
	}
	return out
}

var titleCaser = cases.Title(language.Und)

// NormalizeCategory title-cases all-lowercase categories ("work" -> "Work") and
// leaves mixed-case input alone.
func NormalizeCategory(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return ""
	}
	for _, r := range c {
		if unicode.IsUpper(r) {
			return c
		}
	}
	return titleCaser.String(c)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// Patch is a partial update. Nil fields are left untouched. XPValue is not
// patchable: it stays locked at its creation value.
type Patch struct {
	Title            *string      `json:"title,omitempty"`
	Description      *string      `json:"description,omitempty"`
	Horizon          *Horizon     `json:"horizon,omitempty"`
	Priority         *Priority    `json:"priority,omitempty"`
	Category         *string      `json:"category,omitempty"`
	DueDate          *string      `json:"dueDate,omitempty"`
	Recurrence       *Recurrence  `json:"recurrence,omitempty"`
	EnergyLevel      *EnergyLevel `json:"energyLevel,omitempty"`
	EstimatedMinutes *int         `json:"estimatedMinutes,omitempty"`
	Tags             []string     `json:"tags,omitempty"`
	Subtasks         []Subtask    `json:"subtasks,omitempty"`
}

// Apply merges the patch into t. Invalid enum values and unparsable dates are ignored.
func (p Patch) Apply(t *Task, now time.Time) {
	if p.Title != nil {
		if title := truncate(strings.TrimSpace(*p.Title), MaxTitleLength); title != "" {
			t.Title = title
		}
	}
	if p.Description != nil {
		t.Description = truncate(strings.TrimSpace(*p.Description), MaxDescriptionLength)
	}
	if p.Horizon != nil && p.Horizon.IsValid() {
		t.Horizon = *p.Horizon
	}
	if p.Priority != nil && p.Priority.IsValid() {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = NormalizeCategory(*p.Category)
	}
	if p.DueDate != nil {
		if *p.DueDate == "" {
			t.DueDate = ""
		} else if _, err := ParseDate(*p.DueDate); err == nil {
			t.DueDate = *p.DueDate
		}
	}
	if p.Recurrence != nil && p.Recurrence.IsValid() {
		t.Recurrence = *p.Recurrence
	}
	if p.EnergyLevel != nil && p.EnergyLevel.IsValid() {
		t.EnergyLevel = *p.EnergyLevel
	}
	if p.EstimatedMinutes != nil {
		t.EstimatedMinutes = ClampMinutes(*p.EstimatedMinutes)
	}
	if p.Tags != nil {
		t.Tags = SanitizeTags(p.Tags)
	}
	if p.Subtasks != nil {
		subtasks := make([]Subtask, 0, len(p.Subtasks))
		for _, s := range p.Subtasks {
			s.Title = truncate(strings.TrimSpace(s.Title), MaxTitleLength)
			if s.Title == "" {
				continue
			}
			if s.ID == "" {
				s.ID = NewSubtaskID()
			}
			subtasks = append(subtasks, s)
		}
		t.Subtasks = subtasks
	}
	t.UpdatedAt = now
}
