package task

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Horizon is the planning timescale a task belongs to.
type Horizon string

const (
	HorizonDaily   Horizon = "daily"
	HorizonMonthly Horizon = "monthly"
	HorizonYearly  Horizon = "yearly"
)

// Horizons lists every horizon in display order.
var Horizons = []Horizon{HorizonDaily, HorizonMonthly, HorizonYearly}

func (h Horizon) IsValid() bool {
	switch h {
	case HorizonDaily, HorizonMonthly, HorizonYearly:
		return true
	default:
		return false
	}
}

// Priority ranks how important a task is.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

// Score maps a priority onto 1 (low) .. 4 (critical). Unknown values score 0.
func (p Priority) Score() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// IsImportant reports whether the priority is high or critical.
func (p Priority) IsImportant() bool {
	return p == PriorityHigh || p == PriorityCritical
}

// EnergyLevel is how demanding a task feels.
type EnergyLevel string

const (
	EnergyLow    EnergyLevel = "low"
	EnergyMedium EnergyLevel = "medium"
	EnergyHigh   EnergyLevel = "high"
)

func (e EnergyLevel) IsValid() bool {
	switch e {
	case EnergyLow, EnergyMedium, EnergyHigh:
		return true
	default:
		return false
	}
}

// Recurrence describes how a task repeats.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

func (r Recurrence) IsValid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	default:
		return false
	}
}

// XP table. A task's XP value is round(PriorityXP * HorizonMultiplier).
var (
	PriorityXP = map[Priority]int{
		PriorityLow:      10,
		PriorityMedium:   20,
		PriorityHigh:     35,
		PriorityCritical: 50,
	}
	HorizonMultiplier = map[Horizon]float64{
		HorizonDaily:   1,
		HorizonMonthly: 1.5,
		HorizonYearly:  2,
	}
)

// CalculateXP returns the XP a task of the given priority and horizon is worth.
// The value is frozen on the task at creation time.
func CalculateXP(p Priority, h Horizon) int {
	mult, ok := HorizonMultiplier[h]
	if !ok {
		mult = 1
	}
	return int(math.Round(float64(PriorityXP[p]) * mult))
}

// Subtask is a checklist item inside a task.
type Subtask struct {
	ID          string `json:"id" yaml:"id" toml:"id"`
	Title       string `json:"title" yaml:"title" toml:"title"`
	IsCompleted bool   `json:"isCompleted" yaml:"isCompleted" toml:"isCompleted"`
}

// Task is a unit of work owned by the store.
type Task struct {
	ID               string      `json:"id" yaml:"id" toml:"id"`
	Title            string      `json:"title" yaml:"title" toml:"title"`
	Description      string      `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Horizon          Horizon     `json:"horizon" yaml:"horizon" toml:"horizon"`
	Priority         Priority    `json:"priority" yaml:"priority" toml:"priority"`
	Category         string      `json:"category,omitempty" yaml:"category,omitempty" toml:"category,omitempty"`
	DueDate          string      `json:"dueDate,omitempty" yaml:"dueDate,omitempty" toml:"dueDate,omitempty"` // YYYY-MM-DD, empty when unset
	Recurrence       Recurrence  `json:"recurrence" yaml:"recurrence" toml:"recurrence"`
	EnergyLevel      EnergyLevel `json:"energyLevel" yaml:"energyLevel" toml:"energyLevel"`
	EstimatedMinutes int         `json:"estimatedMinutes" yaml:"estimatedMinutes" toml:"estimatedMinutes"`
	Tags             []string    `json:"tags" yaml:"tags" toml:"tags"`
	Subtasks         []Subtask   `json:"subtasks" yaml:"subtasks" toml:"subtasks"`
	XPValue          int         `json:"xpValue" yaml:"xpValue" toml:"xpValue"`
	IsCompleted      bool        `json:"isCompleted" yaml:"isCompleted" toml:"isCompleted"`
	CompletedAt      *time.Time  `json:"completedAt,omitempty" yaml:"completedAt,omitempty" toml:"completedAt,omitempty"`
	PostponedCount   int         `json:"postponedCount" yaml:"postponedCount" toml:"postponedCount"`
	CreatedAt        time.Time   `json:"createdAt" yaml:"createdAt" toml:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt"`
}

// IsRolledOver reports whether the task is incomplete and its due date is before today.
func (t *Task) IsRolledOver(today string) bool {
	return !t.IsCompleted && t.DueDate != "" && t.DueDate < today
}

// CompletedOn reports whether the task was completed on the given calendar date.
func (t *Task) CompletedOn(date string, loc *time.Location) bool {
	if !t.IsCompleted || t.CompletedAt == nil {
		return false
	}
	return FormatDate(t.CompletedAt.In(loc)) == date
}

// DurationOrDefault returns the estimated duration, falling back to DefaultMinutes.
func (t *Task) DurationOrDefault() int {
	if t.EstimatedMinutes <= 0 {
		return DefaultMinutes
	}
	return t.EstimatedMinutes
}

// Validate checks the invariants a stored task must satisfy.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("id required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("title required")
	}
	if len([]rune(t.Title)) > MaxTitleLength {
		return fmt.Errorf("title too long (max %d chars)", MaxTitleLength)
	}
	if !t.Horizon.IsValid() {
		return fmt.Errorf("invalid horizon %q", t.Horizon)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("invalid priority %q", t.Priority)
	}
	if t.DueDate != "" {
		if _, err := ParseDate(t.DueDate); err != nil {
			return fmt.Errorf("invalid due date %q: %w", t.DueDate, err)
		}
	}
	if len(t.Tags) > MaxTags {
		return fmt.Errorf("too many tags (max %d)", MaxTags)
	}
	if t.PostponedCount < 0 {
		return fmt.Errorf("postponed count must be >= 0")
	}
	return nil
}

// Clone returns a deep copy so callers never alias store-owned slices.
func (t Task) Clone() Task {
	out := t
	if t.Tags != nil {
		out.Tags = append([]string(nil), t.Tags...)
	}
	if t.Subtasks != nil {
		out.Subtasks = append([]Subtask(nil), t.Subtasks...)
	}
	if t.CompletedAt != nil {
		ts := *t.CompletedAt
		out.CompletedAt = &ts
	}
	return out
}
