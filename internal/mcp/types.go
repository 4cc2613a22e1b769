// Package mcp serves the task store to AI assistants over the Model Context
// Protocol.
package mcp

import (
	"fmt"
	"strings"
)

// Tool names.
const (
	ToolAddTask    = "add-task"
	ToolListTasks  = "list-tasks"
	ToolToggleTask = "toggle-task"
	ToolDailyPlan  = "daily-plan"
	ToolProfile    = "profile"
)

// Error codes carried by ToolError.
const (
	CodeInvalidArgument = "invalid_argument"
	CodeNotFound        = "not_found"
	CodeAmbiguous       = "ambiguous_id"
)

// ToolError is returned to the client inside an IsError result so the model
// can read it and correct its call.
type ToolError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *ToolError) Error() string { return e.Code + ": " + e.Message }

// Markdown renders the error for the model.
func (e *ToolError) Markdown() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Error (%s):** %s\n", e.Code, e.Message)
	for k, v := range e.Details {
		fmt.Fprintf(&sb, "- %s: %v\n", k, v)
	}
	return sb.String()
}

func invalidArgument(field, message string) *ToolError {
	return &ToolError{Code: CodeInvalidArgument, Message: message, Details: map[string]any{"field": field}}
}

// AddTaskParams are the arguments of add-task.
type AddTaskParams struct {
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	Horizon          string   `json:"horizon,omitempty"`  // daily, monthly, yearly
	Priority         string   `json:"priority,omitempty"` // low, medium, high, critical
	Category         string   `json:"category,omitempty"`
	DueDate          string   `json:"due_date,omitempty"` // YYYY-MM-DD
	EstimatedMinutes int      `json:"estimated_minutes,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	Subtasks         []string `json:"subtasks,omitempty"`
}

// ListTasksParams are the arguments of list-tasks. View selects a derived
// list (today, month, year, rolled-over) and overrides the filters.
type ListTasksParams struct {
	View      string `json:"view,omitempty"`
	Horizon   string `json:"horizon,omitempty"`
	Priority  string `json:"priority,omitempty"`
	Category  string `json:"category,omitempty"`
	Energy    string `json:"energy,omitempty"`
	Completed *bool  `json:"completed,omitempty"`
	Query     string `json:"query,omitempty"`
}

// ToggleTaskParams are the arguments of toggle-task.
type ToggleTaskParams struct {
	TaskID string `json:"task_id"`
}

// DailyPlanParams has no fields; daily-plan always plans for today.
type DailyPlanParams struct{}

// ProfileParams are the arguments of profile.
type ProfileParams struct {
	IncludeLocked bool `json:"include_locked,omitempty"`
}
