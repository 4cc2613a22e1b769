package mcp

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/josephgoksu/TaskQuest/internal/store"
	"github.com/josephgoksu/TaskQuest/internal/task"
	"github.com/josephgoksu/TaskQuest/internal/telemetry"
	"github.com/josephgoksu/TaskQuest/internal/util"
)

// Handlers implements the tools over one store. Each mutating tool saves
// before returning.
type Handlers struct {
	Store     *store.Store
	Telemetry telemetry.Client
	Log       *slog.Logger
}

func (h *Handlers) logger() *slog.Logger {
	if h.Log == nil {
		return slog.Default()
	}
	return h.Log
}

func (h *Handlers) track(events ...telemetry.Event) {
	if h.Telemetry != nil {
		telemetry.TrackAll(h.Telemetry, events...)
	}
}

func (h *Handlers) save(ctx context.Context) {
	if err := h.Store.Save(ctx); err != nil {
		h.logger().Warn("save state failed", "error", err)
	}
}

func (h *Handlers) AddTask(ctx context.Context, p AddTaskParams) (string, *ToolError) {
	if strings.TrimSpace(p.Title) == "" {
		return "", invalidArgument("title", "title is required")
	}
	in := task.Input{
		Title:            p.Title,
		Description:      p.Description,
		Horizon:          task.Horizon(p.Horizon),
		Priority:         task.Priority(p.Priority),
		Category:         p.Category,
		DueDate:          p.DueDate,
		EstimatedMinutes: p.EstimatedMinutes,
		Tags:             p.Tags,
		Subtasks:         p.Subtasks,
	}
	if in.Horizon != "" && !in.Horizon.IsValid() {
		return "", invalidArgument("horizon", "horizon must be daily, monthly or yearly")
	}
	if in.Priority != "" && !in.Priority.IsValid() {
		return "", invalidArgument("priority", "priority must be low, medium, high or critical")
	}
	if in.DueDate != "" {
		if _, err := task.ParseDate(in.DueDate); err != nil {
			return "", invalidArgument("due_date", "due_date must be YYYY-MM-DD")
		}
	}

	t := h.Store.AddTask(in)
	h.save(ctx)
	return "Added:\n" + FormatTasks("Task", []task.Task{t}, h.Store.Today()), nil
}

func (h *Handlers) ListTasks(_ context.Context, p ListTasksParams) (string, *ToolError) {
	today := h.Store.Today()
	switch p.View {
	case "today":
		return FormatTasks("Today", h.Store.TodaysTasks(), today), nil
	case "month":
		return FormatTasks("This month", h.Store.MonthlyTasks(), today), nil
	case "year":
		return FormatTasks("This year", h.Store.YearlyTasks(), today), nil
	case "rolled-over":
		return FormatTasks("Rolled over", h.Store.RolledOverTasks(), today), nil
	case "":
	default:
		return "", &ToolError{Code: CodeInvalidArgument, Message: "unknown view " + p.View,
			Details: map[string]any{"field": "view", "allowed": "today, month, year, rolled-over"}}
	}

	f := task.Filter{
		Horizon:     task.Horizon(p.Horizon),
		Priority:    task.Priority(p.Priority),
		Category:    p.Category,
		EnergyLevel: task.EnergyLevel(p.Energy),
		IsCompleted: p.Completed,
		Search:      p.Query,
	}
	if f.Horizon != "" && !f.Horizon.IsValid() {
		return "", invalidArgument("horizon", "horizon must be daily, monthly or yearly")
	}
	if f.Priority != "" && !f.Priority.IsValid() {
		return "", invalidArgument("priority", "priority must be low, medium, high or critical")
	}
	if f.EnergyLevel != "" && !f.EnergyLevel.IsValid() {
		return "", invalidArgument("energy", "energy must be low, medium or high")
	}
	return FormatTasks("Tasks", h.Store.FilteredTasks(f), today), nil
}

func (h *Handlers) ToggleTask(ctx context.Context, p ToggleTaskParams) (string, *ToolError) {
	id, err := util.ResolveTaskID(h.Store.Tasks(), p.TaskID)
	if err != nil {
		code := CodeNotFound
		if errors.Is(err, util.ErrAmbiguousID) {
			code = CodeAmbiguous
		}
		return "", &ToolError{Code: code, Message: err.Error(), Details: map[string]any{"task_id": p.TaskID}}
	}
	res, ok := h.Store.ToggleTask(id)
	if !ok {
		return "", &ToolError{Code: CodeNotFound, Message: "task not found", Details: map[string]any{"task_id": id}}
	}
	h.save(ctx)
	profile := h.Store.Profile()
	if res.Completed {
		h.track(telemetry.CompletionEvents(res.Task, profile, res.Outcome)...)
	}
	return FormatToggle(res, profile), nil
}

func (h *Handlers) DailyPlan(context.Context, DailyPlanParams) (string, *ToolError) {
	plan := h.Store.DailyPlan()
	h.track(telemetry.PlanEvent(plan))
	return FormatPlan(plan), nil
}

func (h *Handlers) Profile(_ context.Context, p ProfileParams) (string, *ToolError) {
	return FormatProfile(h.Store.Profile(), p.IncludeLocked), nil
}
