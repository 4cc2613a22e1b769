package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/josephgoksu/TaskQuest/internal/gamification"
	"github.com/josephgoksu/TaskQuest/internal/store"
	"github.com/josephgoksu/TaskQuest/internal/suggest"
	"github.com/josephgoksu/TaskQuest/internal/task"
	"github.com/josephgoksu/TaskQuest/internal/telemetry"
	"github.com/josephgoksu/TaskQuest/internal/util"
)

// resolveID maps the {id} path segment (full ID or unique prefix) to a task
// ID, writing 404 or 409 on failure.
func (s *Server) resolveID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := util.ResolveTaskID(s.store.Tasks(), chi.URLParam(r, "id"))
	switch {
	case err == nil:
		return id, true
	case errors.Is(err, util.ErrAmbiguousID):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusNotFound, err.Error())
	}
	return "", false
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Stats())
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	plan := s.store.DailyPlan()
	telemetry.TrackAll(s.telemetry, telemetry.PlanEvent(plan))
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	s.store.PruneNotifications()
	notes := s.store.Notifications()
	if notes == nil {
		notes = []gamification.Notification{}
	}
	writeJSON(w, http.StatusOK, notes)
}

func (s *Server) handleDismissNotification(w http.ResponseWriter, r *http.Request) {
	if !s.store.DismissNotification(chi.URLParam(r, "notificationID")) {
		writeError(w, http.StatusNotFound, "notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type viewRequest struct {
	View store.View `json:"view"`
}

func (s *Server) handleSetView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !s.store.SetCurrentView(req.View) {
		writeError(w, http.StatusBadRequest, "unknown view "+strconv.Quote(string(req.View)))
		return
	}
	s.persist(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	switch view := chi.URLParam(r, "view"); view {
	case "today":
		writeJSON(w, http.StatusOK, nonNil(s.store.TodaysTasks()))
	case "month":
		writeJSON(w, http.StatusOK, nonNil(s.store.MonthlyTasks()))
	case "year":
		writeJSON(w, http.StatusOK, nonNil(s.store.YearlyTasks()))
	case "rolled-over":
		writeJSON(w, http.StatusOK, nonNil(s.store.RolledOverTasks()))
	case "focus":
		t, ok := s.store.TodaysFocus()
		if !ok {
			writeError(w, http.StatusNotFound, "no open task for today")
			return
		}
		writeJSON(w, http.StatusOK, t)
	default:
		writeError(w, http.StatusNotFound, "unknown view "+strconv.Quote(view))
	}
}

func nonNil(tasks []task.Task) []task.Task {
	if tasks == nil {
		return []task.Task{}
	}
	return tasks
}

// filterFromQuery reads horizon, priority, category, energy, completed and q.
func filterFromQuery(r *http.Request) (task.Filter, error) {
	q := r.URL.Query()
	f := task.Filter{
		Horizon:     task.Horizon(q.Get("horizon")),
		Priority:    task.Priority(q.Get("priority")),
		Category:    q.Get("category"),
		EnergyLevel: task.EnergyLevel(q.Get("energy")),
		Search:      q.Get("q"),
	}
	if f.Horizon != "" && !f.Horizon.IsValid() {
		return f, errors.New("invalid horizon")
	}
	if f.Priority != "" && !f.Priority.IsValid() {
		return f, errors.New("invalid priority")
	}
	if f.EnergyLevel != "" && !f.EnergyLevel.IsValid() {
		return f, errors.New("invalid energy")
	}
	if c := q.Get("completed"); c != "" {
		done, err := strconv.ParseBool(c)
		if err != nil {
			return f, errors.New("completed must be true or false")
		}
		f.IsCompleted = &done
	}
	return f, nil
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, nonNil(s.store.FilteredTasks(f)))
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.resolveID(w, r)
	if !ok {
		return
	}
	t, _ := s.store.Task(id)
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in task.Input
	if !decodeBody(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	t := s.store.AddTask(in)
	s.persist(r.Context())
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.resolveID(w, r)
	if !ok {
		return
	}
	var p task.Patch
	if !decodeBody(w, r, &p) {
		return
	}
	t, ok := s.store.UpdateTask(id, p)
	if !ok {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	s.persist(r.Context())
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.resolveID(w, r)
	if !ok {
		return
	}
	if !s.store.DeleteTask(id) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	s.persist(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.resolveID(w, r)
	if !ok {
		return
	}
	res, ok := s.store.ToggleTask(id)
	if !ok {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	s.persist(r.Context())
	if res.Completed {
		telemetry.TrackAll(s.telemetry, telemetry.CompletionEvents(res.Task, s.store.Profile(), res.Outcome)...)
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleToggleSubtask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.resolveID(w, r)
	if !ok {
		return
	}
	t, _ := s.store.Task(id)
	subID, err := util.ResolveSubtaskID(t, chi.URLParam(r, "subtaskID"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	t, ok = s.store.ToggleSubtask(id, subID)
	if !ok {
		writeError(w, http.StatusNotFound, "subtask not found")
		return
	}
	s.persist(r.Context())
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handlePostponeTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.resolveID(w, r)
	if !ok {
		return
	}
	t, ok := s.store.PostponeTask(id)
	if !ok {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	s.persist(r.Context())
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleApplySuggestion(w http.ResponseWriter, r *http.Request) {
	var item suggest.SuggestedTask
	if !decodeBody(w, r, &item) {
		return
	}
	if strings.TrimSpace(item.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	t := s.store.ApplySuggestion(item)
	s.persist(r.Context())
	telemetry.TrackAll(s.telemetry, telemetry.SuggestionEvent(t))
	writeJSON(w, http.StatusCreated, t)
}
