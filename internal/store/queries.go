package store

import (
	"math"
	"sort"
	"strings"

	"github.com/josephgoksu/TaskQuest/internal/gamification"
	"github.com/josephgoksu/TaskQuest/internal/planner"
	"github.com/josephgoksu/TaskQuest/internal/task"
)

// Derived views are recomputed on every call; each is O(n) over the tasks.

func cloneAll(tasks []task.Task) []task.Task {
	out := make([]task.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

func (s *Store) selectTasks(keep func(*task.Task) bool) []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []task.Task{}
	for i := range s.state.Tasks {
		if keep(&s.state.Tasks[i]) {
			out = append(out, s.state.Tasks[i].Clone())
		}
	}
	return out
}

// Tasks returns every task in insertion order.
func (s *Store) Tasks() []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.state.Tasks)
}

// Task returns one task by id.
func (s *Store) Task(id string) (task.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.state.Tasks[i].Clone(), true
	}
	return task.Task{}, false
}

// Profile returns a copy of the player profile.
func (s *Store) Profile() gamification.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Profile.Clone()
}

// History returns a copy of the completion ledger.
func (s *Store) History() gamification.History {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.History.Clone()
}

// todaysTasks is TodaysTasks without locking or copying. Callers hold mu.
func (s *Store) todaysTasks(today string) []*task.Task {
	var out []*task.Task
	for i := range s.state.Tasks {
		t := &s.state.Tasks[i]
		if t.Horizon == task.HorizonDaily && (t.DueDate == "" || t.DueDate <= today) {
			out = append(out, t)
		}
	}
	return out
}

// TodaysTasks returns daily tasks with no due date or one on or before today.
func (s *Store) TodaysTasks() []task.Task {
	today := s.today()
	return s.selectTasks(func(t *task.Task) bool {
		return t.Horizon == task.HorizonDaily && (t.DueDate == "" || t.DueDate <= today)
	})
}

// MonthlyTasks returns monthly tasks due this month or undated.
func (s *Store) MonthlyTasks() []task.Task {
	today := s.today()
	return s.selectTasks(func(t *task.Task) bool {
		return t.Horizon == task.HorizonMonthly && (t.DueDate == "" || task.SameMonth(t.DueDate, today))
	})
}

// YearlyTasks returns yearly tasks due this year or undated.
func (s *Store) YearlyTasks() []task.Task {
	today := s.today()
	return s.selectTasks(func(t *task.Task) bool {
		return t.Horizon == task.HorizonYearly && (t.DueDate == "" || task.SameYear(t.DueDate, today))
	})
}

// FilteredTasks returns tasks matching every predicate set on f.
func (s *Store) FilteredTasks(f task.Filter) []task.Task {
	return s.selectTasks(f.Matches)
}

// RolledOverTasks returns incomplete tasks whose due date has passed.
func (s *Store) RolledOverTasks() []task.Task {
	today := s.today()
	return s.selectTasks(func(t *task.Task) bool { return t.IsRolledOver(today) })
}

// CompletionRate is the completed percentage (0..100) over all tasks, or over
// one horizon when h is set. An empty set yields 0.
func (s *Store) CompletionRate(h task.Horizon) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return completionRate(s.state.Tasks, h)
}

func completionRate(tasks []task.Task, h task.Horizon) float64 {
	total, done := 0, 0
	for i := range tasks {
		if h != "" && tasks[i].Horizon != h {
			continue
		}
		total++
		if tasks[i].IsCompleted {
			done++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total) * 100
}

// TodaysFocus returns the most important incomplete task for today. Ties go
// to the earliest due date (undated last), then to insertion order.
func (s *Store) TodaysFocus() (task.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *task.Task
	for _, t := range s.todaysTasks(s.today()) {
		if t.IsCompleted {
			continue
		}
		if best == nil || focusBefore(t, best) {
			best = t
		}
	}
	if best == nil {
		return task.Task{}, false
	}
	return best.Clone(), true
}

func focusBefore(a, b *task.Task) bool {
	if a.Priority.Score() != b.Priority.Score() {
		return a.Priority.Score() > b.Priority.Score()
	}
	switch {
	case a.DueDate == b.DueDate:
		return false
	case a.DueDate == "":
		return false
	case b.DueDate == "":
		return true
	default:
		return a.DueDate < b.DueDate
	}
}

// CategoryStat aggregates tasks sharing a category.
type CategoryStat struct {
	Category  string  `json:"category"`
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Rate      float64 `json:"rate"`
	XPEarned  int     `json:"xpEarned"`
}

// UncategorizedLabel names tasks with an empty category in CategoryStats.
const UncategorizedLabel = "Uncategorized"

// CategoryStats groups tasks by category (case-insensitively), sorted by
// total descending then name.
func (s *Store) CategoryStats() []CategoryStat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byKey := make(map[string]*CategoryStat)
	var order []string
	for _, t := range s.state.Tasks {
		name := strings.TrimSpace(t.Category)
		if name == "" {
			name = UncategorizedLabel
		}
		key := strings.ToLower(name)
		st, ok := byKey[key]
		if !ok {
			st = &CategoryStat{Category: name}
			byKey[key] = st
			order = append(order, key)
		}
		st.Total++
		if t.IsCompleted {
			st.Completed++
			st.XPEarned += t.XPValue
		}
	}

	out := make([]CategoryStat, 0, len(order))
	for _, key := range order {
		st := byKey[key]
		st.Rate = float64(st.Completed) / float64(st.Total) * 100
		out = append(out, *st)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// DayStat is one day of the weekly chart.
type DayStat struct {
	Date      string `json:"date"`
	Label     string `json:"label"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	XPEarned  int    `json:"xpEarned"`
}

// WeeklyCompletionData returns the last seven days ending today, oldest first.
// Days without a history record are zero.
func (s *Store) WeeklyCompletionData() []DayStat {
	now := s.now()
	today := task.FormatDate(now)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]DayStat, 0, 7)
	for i := 6; i >= 0; i-- {
		date := task.AddDays(today, -i)
		d := DayStat{Date: date, Label: now.AddDate(0, 0, -i).Weekday().String()[:3]}
		if rec, ok := s.state.History.Find(date); ok {
			d.Completed, d.Total, d.XPEarned = rec.Completed, rec.Total, rec.XPEarned
		}
		out = append(out, d)
	}
	return out
}

// ProductivityScore is min(100, round(rate*0.7 + min(streak*2, 20) + min(level, 10)))
// where rate is the overall completion percentage.
func (s *Store) ProductivityScore() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.state.Profile
	score := completionRate(s.state.Tasks, "")*0.7 +
		float64(min(p.CurrentStreak*2, 20)) +
		float64(min(p.Level, 10))
	return min(100, int(math.Round(score)))
}

// Stats bundles the reporting views.
type Stats struct {
	CompletionRate    float64                  `json:"completionRate"`
	HorizonRates      map[task.Horizon]float64 `json:"horizonRates"`
	ProductivityScore int                      `json:"productivityScore"`
	Categories        []CategoryStat           `json:"categories"`
	Weekly            []DayStat                `json:"weekly"`
	RolledOver        int                      `json:"rolledOver"`
}

// Stats computes every reporting view at once.
func (s *Store) Stats() Stats {
	rates := make(map[task.Horizon]float64, len(task.Horizons))
	for _, h := range task.Horizons {
		rates[h] = s.CompletionRate(h)
	}
	return Stats{
		CompletionRate:    s.CompletionRate(""),
		HorizonRates:      rates,
		ProductivityScore: s.ProductivityScore(),
		Categories:        s.CategoryStats(),
		Weekly:            s.WeeklyCompletionData(),
		RolledOver:        len(s.RolledOverTasks()),
	}
}

// Today is the store clock's calendar date.
func (s *Store) Today() string { return s.today() }

// DailyPlan builds today's recommended plan from the current state.
func (s *Store) DailyPlan() planner.Plan {
	today := s.today()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return planner.BuildDailyPlan(s.state.Tasks, s.state.Profile, s.state.History, today)
}
