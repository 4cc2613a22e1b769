package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/josephgoksu/TaskQuest/internal/gamification"
	"github.com/josephgoksu/TaskQuest/internal/store"
	"github.com/josephgoksu/TaskQuest/internal/task"
)

// sqlStore is the row mapping shared by the SQLite and PostgreSQL backends.
// Tasks and history are rows; the profile (badges, challenge, preferences)
// is a JSON document on the users row.
type sqlStore struct {
	db       *sql.DB
	userID   string
	numbered bool // $1 placeholders instead of ?
}

func (s *sqlStore) rebind(query string) string {
	if !s.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

// Load implements store.Persister.
func (s *sqlStore) Load(ctx context.Context) (*store.State, error) {
	var (
		version     int
		currentView string
		profileJSON string
	)
	err := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT version, current_view, profile FROM users WHERE id = ?`), s.userID).
		Scan(&version, &currentView, &profileJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	state := &store.State{Version: version, CurrentView: store.View(currentView)}
	if err := json.Unmarshal([]byte(profileJSON), &state.Profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if state.Tasks, err = s.loadTasks(ctx); err != nil {
		return nil, err
	}
	if state.History, err = s.loadHistory(ctx); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *sqlStore) loadTasks(ctx context.Context) ([]task.Task, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT data FROM tasks WHERE user_id = ? ORDER BY position`), s.userID)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		var t task.Task
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (s *sqlStore) loadHistory(ctx context.Context) (gamification.History, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT date, completed, total, xp_earned FROM completion_history WHERE user_id = ? ORDER BY date`), s.userID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	history := gamification.History{}
	for rows.Next() {
		var rec gamification.CompletionRecord
		if err := rows.Scan(&rec.Date, &rec.Completed, &rec.Total, &rec.XPEarned); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		history = append(history, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return history, nil
}

// Save implements store.Persister. The user's rows are replaced in a single
// transaction.
func (s *sqlStore) Save(ctx context.Context, st store.State) (err error) {
	profileJSON, err := json.Marshal(st.Profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err = tx.ExecContext(ctx, s.rebind(`
		INSERT INTO users (id, version, current_view, profile, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			version = excluded.version,
			current_view = excluded.current_view,
			profile = excluded.profile,
			updated_at = excluded.updated_at`),
		s.userID, st.Version, string(st.CurrentView), string(profileJSON), now); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	if _, err = tx.ExecContext(ctx, s.rebind(`DELETE FROM tasks WHERE user_id = ?`), s.userID); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	for i, t := range st.Tasks {
		data, mErr := json.Marshal(t)
		if mErr != nil {
			err = fmt.Errorf("encode task %s: %w", t.ID, mErr)
			return err
		}
		if _, err = tx.ExecContext(ctx, s.rebind(`
			INSERT INTO tasks (user_id, id, position, horizon, priority, due_date, is_completed, data)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
			s.userID, t.ID, i, string(t.Horizon), string(t.Priority), t.DueDate, t.IsCompleted, string(data)); err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
	}

	if _, err = tx.ExecContext(ctx, s.rebind(`DELETE FROM completion_history WHERE user_id = ?`), s.userID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	for _, rec := range st.History {
		if _, err = tx.ExecContext(ctx, s.rebind(`
			INSERT INTO completion_history (user_id, date, completed, total, xp_earned)
			VALUES (?, ?, ?, ?, ?)`),
			s.userID, rec.Date, rec.Completed, rec.Total, rec.XPEarned); err != nil {
			return fmt.Errorf("insert history %s: %w", rec.Date, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
