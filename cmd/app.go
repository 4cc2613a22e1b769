package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/josephgoksu/TaskQuest/internal/config"
	"github.com/josephgoksu/TaskQuest/internal/persist"
	"github.com/josephgoksu/TaskQuest/internal/store"
	"github.com/josephgoksu/TaskQuest/internal/task"
	"github.com/josephgoksu/TaskQuest/internal/telemetry"
	"github.com/josephgoksu/TaskQuest/internal/util"
)

// session bundles what a command needs: validated config, the loaded
// store, its backend and telemetry. Close releases all of them.
type session struct {
	cfg       *config.Config
	store     *store.Store
	backend   persist.Closer
	telemetry telemetry.Client
	log       *slog.Logger
}

// openSession loads config, opens the configured backend and loads state.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := slog.Default().With("backend", cfg.Storage.Backend)

	backend, err := persist.Open(ctx, persist.Options{
		Backend:     cfg.Storage.Backend,
		DataDir:     cfg.Data.Dir,
		PostgresURL: cfg.Storage.PostgresURL,
		UserID:      cfg.User.ID,
	})
	if err != nil {
		return nil, wrapUser("could not open task storage", err)
	}

	st := store.New(
		store.WithPersister(backend),
		store.WithUserID(cfg.User.ID),
		store.WithProfileName(cfg.User.Name),
		store.WithLogger(log),
	)
	if err := st.Load(ctx); err != nil {
		_ = backend.Close()
		return nil, wrapUser("could not load saved tasks", err)
	}

	s := &session{cfg: cfg, store: st, backend: backend, telemetry: newTelemetry(cfg), log: log}
	if st.RefreshDailyChallenge() {
		if err := s.save(ctx); err != nil {
			log.Warn("persist refreshed challenge", "error", err)
		}
	}
	return s, nil
}

func (s *session) save(ctx context.Context) error {
	if err := s.store.Save(ctx); err != nil {
		return wrapUser("could not save tasks", err)
	}
	return nil
}

func (s *session) Close() error {
	_ = s.telemetry.Close()
	return s.backend.Close()
}

// resolveTask maps a full ID or unique prefix to a task.
func (s *session) resolveTask(idOrPrefix string) (task.Task, error) {
	id, err := util.ResolveTaskID(s.store.Tasks(), idOrPrefix)
	if err != nil {
		return task.Task{}, err
	}
	t, ok := s.store.Task(id)
	if !ok {
		return task.Task{}, fmt.Errorf("task %s: %w", id, util.ErrNotFound)
	}
	return t, nil
}

// withSession runs fn against an open session and always closes it.
func withSession(ctx context.Context, fn func(*session) error) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			s.log.Warn("close storage", "error", err)
		}
	}()
	return fn(s)
}

// newTelemetry returns a PostHog client when the user opted in and a key is
// configured, and a no-op client otherwise.
func newTelemetry(cfg *config.Config) telemetry.Client {
	dir, err := config.GetGlobalConfigDir()
	if err != nil {
		return telemetry.NoopClient{}
	}
	tcfg, err := telemetry.LoadConfig(dir)
	if err != nil {
		slog.Debug("telemetry config unreadable", "error", err)
		return telemetry.NoopClient{}
	}
	if cfg.Telemetry.Enabled {
		tcfg.Enabled = true
	}
	if !tcfg.Enabled || cfg.Telemetry.APIKey == "" {
		return telemetry.NoopClient{}
	}
	client, err := telemetry.NewPostHogClient(telemetry.ClientConfig{
		APIKey:  cfg.Telemetry.APIKey,
		Version: version,
		Config:  tcfg,
	})
	if err != nil {
		slog.Debug("telemetry disabled", "error", err)
		return telemetry.NoopClient{}
	}
	return client
}
