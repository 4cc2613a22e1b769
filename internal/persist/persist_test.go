package persist

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/josephgoksu/TaskQuest/internal/store"
	"github.com/josephgoksu/TaskQuest/internal/task"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 6, 30, 0, 0, time.UTC)

// sampleState plays a short session: three tasks, one completed before
// 07:00 so the early-bird badge unlocks.
func sampleState(t *testing.T) store.State {
	t.Helper()
	s := store.New(store.WithClock(func() time.Time { return testNow }), store.WithUserID("user-1"))
	a := s.AddTask(task.Input{Title: "Morning run", Priority: task.PriorityHigh, Tags: []string{"health"}, Subtasks: []string{"stretch"}})
	s.AddTask(task.Input{Title: "Plan quarter", Horizon: task.HorizonMonthly, Category: "work"})
	s.AddTask(task.Input{Title: "Read a novel", Horizon: task.HorizonYearly, DueDate: "2026-12-31"})
	_, ok := s.ToggleTask(a.ID)
	require.True(t, ok)
	require.True(t, s.SetCurrentView(store.ViewStats))
	return s.Snapshot()
}

func assertSameState(t *testing.T, want store.State, got *store.State) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, want.Version, got.Version)
	assert.Equal(t, want.CurrentView, got.CurrentView)

	require.Len(t, got.Tasks, len(want.Tasks))
	for i := range want.Tasks {
		w, g := want.Tasks[i], got.Tasks[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.Title, g.Title)
		assert.Equal(t, w.Horizon, g.Horizon)
		assert.Equal(t, w.Priority, g.Priority)
		assert.Equal(t, w.DueDate, g.DueDate)
		assert.Equal(t, w.XPValue, g.XPValue)
		assert.Equal(t, w.IsCompleted, g.IsCompleted)
		assert.Equal(t, len(w.Subtasks), len(g.Subtasks))
		assert.Equal(t, w.CompletedAt != nil, g.CompletedAt != nil)
	}

	assert.Equal(t, want.Profile.Level, got.Profile.Level)
	assert.Equal(t, want.Profile.XP, got.Profile.XP)
	assert.Equal(t, want.Profile.TotalTasksCompleted, got.Profile.TotalTasksCompleted)
	assert.Equal(t, want.Profile.CurrentStreak, got.Profile.CurrentStreak)
	assert.Len(t, got.Profile.UnlockedBadges(), len(want.Profile.UnlockedBadges()))
	require.NotNil(t, got.Profile.DailyChallenge)
	assert.Equal(t, want.Profile.DailyChallenge.ID, got.Profile.DailyChallenge.ID)
	assert.Equal(t, want.Profile.DailyChallenge.Progress, got.Profile.DailyChallenge.Progress)

	require.Len(t, got.History, len(want.History))
	for i := range want.History {
		assert.Equal(t, want.History[i], got.History[i])
	}
}

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := NewSQLite(":memory:", "user-1")
	require.NoError(t, err)
	defer db.Close()

	got, err := db.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "empty database has no snapshot")

	want := sampleState(t)
	require.NotEmpty(t, want.Profile.UnlockedBadges())
	require.NoError(t, db.Save(ctx, want))

	got, err = db.Load(ctx)
	require.NoError(t, err)
	assertSameState(t, want, got)
}

func TestSQLite_SaveReplacesRows(t *testing.T) {
	ctx := context.Background()
	db, err := NewSQLite(t.TempDir(), "user-1")
	require.NoError(t, err)
	defer db.Close()

	st := sampleState(t)
	require.NoError(t, db.Save(ctx, st))

	st.Tasks = st.Tasks[:1]
	st.History = nil
	require.NoError(t, db.Save(ctx, st))

	got, err := db.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Tasks, 1)
	assert.Empty(t, got.History)
}

func TestSQLite_UsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	alice, err := NewSQLite(dir, "alice")
	require.NoError(t, err)
	defer alice.Close()
	require.NoError(t, alice.Save(ctx, sampleState(t)))

	bob, err := NewSQLite(dir, "bob")
	require.NoError(t, err)
	defer bob.Close()
	got, err := bob.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.FileExists(t, filepath.Join(dir, SQLiteFileName))
}

func TestFile_RoundTripAllFormats(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			ctx := context.Background()
			fsys := afero.NewMemMapFs()
			f, err := NewFile("/data/"+SnapshotFileName(format), format, WithFS(fsys))
			require.NoError(t, err)

			got, err := f.Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, got)

			want := sampleState(t)
			require.NoError(t, f.Save(ctx, want))

			got, err = f.Load(ctx)
			require.NoError(t, err)
			assertSameState(t, want, got)

			exists, _ := afero.Exists(fsys, f.Path()+checksumSuffix)
			assert.True(t, exists)
			tmp, _ := afero.Exists(fsys, f.Path()+".tmp")
			assert.False(t, tmp)
		})
	}
}

func TestFile_ChecksumMismatch(t *testing.T) {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()
	f, err := NewFile("/data/state.json", FormatJSON, WithFS(fsys))
	require.NoError(t, err)
	require.NoError(t, f.Save(ctx, sampleState(t)))

	require.NoError(t, afero.WriteFile(fsys, "/data/state.json", []byte(`{"version":1}`), 0o644))
	_, err = f.Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestFile_LegacyWithoutChecksum(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/s.yaml", []byte("version: 1\ncurrentView: daily\n"), 0o644))
	f, err := NewFile("/s.yaml", FormatYAML, WithFS(fsys))
	require.NoError(t, err)

	got, err := f.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, store.ViewDaily, got.CurrentView)
}

func TestFile_OSLocking(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.toml")
	f, err := NewFile(path, FormatTOML)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, f.Save(ctx, sampleState(t)))
	got, err := f.Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.FileExists(t, path+".lock")
}

func TestFormatHelpers(t *testing.T) {
	for path, want := range map[string]Format{"a.json": FormatJSON, "b.YML": FormatYAML, "c.yaml": FormatYAML, "d.toml": FormatTOML} {
		got, err := FormatFromPath(path)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := FormatFromPath("state.xml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = NewFile("x.ini", Format("ini"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = Marshal(store.State{}, Format("ini"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	p, err := Open(ctx, Options{DataDir: dir})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, p)
	require.NoError(t, p.Close())

	p, err = Open(ctx, Options{Backend: "YAML", DataDir: dir})
	require.NoError(t, err)
	require.IsType(t, &File{}, p)
	assert.Equal(t, filepath.Join(dir, "state.yaml"), p.(*File).Path())
	require.NoError(t, p.Close())

	_, err = Open(ctx, Options{Backend: "postgres"})
	assert.Error(t, err)

	_, err = Open(ctx, Options{Backend: "mongo"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestStoreLoadsFromSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := NewSQLite(":memory:", "user-1")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Save(ctx, sampleState(t)))

	s := store.New(store.WithPersister(db), store.WithUserID("user-1"),
		store.WithClock(func() time.Time { return testNow.Add(time.Hour) }))
	require.NoError(t, s.Load(ctx))
	assert.Len(t, s.Tasks(), 3)
	assert.Equal(t, store.ViewStats, s.CurrentView())
}

const testDBURLKey = "TASKQUEST_TEST_DATABASE_URL"

func TestPostgres_RoundTrip(t *testing.T) {
	dsn := os.Getenv(testDBURLKey)
	if dsn == "" {
		t.Skipf("set %s to a dedicated test database", testDBURLKey)
	}
	ctx := context.Background()
	userID := "test-" + task.NewID()

	pg, err := NewPostgres(ctx, dsn, userID)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = pg.db.Exec(`DELETE FROM users WHERE id = $1`, userID)
		_ = pg.Close()
	})

	got, err := pg.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	want := sampleState(t)
	require.NoError(t, pg.Save(ctx, want))
	require.NoError(t, pg.Save(ctx, want))

	got, err = pg.Load(ctx)
	require.NoError(t, err)
	assertSameState(t, want, got)
}

func TestRebind(t *testing.T) {
	s := &sqlStore{numbered: true}
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", s.rebind("SELECT a FROM t WHERE x = ? AND y = ?"))
	s.numbered = false
	assert.Equal(t, "x = ?", s.rebind("x = ?"))
}

func TestWatch_FiresOnSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	f, err := NewFile(path, FormatJSON)
	require.NoError(t, err)
	defer f.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, path, func() { changed <- struct{}{} }) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, f.Save(ctx, sampleState(t)))

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification after save")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
