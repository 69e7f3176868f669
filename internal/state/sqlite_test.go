package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/catload/internal/testutil"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(":memory:"), "failed to open store")
	require.NoError(t, store.InitSchema(), "failed to init schema")
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_OpenClose(t *testing.T) {
	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Close())
}

func TestSQLiteStore_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(path))
	require.NoError(t, store.InitSchema())
	require.NoError(t, store.CreateRun(&Run{Catalogue: "I/239", Table: "Hipparcos", DataFile: "hip_main.dat"}))
	require.NoError(t, store.Close())

	reopened := NewSQLiteStore(nil)
	require.NoError(t, reopened.Open(path))
	defer func() { _ = reopened.Close() }()
	require.NoError(t, reopened.InitSchema(), "migrations must be re-runnable")

	runs, err := reopened.ListRuns(0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore(nil)
	assert.Error(t, store.CreateRun(&Run{}))
	assert.Error(t, store.CompleteRun("x", RunStatusCompleted, 0, ""))
	_, err := store.GetRun("x")
	assert.Error(t, err)
	_, err = store.ListRuns(1)
	assert.Error(t, err)
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	tests := []struct {
		name       string
		status     RunStatus
		rowsLoaded int64
		errMsg     string
	}{
		{name: "completed", status: RunStatusCompleted, rowsLoaded: 118218},
		{name: "failed", status: RunStatusFailed, errMsg: "Problem with SQL"},
		{name: "cancelled", status: RunStatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupTestStore(t)

			run := &Run{Catalogue: "I/239", Table: "Hipparcos", DataFile: "hip_main.dat", Target: "mysql://localhost/Analysis", Fields: 78}
			require.NoError(t, store.CreateRun(run))
			assert.NotEmpty(t, run.ID)
			assert.Equal(t, RunStatusRunning, run.Status)

			got, err := store.GetRun(run.ID)
			require.NoError(t, err)
			assert.Equal(t, RunStatusRunning, got.Status)
			assert.Nil(t, got.CompletedAt)
			assert.Equal(t, 78, got.Fields)

			require.NoError(t, store.CompleteRun(run.ID, tt.status, tt.rowsLoaded, tt.errMsg))

			got, err = store.GetRun(run.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.rowsLoaded, got.RowsLoaded)
			assert.Equal(t, tt.errMsg, got.Error)
			require.NotNil(t, got.CompletedAt)
			assert.GreaterOrEqual(t, got.Duration(), time.Duration(0))
		})
	}
}

func TestSQLiteStore_CompleteUnknownRun(t *testing.T) {
	store := setupTestStore(t)
	err := store.CompleteRun("does-not-exist", RunStatusCompleted, 0, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")

	_, err = store.GetRun("does-not-exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	store := setupTestStore(t)

	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	for i, table := range []string{"first", "second", "third"} {
		run := &Run{Catalogue: "c", Table: table, DataFile: "d", StartedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, store.CreateRun(run))
	}

	runs, err := store.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "third", runs[0].Table)
	assert.Equal(t, "first", runs[2].Table)
	assert.Equal(t, base, runs[2].StartedAt)

	limited, err := store.ListRuns(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
