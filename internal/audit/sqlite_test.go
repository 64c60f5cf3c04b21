package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatops-cli/chatops/internal/command"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	entries := []Entry{
		{RequestID: "r1", Input: "check disk usage", Command: "df -h", Source: command.SourcePlugin, Duration: 40 * time.Millisecond, CreatedAt: base},
		{RequestID: "r2", Input: "say hi", Command: "echo hi", Source: command.SourceLLM, ExitCode: 0, CreatedAt: base.Add(time.Minute)},
		{RequestID: "r3", Input: "wipe everything", Command: "rm -rf /", Source: command.SourceLLM, Failure: "COMMAND_BLOCKED", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		require.NoError(t, store.Record(ctx, e))
	}

	got, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Newest first.
	assert.Equal(t, "r3", got[0].RequestID)
	assert.Equal(t, "r2", got[1].RequestID)
	assert.Equal(t, "r1", got[2].RequestID)

	assert.Equal(t, command.SourceLLM, got[0].Source)
	assert.Equal(t, "COMMAND_BLOCKED", got[0].Failure)
	assert.Equal(t, command.SourcePlugin, got[2].Source)
	assert.Equal(t, 40*time.Millisecond, got[2].Duration)
}

func TestRecentHonorsLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, Entry{
			RequestID: "r", Input: "in", Command: "true", Source: command.SourcePlugin,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	got, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(context.Background(), Entry{
		RequestID: "r1", Input: "in", Command: "true", Source: command.SourcePlugin,
	}))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestNopSinkDiscards(t *testing.T) {
	var sink Sink = Nop{}
	assert.NoError(t, sink.Record(context.Background(), Entry{RequestID: "x"}))
	assert.NoError(t, sink.Close())
}
