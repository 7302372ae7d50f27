package artifact

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SaveAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	out := sampleOutcome()

	require.NoError(t, store.Save(ctx, out))

	got, err := store.Get(ctx, out.RunID)
	require.NoError(t, err)
	assert.Equal(t, out.RunID, got.RunID)
	assert.Equal(t, out.Report.ScenarioID, got.Report.ScenarioID)
	assert.InDelta(t, out.Report.Total, got.Report.Total, 1e-9)
	assert.Equal(t, out.Submission, got.Submission)
	require.Len(t, got.Records, 1)
	assert.Equal(t, "weather", got.Records[0].Tool)

	// Stored blobs are canonical, so re-exporting yields identical bytes.
	want, err := CanonicalReport(out.Report)
	require.NoError(t, err)
	have, err := CanonicalReport(got.Report)
	require.NoError(t, err)
	assert.Equal(t, want, have)
}

func TestStore_DuplicateRunID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	out := sampleOutcome()

	require.NoError(t, store.Save(ctx, out))
	assert.Error(t, store.Save(ctx, out))
}

func TestStore_GetMissing(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Get(context.Background(), "no-such-run")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestStore_List(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := sampleOutcome()
	second := sampleOutcome()
	second.RunID = "run-0002"
	second.Report.RunID = "run-0002"
	second.Report.ScenarioID = "kyoto-autumn-trip"
	second.Report.GeneratedAt = first.Report.GeneratedAt.Add(time.Hour)
	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	t.Run("all runs, newest first", func(t *testing.T) {
		runs, err := store.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "run-0002", runs[0].RunID)
		assert.Equal(t, "run-0001", runs[1].RunID)
	})

	t.Run("filtered by scenario", func(t *testing.T) {
		runs, err := store.List(ctx, "paris-spring-trip")
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "run-0001", runs[0].RunID)
		assert.InDelta(t, 0.87, runs[0].Total, 1e-9)
	})
}
