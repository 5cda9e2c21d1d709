package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHistoryStoreRecordsAndListsNewestFirst(t *testing.T) {
	store, err := OpenHistoryStore(filepath.Join(t.TempDir(), "out", HistoryFileName))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	base := time.Unix(1700000000, 0)
	for i := 0; i < 3; i++ {
		_, err := store.Record(RunRecord{
			RootPath:       "/src/project",
			StartedAt:      base.Add(time.Duration(i) * time.Minute),
			Duration:       1500 * time.Millisecond,
			TotalScore:     100 + i,
			TotalLines:     40,
			FilesProcessed: 3,
			SnapshotPath:   filepath.Join(".w8-out", "snap.json"),
		})
		require.NoError(t, err)
	}

	runs, err := store.Recent(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, 102, runs[0].TotalScore)
	require.Equal(t, 101, runs[1].TotalScore)
	require.True(t, runs[0].StartedAt.Equal(base.Add(2*time.Minute)))
	require.Equal(t, 1500*time.Millisecond, runs[0].Duration)
	require.Equal(t, "/src/project", runs[0].RootPath)
	require.Equal(t, filepath.Join(".w8-out", "snap.json"), runs[0].SnapshotPath)
}

func TestHistoryStoreRejectsEmptyRoot(t *testing.T) {
	store, err := OpenHistoryStore(filepath.Join(t.TempDir(), HistoryFileName))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Record(RunRecord{})
	require.Error(t, err)

	runs, err := store.Recent(0)
	require.NoError(t, err)
	require.Empty(t, runs)
}
