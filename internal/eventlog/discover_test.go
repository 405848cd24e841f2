package eventlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeExport(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDiscoverFiles_MatchesAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "events_2025-09-08_2025-09-14.csv", "")
	writeExport(t, dir, "events_2025-09-01_2025-09-07.csv", "")
	writeExport(t, dir, "notes.txt", "")
	writeExport(t, dir, "events_2025-09-01.csv", "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "events_2025-01-01_2025-01-07.csv"), 0o755))

	files, err := DiscoverFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)

	require.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), files[0].From)
	require.Equal(t, time.Date(2025, 9, 7, 0, 0, 0, 0, time.UTC), files[0].To)
	require.Equal(t, time.Date(2025, 9, 8, 0, 0, 0, 0, time.UTC), files[1].From)
}

func TestDiscoverFiles_MissingDir(t *testing.T) {
	files, err := DiscoverFiles(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestDiscoverFiles_InvertedRangeSkipped(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "events_2025-09-07_2025-09-01.csv", "")

	files, err := DiscoverFiles(dir)
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestFile_WeekNumber(t *testing.T) {
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		from string
		want int
	}{
		{"2025-09-01", 1},
		{"2025-09-07", 1},
		{"2025-09-08", 2},
		{"2025-10-06", 6},
	}
	for _, tc := range tests {
		from, err := time.Parse("2006-01-02", tc.from)
		require.NoError(t, err)
		f := File{From: from}
		if got := f.WeekNumber(start); got != tc.want {
			t.Errorf("WeekNumber(%s) = %d, want %d", tc.from, got, tc.want)
		}
	}
}
