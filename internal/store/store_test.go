package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testWeekRow(runID int64, week, wau int) *WeekRow {
	return &WeekRow{
		RunID:            runID,
		Week:             week,
		FromDate:         "2025-09-01",
		ToDate:           "2025-09-07",
		WAUCount:         wau,
		TotalEnrolled:    50,
		CumulativeActive: wau,
		WAUPctEnrolled:   float64(wau) / 50 * 100,
		Phase:            "Launch",
		PhaseStatus:      "On Track",
		Detail:           fmt.Sprintf(`{"week":%d}`, week),
	}
}

func TestCreateAndGetRun(t *testing.T) {
	db := testDB(t)

	id, err := db.CreateRun("track", "1.0.0", "cs101")
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	run, err := db.GetRun(id)
	require.NoError(t, err)
	require.NotNil(t, run)
	require.Equal(t, "track", run.Command)
	require.Equal(t, "1.0.0", run.Version)
	require.Equal(t, "cs101", run.Course)
	require.False(t, run.TakenAt.IsZero())
}

func TestGetRun_Missing(t *testing.T) {
	db := testDB(t)

	run, err := db.GetRun(999)
	require.NoError(t, err)
	require.Nil(t, run)
}

func TestGetRunN(t *testing.T) {
	db := testDB(t)

	first, err := db.CreateRun("track", "1.0.0", "cs101")
	require.NoError(t, err)
	second, err := db.CreateRun("track", "1.0.0", "cs101")
	require.NoError(t, err)

	latest, err := db.GetRunN(1)
	require.NoError(t, err)
	require.NotNil(t, latest)
	require.Equal(t, second, latest.ID)

	previous, err := db.GetRunN(2)
	require.NoError(t, err)
	require.NotNil(t, previous)
	require.Equal(t, first, previous.ID)

	missing, err := db.GetRunN(3)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestGetRecentRuns_NewestFirst(t *testing.T) {
	db := testDB(t)

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := db.CreateRun("track", "1.0.0", "cs101")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	runs, err := db.GetRecentRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, ids[2], runs[0].ID)
	require.Equal(t, ids[1], runs[1].ID)
}

func TestWeekRows_RoundTrip(t *testing.T) {
	db := testDB(t)

	runID, err := db.CreateRun("track", "1.0.0", "cs101")
	require.NoError(t, err)

	// Insert out of order; reads come back sorted by week.
	require.NoError(t, db.InsertWeekRow(testWeekRow(runID, 2, 12)))
	require.NoError(t, db.InsertWeekRow(testWeekRow(runID, 1, 10)))

	rows, err := db.GetWeekRows(runID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, 1, rows[0].Week)
	require.Equal(t, 2, rows[1].Week)
	require.Equal(t, 10, rows[0].WAUCount)
	require.Equal(t, "Launch", rows[0].Phase)
	require.Equal(t, "On Track", rows[0].PhaseStatus)
	require.NotEmpty(t, rows[0].Detail)

	last, err := db.LatestWeekRow(runID)
	require.NoError(t, err)
	require.NotNil(t, last)
	require.Equal(t, 2, last.Week)
	require.Equal(t, 12, last.WAUCount)
}

func TestLatestWeekRow_EmptyRun(t *testing.T) {
	db := testDB(t)

	runID, err := db.CreateRun("track", "1.0.0", "cs101")
	require.NoError(t, err)

	last, err := db.LatestWeekRow(runID)
	require.NoError(t, err)
	require.Nil(t, last)
}

func TestWeekRows_ScopedToRun(t *testing.T) {
	db := testDB(t)

	run1, err := db.CreateRun("track", "1.0.0", "cs101")
	require.NoError(t, err)
	run2, err := db.CreateRun("track", "1.0.0", "cs101")
	require.NoError(t, err)

	require.NoError(t, db.InsertWeekRow(testWeekRow(run1, 1, 10)))
	require.NoError(t, db.InsertWeekRow(testWeekRow(run2, 1, 20)))

	rows, err := db.GetWeekRows(run1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 10, rows[0].WAUCount)
}
