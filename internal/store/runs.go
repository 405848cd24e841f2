package store

import (
	"database/sql"
	"time"
)

// CreateRun inserts a new run and returns its ID.
func (db *DB) CreateRun(command, version, course string) (int64, error) {
	result, err := db.conn.Exec(
		"INSERT INTO runs (taken_at, command, version, course) VALUES (?, ?, ?, ?)",
		time.Now().UTC().Format(time.RFC3339), command, version, course,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetRun returns a run by ID.
func (db *DB) GetRun(id int64) (*Run, error) {
	row := db.conn.QueryRow(
		"SELECT id, taken_at, command, version, course FROM runs WHERE id = ?", id)
	return scanRun(row)
}

// GetRunN returns the Nth most recent run (1 = latest, 2 = previous, etc.).
func (db *DB) GetRunN(n int) (*Run, error) {
	row := db.conn.QueryRow(
		"SELECT id, taken_at, command, version, course FROM runs ORDER BY id DESC LIMIT 1 OFFSET ?",
		n-1,
	)
	return scanRun(row)
}

// GetRecentRuns returns up to n most recent runs, newest first.
func (db *DB) GetRecentRuns(n int) ([]Run, error) {
	rows, err := db.conn.Query(
		"SELECT id, taken_at, command, version, course FROM runs ORDER BY id DESC LIMIT ?", n)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		var takenAt string
		if err := rows.Scan(&r.ID, &takenAt, &r.Command, &r.Version, &r.Course); err != nil {
			return nil, err
		}
		r.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func scanRun(row *sql.Row) (*Run, error) {
	var r Run
	var takenAt string
	err := row.Scan(&r.ID, &takenAt, &r.Command, &r.Version, &r.Course)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
	return &r, nil
}

// InsertWeekRow inserts one per-week metrics record for a run.
func (db *DB) InsertWeekRow(w *WeekRow) error {
	_, err := db.conn.Exec(
		`INSERT INTO week_metrics
		(run_id, week, from_date, to_date, wau_count, total_enrolled,
		 cumulative_active, wau_pct_enrolled, coverage_count, coverage_pct,
		 at_risk_count, reactivation_rate, all_median_minutes, total_minutes,
		 phase, phase_status, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.RunID, w.Week, w.FromDate, w.ToDate, w.WAUCount, w.TotalEnrolled,
		w.CumulativeActive, w.WAUPctEnrolled, w.CoverageCount, w.CoveragePct,
		w.AtRiskCount, w.ReactivationRate, w.AllMedianMinutes, w.TotalMinutes,
		w.Phase, w.PhaseStatus, w.Detail,
	)
	return err
}

// GetWeekRows returns all per-week records for a run in week order.
func (db *DB) GetWeekRows(runID int64) ([]WeekRow, error) {
	rows, err := db.conn.Query(
		`SELECT id, run_id, week, from_date, to_date, wau_count, total_enrolled,
		 cumulative_active, wau_pct_enrolled, coverage_count, coverage_pct,
		 at_risk_count, reactivation_rate, all_median_minutes, total_minutes,
		 phase, phase_status, detail
		 FROM week_metrics WHERE run_id = ? ORDER BY week`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []WeekRow
	for rows.Next() {
		var w WeekRow
		var phase, status, detail sql.NullString
		if err := rows.Scan(
			&w.ID, &w.RunID, &w.Week, &w.FromDate, &w.ToDate, &w.WAUCount,
			&w.TotalEnrolled, &w.CumulativeActive, &w.WAUPctEnrolled,
			&w.CoverageCount, &w.CoveragePct, &w.AtRiskCount,
			&w.ReactivationRate, &w.AllMedianMinutes, &w.TotalMinutes,
			&phase, &status, &detail,
		); err != nil {
			return nil, err
		}
		w.Phase = phase.String
		w.PhaseStatus = status.String
		w.Detail = detail.String
		result = append(result, w)
	}
	return result, rows.Err()
}

// LatestWeekRow returns the final week record of a run, or nil when the run
// stored no weeks.
func (db *DB) LatestWeekRow(runID int64) (*WeekRow, error) {
	weeks, err := db.GetWeekRows(runID)
	if err != nil {
		return nil, err
	}
	if len(weeks) == 0 {
		return nil, nil
	}
	return &weeks[len(weeks)-1], nil
}
