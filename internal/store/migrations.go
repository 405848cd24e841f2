package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows means version 0 (fresh database).
		version = 0
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates all initial tables and indexes.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			taken_at TEXT NOT NULL,
			command  TEXT NOT NULL,
			version  TEXT NOT NULL,
			course   TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS week_metrics (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id              INTEGER NOT NULL REFERENCES runs(id),
			week                INTEGER NOT NULL,
			from_date           TEXT NOT NULL,
			to_date             TEXT NOT NULL,
			wau_count           INTEGER NOT NULL,
			total_enrolled      INTEGER NOT NULL,
			cumulative_active   INTEGER NOT NULL,
			wau_pct_enrolled    REAL NOT NULL,
			coverage_count      INTEGER NOT NULL,
			coverage_pct        REAL NOT NULL,
			at_risk_count       INTEGER NOT NULL,
			reactivation_rate   REAL NOT NULL,
			all_median_minutes  REAL NOT NULL,
			total_minutes       REAL NOT NULL,
			phase               TEXT,
			phase_status        TEXT,
			detail              TEXT
		)`,

		`CREATE INDEX IF NOT EXISTS idx_week_metrics_run ON week_metrics(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_week_metrics_week ON week_metrics(run_id, week)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_course ON runs(course)`,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}
