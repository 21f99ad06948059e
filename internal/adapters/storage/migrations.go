package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// migration is one schema version step. Migrations run in order inside
// a transaction each; a failed step leaves the version unchanged.
type migration struct {
	version int
	apply   func(tx *sql.Tx) error
}

// migrations is the ordered chain. Version 1 is the baseline schema;
// later entries alter it. Never edit an applied migration: append.
var migrations = []migration{
	{version: 1, apply: migrateBaseline},
}

// LatestSchemaVersion returns the version the chain migrates to.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion reads the current schema version, 0 when the database
// has never been migrated.
// PRE: db is a valid connection
// POST: returns the recorded version without modifying the database
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&exists)
	if err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, nil
	}
	var version int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

// MigrateDB brings the database to the latest schema version. It is
// idempotent: already-applied versions are skipped.
// PRE: db is a valid connection; path names the database file (for logs)
// POST: SchemaVersion(db) == LatestSchemaVersion()
func MigrateDB(db *sql.DB, path string) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL DEFAULT (datetime('now')))"); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if err := m.apply(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", m.version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", m.version, err)
		}
		slog.Info("db_event", "event", "migration_applied", "version", m.version, "db", path)
	}
	return nil
}

// migrateBaseline creates the full schema. IF NOT EXISTS makes it safe
// on databases created before version tracking existed.
func migrateBaseline(tx *sql.Tx) error {
	schema := `
	CREATE TABLE IF NOT EXISTS unit (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		organization_id TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS training_area (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		unit_id TEXT NOT NULL,
		FOREIGN KEY (unit_id) REFERENCES unit(id)
	);

	CREATE TABLE IF NOT EXISTS course (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		total_lessons INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS billing_plan (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		price_cents INTEGER NOT NULL DEFAULT 0,
		interval_days INTEGER NOT NULL DEFAULT 30,
		active INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS instructor (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		specialty TEXT NOT NULL DEFAULT '',
		organization_id TEXT NOT NULL DEFAULT '',
		active INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS student (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL DEFAULT '',
		organization_id TEXT NOT NULL DEFAULT '',
		billing_plan_id TEXT,
		status TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS agenda_item (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		status TEXT NOT NULL,
		instructor_id TEXT,
		instructor_name TEXT NOT NULL DEFAULT '',
		training_area_id TEXT,
		training_area_name TEXT NOT NULL DEFAULT '',
		unit_id TEXT,
		unit_name TEXT NOT NULL DEFAULT '',
		student_id TEXT,
		max_students INTEGER NOT NULL DEFAULT 0,
		actual_students INTEGER NOT NULL DEFAULT 0,
		is_recurring INTEGER NOT NULL DEFAULT 0,
		recurrence_rule TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_agenda_item_start ON agenda_item(start_time);

	CREATE TABLE IF NOT EXISTS turma (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		course_id TEXT NOT NULL,
		instructor_id TEXT NOT NULL,
		organization_id TEXT NOT NULL DEFAULT '',
		unit_id TEXT,
		class_type TEXT NOT NULL,
		status TEXT NOT NULL,
		max_students INTEGER NOT NULL DEFAULT 0,
		schedule_days TEXT NOT NULL,
		schedule_time TEXT NOT NULL,
		schedule_duration INTEGER NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT,
		FOREIGN KEY (course_id) REFERENCES course(id),
		FOREIGN KEY (instructor_id) REFERENCES instructor(id)
	);

	CREATE TABLE IF NOT EXISTS lesson (
		id TEXT PRIMARY KEY,
		turma_id TEXT NOT NULL,
		lesson_number INTEGER NOT NULL,
		scheduled_date TEXT NOT NULL,
		status TEXT NOT NULL,
		lesson_plan TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (turma_id) REFERENCES turma(id)
	);

	CREATE INDEX IF NOT EXISTS idx_lesson_date ON lesson(scheduled_date);

	CREATE TABLE IF NOT EXISTS enrollment (
		id TEXT PRIMARY KEY,
		turma_id TEXT NOT NULL,
		student_id TEXT NOT NULL,
		enrolled_at TEXT NOT NULL,
		UNIQUE (turma_id, student_id),
		FOREIGN KEY (turma_id) REFERENCES turma(id),
		FOREIGN KEY (student_id) REFERENCES student(id)
	);

	CREATE TABLE IF NOT EXISTS attendance (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		turma_id TEXT,
		lesson_id TEXT,
		check_in_time TEXT NOT NULL,
		method TEXT NOT NULL,
		present INTEGER NOT NULL DEFAULT 1,
		FOREIGN KEY (student_id) REFERENCES student(id)
	);

	CREATE TABLE IF NOT EXISTS subscription (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		billing_plan_id TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at TEXT NOT NULL,
		suspended_at TEXT,
		FOREIGN KEY (student_id) REFERENCES student(id),
		FOREIGN KEY (billing_plan_id) REFERENCES billing_plan(id)
	);

	CREATE TABLE IF NOT EXISTS payment (
		id TEXT PRIMARY KEY,
		subscription_id TEXT NOT NULL,
		amount_cents INTEGER NOT NULL,
		status TEXT NOT NULL,
		invoice_url TEXT NOT NULL DEFAULT '',
		pix_code TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		confirmed_at TEXT,
		FOREIGN KEY (subscription_id) REFERENCES subscription(id)
	);

	CREATE TABLE IF NOT EXISTS kiosk_session (
		id TEXT PRIMARY KEY,
		device_name TEXT NOT NULL,
		pin_hash TEXT NOT NULL,
		started_at TEXT NOT NULL,
		ended_at TEXT
	);
	`
	_, err := tx.Exec(schema)
	return err
}
