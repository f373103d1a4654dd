package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		key         TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		owner       TEXT NOT NULL DEFAULT '',
		start_date  TEXT NOT NULL,
		target_date TEXT,
		status      TEXT NOT NULL DEFAULT 'planning'
		            CHECK(status IN ('planning','active','on_hold','completed','archived')),
		archived_at TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_key ON projects(key) WHERE key != ''`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id           TEXT PRIMARY KEY,
		project_id   TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		assignee     TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL DEFAULT 'todo'
		             CHECK(status IN ('todo','in_progress','in_review','done','archived')),
		priority     TEXT NOT NULL DEFAULT 'medium'
		             CHECK(priority IN ('low','medium','high','urgent')),
		source       TEXT NOT NULL DEFAULT 'manual'
		             CHECK(source IN ('manual','nlp','import')),
		estimate_min INTEGER NOT NULL DEFAULT 0,
		logged_min   INTEGER NOT NULL DEFAULT 0,
		confidence   REAL NOT NULL DEFAULT 0,
		due_date     TEXT,
		completed_at TEXT,
		archived_at  TEXT,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assignee)`,

	`CREATE TABLE IF NOT EXISTS activity_items (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		task_id    TEXT REFERENCES tasks(id) ON DELETE SET NULL,
		actor      TEXT NOT NULL DEFAULT '',
		type       TEXT NOT NULL,
		message    TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_activity_project ON activity_items(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_created ON activity_items(created_at)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id         TEXT PRIMARY KEY,
		channel    TEXT NOT NULL CHECK(channel IN ('slack','jira','email')),
		recipient  TEXT NOT NULL DEFAULT '',
		subject    TEXT NOT NULL DEFAULT '',
		body       TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL DEFAULT 'pending'
		           CHECK(status IN ('pending','sent','failed')),
		attempts   INTEGER NOT NULL DEFAULT 0,
		last_error TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		sent_at    TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_notifications_status ON notifications(status)`,

	`CREATE TABLE IF NOT EXISTS sync_runs (
		id          TEXT PRIMARY KEY,
		adapter     TEXT NOT NULL,
		started_at  TEXT NOT NULL,
		finished_at TEXT,
		success     INTEGER NOT NULL DEFAULT 0,
		sent_count  INTEGER NOT NULL DEFAULT 0,
		error       TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sync_runs_adapter ON sync_runs(adapter)`,
	`CREATE INDEX IF NOT EXISTS idx_sync_runs_started ON sync_runs(started_at)`,
}
