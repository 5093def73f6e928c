package db

import (
	"context"
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
	if err := migrateBackfillProjectSequences(db); err != nil {
		return fmt.Errorf("backfilling project sequence allocator state: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id         TEXT PRIMARY KEY,
		short_id   TEXT NOT NULL DEFAULT '',
		name       TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'active'
		           CHECK(status IN ('active','archived')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id) WHERE short_id != ''`,

	`CREATE TABLE IF NOT EXISTS phases (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		start_date  TEXT NOT NULL,
		end_date    TEXT NOT NULL,
		order_index INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_phases_project ON phases(project_id)`,

	`CREATE TABLE IF NOT EXISTS phase_dependencies (
		id                   TEXT PRIMARY KEY,
		project_id           TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		predecessor_phase_id TEXT NOT NULL REFERENCES phases(id) ON DELETE CASCADE,
		successor_phase_id   TEXT NOT NULL REFERENCES phases(id) ON DELETE CASCADE,
		type                 TEXT NOT NULL DEFAULT 'FS'
		                     CHECK(type IN ('FS','SS','FF','SF')),
		lag_days             INTEGER NOT NULL DEFAULT 0,
		created_at           TEXT NOT NULL,
		CHECK(predecessor_phase_id != successor_phase_id),
		UNIQUE(predecessor_phase_id, successor_phase_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_phase_deps_project ON phase_dependencies(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_phase_deps_successor ON phase_dependencies(successor_phase_id)`,

	`CREATE TABLE IF NOT EXISTS project_sequences (
		project_id TEXT PRIMARY KEY REFERENCES projects(id) ON DELETE CASCADE,
		next_seq   INTEGER NOT NULL CHECK(next_seq > 0)
	)`,

	// Free-form notes on phases, shown by "phase list --wide".
	`ALTER TABLE phases ADD COLUMN notes TEXT NOT NULL DEFAULT ''`,
}

func migrateBackfillProjectSequences(db *sql.DB) error {
	ctx := context.Background()

	// Populate (or raise) next_seq for every known project using the current
	// max assigned phase order.
	query := `INSERT INTO project_sequences (project_id, next_seq)
		SELECT p.id, COALESCE(MAX(ph.order_index), 0) + 1
		FROM projects p
		LEFT JOIN phases ph ON ph.project_id = p.id
		GROUP BY p.id
		ON CONFLICT(project_id) DO UPDATE
		SET next_seq = MAX(project_sequences.next_seq, excluded.next_seq)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("upserting project sequence rows: %w", err)
	}

	return nil
}
