package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/cadence/internal/db"
)

// SQLiteProjectSequenceRepo allocates project-scoped phase order values
// atomically using the project_sequences table.
type SQLiteProjectSequenceRepo struct {
	db db.DBTX
}

// NewSQLiteProjectSequenceRepo creates a new SQLiteProjectSequenceRepo.
func NewSQLiteProjectSequenceRepo(conn db.DBTX) *SQLiteProjectSequenceRepo {
	return &SQLiteProjectSequenceRepo{db: conn}
}

// NextProjectSeq returns the next phase order value for a project, seeding
// the counter from the highest existing order_index on first use.
func (r *SQLiteProjectSequenceRepo) NextProjectSeq(ctx context.Context, projectID string) (int, error) {
	seedQuery := `INSERT OR IGNORE INTO project_sequences (project_id, next_seq)
		SELECT ?, COALESCE(MAX(order_index), 0) + 1 FROM phases WHERE project_id = ?`
	if _, err := r.db.ExecContext(ctx, seedQuery, projectID, projectID); err != nil {
		return 0, fmt.Errorf("seeding project sequence for %s: %w", projectID, err)
	}

	var next int
	allocQuery := `UPDATE project_sequences
		SET next_seq = next_seq + 1
		WHERE project_id = ?
		RETURNING next_seq - 1`
	if err := r.db.QueryRowContext(ctx, allocQuery, projectID).Scan(&next); err != nil {
		return 0, fmt.Errorf("allocating next seq for project %s: %w", projectID, err)
	}

	return next, nil
}
