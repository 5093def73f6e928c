package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
)

// SQLiteDependencyRepo implements DependencyRepo using a SQLite database.
type SQLiteDependencyRepo struct {
	db db.DBTX
}

// NewSQLiteDependencyRepo creates a new SQLiteDependencyRepo.
func NewSQLiteDependencyRepo(conn db.DBTX) *SQLiteDependencyRepo {
	return &SQLiteDependencyRepo{db: conn}
}

const dependencyColumns = `id, project_id, predecessor_phase_id, successor_phase_id, type, lag_days, created_at`

func (r *SQLiteDependencyRepo) Create(ctx context.Context, d *domain.Dependency) error {
	query := `INSERT INTO phase_dependencies (` + dependencyColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.ProjectID,
		d.PredecessorPhaseID,
		d.SuccessorPhaseID,
		string(d.Type),
		d.LagDays,
		d.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting dependency: %w", err)
	}
	return nil
}

func (r *SQLiteDependencyRepo) GetByID(ctx context.Context, id string) (*domain.Dependency, error) {
	query := `SELECT ` + dependencyColumns + ` FROM phase_dependencies WHERE id = ?`
	d, err := scanDependency(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "dependency")
	}
	return d, nil
}

// ListByProject returns the project's edges in creation order. The order is
// significant to the single-phase corrector, which applies edges in sequence.
func (r *SQLiteDependencyRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error) {
	query := `SELECT ` + dependencyColumns + ` FROM phase_dependencies
		WHERE project_id = ? ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies: %w", err)
	}
	defer rows.Close()
	return scanDependencies(rows)
}

func (r *SQLiteDependencyRepo) ListPredecessors(ctx context.Context, phaseID string) ([]domain.Dependency, error) {
	query := `SELECT ` + dependencyColumns + ` FROM phase_dependencies
		WHERE successor_phase_id = ? ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, phaseID)
	if err != nil {
		return nil, fmt.Errorf("listing predecessors: %w", err)
	}
	defer rows.Close()
	return scanDependencies(rows)
}

func (r *SQLiteDependencyRepo) ListSuccessors(ctx context.Context, phaseID string) ([]domain.Dependency, error) {
	query := `SELECT ` + dependencyColumns + ` FROM phase_dependencies
		WHERE predecessor_phase_id = ? ORDER BY created_at, rowid`
	rows, err := r.db.QueryContext(ctx, query, phaseID)
	if err != nil {
		return nil, fmt.Errorf("listing successors: %w", err)
	}
	defer rows.Close()
	return scanDependencies(rows)
}

func (r *SQLiteDependencyRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM phase_dependencies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting dependency: %w", err)
	}
	return nil
}

func scanDependency(row scanner) (*domain.Dependency, error) {
	var d domain.Dependency
	var typeStr, createdAtStr string
	err := row.Scan(
		&d.ID, &d.ProjectID,
		&d.PredecessorPhaseID, &d.SuccessorPhaseID,
		&typeStr, &d.LagDays, &createdAtStr,
	)
	if err != nil {
		return nil, err
	}
	d.Type = domain.DependencyType(typeStr)
	if d.CreatedAt, err = parseTimestamp("created_at", createdAtStr); err != nil {
		return nil, err
	}
	return &d, nil
}

// scanDependencies scans multiple dependency rows from *sql.Rows.
func scanDependencies(rows *sql.Rows) ([]domain.Dependency, error) {
	var deps []domain.Dependency
	for rows.Next() {
		d, err := scanDependency(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		deps = append(deps, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependencies: %w", err)
	}
	return deps, nil
}
