package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
)

// SQLitePhaseRepo implements PhaseRepo using a SQLite database.
type SQLitePhaseRepo struct {
	db db.DBTX
}

// NewSQLitePhaseRepo creates a new SQLitePhaseRepo.
func NewSQLitePhaseRepo(conn db.DBTX) *SQLitePhaseRepo {
	return &SQLitePhaseRepo{db: conn}
}

const phaseColumns = `id, project_id, name, start_date, end_date, order_index, notes, created_at, updated_at`

func (r *SQLitePhaseRepo) Create(ctx context.Context, p *domain.Phase) error {
	query := `INSERT INTO phases (` + phaseColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.ProjectID,
		p.Name,
		domain.FormatDate(p.StartDate),
		domain.FormatDate(p.EndDate),
		p.Order,
		p.Notes,
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting phase: %w", err)
	}
	return nil
}

func (r *SQLitePhaseRepo) GetByID(ctx context.Context, id string) (*domain.Phase, error) {
	query := `SELECT ` + phaseColumns + ` FROM phases WHERE id = ?`
	p, err := scanPhase(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "phase")
	}
	return p, nil
}

// ListByProject returns a project's phases ordered by order_index, then
// start date.
func (r *SQLitePhaseRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Phase, error) {
	query := `SELECT ` + phaseColumns + ` FROM phases WHERE project_id = ?
		ORDER BY order_index, start_date, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing phases: %w", err)
	}
	defer rows.Close()

	var phases []domain.Phase
	for rows.Next() {
		p, err := scanPhase(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning phase row: %w", err)
		}
		phases = append(phases, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating phases: %w", err)
	}
	return phases, nil
}

func (r *SQLitePhaseRepo) Update(ctx context.Context, p *domain.Phase) error {
	query := `UPDATE phases SET name = ?, start_date = ?, end_date = ?, order_index = ?, notes = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		p.Name,
		domain.FormatDate(p.StartDate),
		domain.FormatDate(p.EndDate),
		p.Order,
		p.Notes,
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating phase: %w", err)
	}
	return nil
}

// UpdateDates writes only the date columns. Returns ErrNotFound when no row
// matches, so a stale correction diff cannot be applied silently.
func (r *SQLitePhaseRepo) UpdateDates(ctx context.Context, id string, start, end time.Time) error {
	query := `UPDATE phases SET start_date = ?, end_date = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, domain.FormatDate(start), domain.FormatDate(end), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating phase dates: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating phase dates: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("phase %s %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLitePhaseRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM phases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting phase: %w", err)
	}
	return nil
}

func scanPhase(row scanner) (*domain.Phase, error) {
	var p domain.Phase
	var startStr, endStr, createdAtStr, updatedAtStr string
	err := row.Scan(
		&p.ID, &p.ProjectID, &p.Name,
		&startStr, &endStr,
		&p.Order, &p.Notes,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	if p.StartDate, err = parseDate("start_date", startStr); err != nil {
		return nil, err
	}
	if p.EndDate, err = parseDate("end_date", endStr); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTimestamp("created_at", createdAtStr); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTimestamp("updated_at", updatedAtStr); err != nil {
		return nil, err
	}
	return &p, nil
}
