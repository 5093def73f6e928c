package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// ErrNotFound is wrapped by every Get* lookup that matches no row.
var ErrNotFound = errors.New("not found")

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type PhaseRepo interface {
	Create(ctx context.Context, p *domain.Phase) error
	GetByID(ctx context.Context, id string) (*domain.Phase, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Phase, error)
	Update(ctx context.Context, p *domain.Phase) error
	UpdateDates(ctx context.Context, id string, start, end time.Time) error
	Delete(ctx context.Context, id string) error
}

type DependencyRepo interface {
	Create(ctx context.Context, d *domain.Dependency) error
	GetByID(ctx context.Context, id string) (*domain.Dependency, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error)
	ListPredecessors(ctx context.Context, phaseID string) ([]domain.Dependency, error)
	ListSuccessors(ctx context.Context, phaseID string) ([]domain.Dependency, error)
	Delete(ctx context.Context, id string) error
}

type ProjectSequenceRepo interface {
	NextProjectSeq(ctx context.Context, projectID string) (int, error)
}
