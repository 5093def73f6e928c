package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
)

// projectGraph is one consistent read of a project's phases and edges.
type projectGraph struct {
	project *domain.Project
	phases  []domain.Phase
	deps    []domain.Dependency
}

// loadProjectGraph reads a project with its phases and dependencies through
// tx, so the three reads share a snapshot.
func loadProjectGraph(ctx context.Context, tx db.DBTX, projectID string) (*projectGraph, error) {
	project, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	phases, err := repository.NewSQLitePhaseRepo(tx).ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading phases: %w", err)
	}
	deps, err := repository.NewSQLiteDependencyRepo(tx).ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading dependencies: %w", err)
	}
	return &projectGraph{project: project, phases: phases, deps: deps}, nil
}

func (g *projectGraph) phase(id string) *domain.Phase {
	for i := range g.phases {
		if g.phases[i].ID == id {
			return &g.phases[i]
		}
	}
	return nil
}

// observe reports a finished use case. Call it deferred with a pointer to
// the named error result.
func observe(ctx context.Context, obs UseCaseObserver, name string, startedAt time.Time, fields map[string]any, err *error) {
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   *err == nil,
		Err:       *err,
		Fields:    fields,
	})
}

// matchByRef resolves ref against candidates: exact name (case-insensitive),
// exact id, then unique id prefix.
func matchByRef[T any](candidates []T, ref, kind string, name, id func(T) string) (T, error) {
	var zero T
	for _, c := range candidates {
		if strings.EqualFold(name(c), ref) {
			return c, nil
		}
	}
	for _, c := range candidates {
		if id(c) == ref {
			return c, nil
		}
	}
	var matches []T
	for _, c := range candidates {
		if strings.HasPrefix(id(c), ref) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%s not found: %q: %w", kind, ref, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return zero, fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, ref, len(matches))
	}
}
