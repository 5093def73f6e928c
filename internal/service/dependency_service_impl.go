package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/scheduler"
	"github.com/google/uuid"
)

type dependencyService struct {
	deps     repository.DependencyRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewDependencyService(deps repository.DependencyRepo, uow db.UnitOfWork, observers ...UseCaseObserver) DependencyService {
	return &dependencyService{
		deps:     deps,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *dependencyService) Add(ctx context.Context, dep *domain.Dependency) (violations []string, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"predecessor": dep.PredecessorPhaseID,
		"successor":   dep.SuccessorPhaseID,
		"type":        string(dep.Type),
		"lag_days":    dep.LagDays,
	}
	defer observe(ctx, s.observer, "add-dependency", startedAt, fields, &err)

	if dep.IsSelfLoop() {
		return nil, fmt.Errorf("%w: a phase cannot depend on itself", ErrInvalidDependency)
	}
	if dep.Type == "" {
		dep.Type = domain.FinishToStart
	}
	if !domain.ValidDependencyTypes[dep.Type] {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidDependency, dep.Type)
	}
	if dep.ID == "" {
		dep.ID = uuid.New().String()
	}
	dep.CreatedAt = time.Now().UTC()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPhases := repository.NewSQLitePhaseRepo(tx)
		pred, err := txPhases.GetByID(ctx, dep.PredecessorPhaseID)
		if err != nil {
			return fmt.Errorf("predecessor: %w", err)
		}
		succ, err := txPhases.GetByID(ctx, dep.SuccessorPhaseID)
		if err != nil {
			return fmt.Errorf("successor: %w", err)
		}
		if pred.ProjectID != succ.ProjectID {
			return fmt.Errorf("%w: %q and %q belong to different projects", ErrInvalidDependency, pred.Name, succ.Name)
		}
		dep.ProjectID = pred.ProjectID
		fields["project_id"] = dep.ProjectID

		g, err := loadProjectGraph(ctx, tx, dep.ProjectID)
		if err != nil {
			return err
		}
		for _, existing := range g.deps {
			if existing.PredecessorPhaseID == dep.PredecessorPhaseID && existing.SuccessorPhaseID == dep.SuccessorPhaseID {
				return fmt.Errorf("%w: %q already depends on %q", ErrInvalidDependency, succ.Name, pred.Name)
			}
		}

		candidate := append(g.deps, *dep)
		if err := scheduler.DetectCycle(g.phases, candidate); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidDependency, err)
		}

		if err := repository.NewSQLiteDependencyRepo(tx).Create(ctx, dep); err != nil {
			return err
		}
		violations = scheduler.Violations(g.phases, candidate)[succ.ID]
		fields["violations"] = len(violations)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return violations, nil
}

func (s *dependencyService) List(ctx context.Context, projectID string) ([]domain.Dependency, error) {
	return s.deps.ListByProject(ctx, projectID)
}

func (s *dependencyService) ListForPhase(ctx context.Context, phaseID string) (*PhaseDependencies, error) {
	out := &PhaseDependencies{}
	err := s.uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		phase, err := repository.NewSQLitePhaseRepo(tx).GetByID(ctx, phaseID)
		if err != nil {
			return err
		}
		out.Phase = phase

		txDeps := repository.NewSQLiteDependencyRepo(tx)
		if out.Predecessors, err = txDeps.ListPredecessors(ctx, phaseID); err != nil {
			return err
		}
		out.Successors, err = txDeps.ListSuccessors(ctx, phaseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *dependencyService) Remove(ctx context.Context, id string) error {
	if _, err := s.deps.GetByID(ctx, id); err != nil {
		return err
	}
	return s.deps.Delete(ctx, id)
}
