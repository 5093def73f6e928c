package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

type scheduleService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewScheduleService(uow db.UnitOfWork, observers ...UseCaseObserver) ScheduleService {
	return &scheduleService{
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *scheduleService) Check(ctx context.Context, projectID string) (*ScheduleReport, error) {
	var report *ScheduleReport
	err := s.uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		g, err := loadProjectGraph(ctx, tx, projectID)
		if err != nil {
			return err
		}
		report = &ScheduleReport{
			ProjectID:  projectID,
			Phases:     g.phases,
			Violations: scheduler.Violations(g.phases, g.deps),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (s *scheduleService) Plan(ctx context.Context, projectID string) (plan *SchedulePlan, err error) {
	err = s.uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		g, err := loadProjectGraph(ctx, tx, projectID)
		if err != nil {
			return err
		}
		plan, err = planCorrection(g)
		return err
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *scheduleService) Fix(ctx context.Context, projectID string, expected []scheduler.PhaseChange) (plan *SchedulePlan, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": projectID}
	defer observe(ctx, s.observer, "fix-schedule", startedAt, fields, &err)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		g, err := loadProjectGraph(ctx, tx, projectID)
		if err != nil {
			return err
		}
		plan, err = planCorrection(g)
		if err != nil {
			return err
		}
		fields["phase_count"] = len(g.phases)
		fields["violating"] = len(plan.Violating)
		if expected != nil && !sameChanges(expected, plan.Changes) {
			return fmt.Errorf("%w: expected %d changes, found %d", ErrPlanChanged, len(expected), len(plan.Changes))
		}

		txPhases := repository.NewSQLitePhaseRepo(tx)
		for _, c := range plan.Changes {
			if err := txPhases.UpdateDates(ctx, c.PhaseID, c.NewStart, c.NewEnd); err != nil {
				return fmt.Errorf("applying correction to %s: %w", c.PhaseID, err)
			}
		}
		plan.Applied = len(plan.Changes) > 0
		fields["changes_applied"] = len(plan.Changes)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func sameChanges(a, b []scheduler.PhaseChange) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].PhaseID != b[i].PhaseID || !a[i].NewStart.Equal(b[i].NewStart) || !a[i].NewEnd.Equal(b[i].NewEnd) {
			return false
		}
	}
	return true
}

func planCorrection(g *projectGraph) (*SchedulePlan, error) {
	violating := scheduler.ViolatingIDs(scheduler.Violations(g.phases, g.deps))
	changes, err := scheduler.CorrectAll(g.phases, g.deps, violating)
	if err != nil {
		return nil, err
	}
	return &SchedulePlan{
		ProjectID: g.project.ID,
		Phases:    g.phases,
		Violating: violating,
		Changes:   changes,
	}, nil
}
