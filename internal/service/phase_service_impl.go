package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/scheduler"
	"github.com/google/uuid"
)

type phaseService struct {
	phases   repository.PhaseRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewPhaseService(phases repository.PhaseRepo, uow db.UnitOfWork, observers ...UseCaseObserver) PhaseService {
	return &phaseService{
		phases:   phases,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *phaseService) Create(ctx context.Context, p *domain.Phase) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": p.ProjectID, "phase": p.Name}
	defer observe(ctx, s.observer, "create-phase", startedAt, fields, &err)

	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("phase name is required")
	}
	p.StartDate = domain.NormalizeDate(p.StartDate)
	p.EndDate = domain.NormalizeDate(p.EndDate)
	if err := p.ValidateDates(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, p.ProjectID); err != nil {
			return err
		}
		if p.Order == 0 {
			seq, err := repository.NewSQLiteProjectSequenceRepo(tx).NextProjectSeq(ctx, p.ProjectID)
			if err != nil {
				return err
			}
			p.Order = seq
		}
		fields["order"] = p.Order
		return repository.NewSQLitePhaseRepo(tx).Create(ctx, p)
	})
}

func (s *phaseService) GetByID(ctx context.Context, id string) (*domain.Phase, error) {
	return s.phases.GetByID(ctx, id)
}

func (s *phaseService) List(ctx context.Context, projectID string) ([]domain.Phase, error) {
	return s.phases.ListByProject(ctx, projectID)
}

func (s *phaseService) Resolve(ctx context.Context, projectID, ref string) (*domain.Phase, error) {
	if ref == "" {
		return nil, fmt.Errorf("phase is required")
	}
	phases, err := s.phases.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	ptrs := make([]*domain.Phase, len(phases))
	for i := range phases {
		ptrs[i] = &phases[i]
	}
	return matchByRef(ptrs, ref, "phase",
		func(p *domain.Phase) string { return p.Name },
		func(p *domain.Phase) string { return p.ID },
	)
}

func (s *phaseService) ProposeDates(ctx context.Context, phaseID string, start, end time.Time) (*DateProposal, error) {
	start, end = domain.NormalizeDate(start), domain.NormalizeDate(end)
	var proposal *DateProposal
	err := s.uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		g, err := loadPhaseGraph(ctx, tx, phaseID)
		if err != nil {
			return err
		}
		proposal = &DateProposal{
			Phase:      g.phase(phaseID),
			Start:      start,
			End:        end,
			Violations: scheduler.Validate(phaseID, start, end, g.phases, g.deps),
			Correction: scheduler.Correct(phaseID, start, end, g.phases, g.deps),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return proposal, nil
}

func (s *phaseService) Reschedule(ctx context.Context, phaseID string, start, end time.Time, autoCorrect bool) (result *RescheduleResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"phase_id":     phaseID,
		"start":        domain.FormatDate(start),
		"end":          domain.FormatDate(end),
		"auto_correct": autoCorrect,
	}
	defer observe(ctx, s.observer, "reschedule-phase", startedAt, fields, &err)

	start, end = domain.NormalizeDate(start), domain.NormalizeDate(end)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		g, err := loadPhaseGraph(ctx, tx, phaseID)
		if err != nil {
			return err
		}
		phase := g.phase(phaseID)

		violations := scheduler.Validate(phaseID, start, end, g.phases, g.deps)
		fields["violations"] = len(violations)
		corrected := false
		if len(violations) > 0 {
			if !autoCorrect {
				return &ScheduleConflictError{PhaseID: phaseID, PhaseName: phase.Name, Violations: violations}
			}
			c := scheduler.Correct(phaseID, start, end, g.phases, g.deps)
			start, end = c.Start, c.End
			corrected = !c.WasValid
		}
		fields["corrected"] = corrected

		if err := repository.NewSQLitePhaseRepo(tx).UpdateDates(ctx, phaseID, start, end); err != nil {
			return err
		}

		updated := *phase
		updated.Reschedule(start, end, time.Now().UTC())
		result = &RescheduleResult{
			Phase:      &updated,
			Corrected:  corrected,
			Downstream: scheduler.Validate(phaseID, start, end, g.phases, g.deps),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *phaseService) Update(ctx context.Context, phaseID string, upd PhaseUpdate) (*domain.Phase, error) {
	p, err := s.phases.GetByID(ctx, phaseID)
	if err != nil {
		return nil, err
	}
	p.Name = domain.CoalesceStr(strings.TrimSpace(upd.Name), p.Name)
	if upd.Notes != nil {
		p.Notes = *upd.Notes
	}
	if upd.Order != nil && *upd.Order < 1 {
		return nil, fmt.Errorf("phase order must be positive (got %d)", *upd.Order)
	}
	p.Order = domain.IntFromPtrWithDefault(p.Order, upd.Order)
	p.UpdatedAt = time.Now().UTC()

	if err := s.phases.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *phaseService) Delete(ctx context.Context, id string) error {
	if _, err := s.phases.GetByID(ctx, id); err != nil {
		return err
	}
	return s.phases.Delete(ctx, id)
}

// loadPhaseGraph loads the project graph that contains phaseID.
func loadPhaseGraph(ctx context.Context, tx db.DBTX, phaseID string) (*projectGraph, error) {
	phase, err := repository.NewSQLitePhaseRepo(tx).GetByID(ctx, phaseID)
	if err != nil {
		return nil, err
	}
	return loadProjectGraph(ctx, tx, phase.ProjectID)
}
