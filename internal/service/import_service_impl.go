package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/importer"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportPlan(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportPlanFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error) {
	return s.importSchema(ctx, schema)
}

func (s *importService) importSchema(ctx context.Context, schema *importer.ImportSchema) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"short_id": schema.Project.ShortID}
	defer observe(ctx, s.observer, "import-plan", startedAt, fields, &err)

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	generated, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}
	fields["phase_count"] = len(generated.Phases)
	fields["dependency_count"] = len(generated.Dependencies)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteProjectRepo(tx).Create(ctx, generated.Project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}

		txPhases := repository.NewSQLitePhaseRepo(tx)
		for _, phase := range generated.Phases {
			if err := txPhases.Create(ctx, phase); err != nil {
				return fmt.Errorf("creating phase %q: %w", phase.Name, err)
			}
		}

		txDeps := repository.NewSQLiteDependencyRepo(tx)
		for _, dep := range generated.Dependencies {
			if err := txDeps.Create(ctx, &dep); err != nil {
				return fmt.Errorf("creating dependency: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	phases := make([]domain.Phase, len(generated.Phases))
	for i, p := range generated.Phases {
		phases[i] = *p
	}

	return &ImportResult{
		Project:         generated.Project,
		PhaseCount:      len(generated.Phases),
		DependencyCount: len(generated.Dependencies),
		Violations:      scheduler.Violations(phases, generated.Dependencies),
	}, nil
}
