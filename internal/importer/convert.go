package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/google/uuid"
)

// GeneratedPlan holds the domain objects produced from an ImportSchema.
type GeneratedPlan struct {
	Project      *domain.Project
	Phases       []*domain.Phase
	Dependencies []domain.Dependency
}

// Convert transforms a validated ImportSchema into domain objects ready for persistence.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema) (*GeneratedPlan, error) {
	now := time.Now().UTC()

	project := &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   strings.ToUpper(schema.Project.ShortID),
		Name:      schema.Project.Name,
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	refMap := make(map[string]string) // ref -> UUID

	phases := make([]*domain.Phase, 0, len(schema.Phases))
	for i, ph := range schema.Phases {
		start, err := domain.ParseDate(ph.StartDate)
		if err != nil {
			return nil, fmt.Errorf("parsing %s.start_date: %w", ph.Ref, err)
		}
		end, err := domain.ParseDate(ph.EndDate)
		if err != nil {
			return nil, fmt.Errorf("parsing %s.end_date: %w", ph.Ref, err)
		}

		realID := uuid.New().String()
		refMap[ph.Ref] = realID

		phases = append(phases, &domain.Phase{
			ID:        realID,
			ProjectID: project.ID,
			Name:      ph.Name,
			StartDate: start,
			EndDate:   end,
			Order:     domain.IntFromPtrWithDefault(i+1, ph.Order),
			Notes:     ph.Notes,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	deps := make([]domain.Dependency, 0, len(schema.Dependencies))
	for i, d := range schema.Dependencies {
		predID, ok := refMap[d.PredecessorRef]
		if !ok {
			return nil, fmt.Errorf("dependencies[%d]: unknown predecessor ref %q", i, d.PredecessorRef)
		}
		succID, ok := refMap[d.SuccessorRef]
		if !ok {
			return nil, fmt.Errorf("dependencies[%d]: unknown successor ref %q", i, d.SuccessorRef)
		}
		depType, err := domain.ParseDependencyType(d.Type)
		if err != nil {
			return nil, fmt.Errorf("dependencies[%d]: %w", i, err)
		}
		deps = append(deps, domain.Dependency{
			ID:                 uuid.New().String(),
			ProjectID:          project.ID,
			PredecessorPhaseID: predID,
			SuccessorPhaseID:   succID,
			Type:               depType,
			LagDays:            d.LagDays,
			CreatedAt:          now,
		})
	}

	return &GeneratedPlan{
		Project:      project,
		Phases:       phases,
		Dependencies: deps,
	}, nil
}
