package service

import (
	"context"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/importer"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	// Resolve accepts a short ID, a full UUID or an unambiguous UUID prefix.
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, force bool) error
}

type PhaseService interface {
	Create(ctx context.Context, p *domain.Phase) error
	GetByID(ctx context.Context, id string) (*domain.Phase, error)
	List(ctx context.Context, projectID string) ([]domain.Phase, error)
	// Resolve finds a phase of the project by name (case-insensitive),
	// full id or unambiguous id prefix.
	Resolve(ctx context.Context, projectID, ref string) (*domain.Phase, error)
	ProposeDates(ctx context.Context, phaseID string, start, end time.Time) (*DateProposal, error)
	Reschedule(ctx context.Context, phaseID string, start, end time.Time, autoCorrect bool) (*RescheduleResult, error)
	// Update changes name, notes or order. Dates go through Reschedule.
	Update(ctx context.Context, phaseID string, upd PhaseUpdate) (*domain.Phase, error)
	Delete(ctx context.Context, id string) error
}

type DependencyService interface {
	// Add persists dep and returns the successor's violations under the
	// enlarged graph.
	Add(ctx context.Context, dep *domain.Dependency) ([]string, error)
	List(ctx context.Context, projectID string) ([]domain.Dependency, error)
	ListForPhase(ctx context.Context, phaseID string) (*PhaseDependencies, error)
	Remove(ctx context.Context, id string) error
}

type ScheduleService interface {
	Check(ctx context.Context, projectID string) (*ScheduleReport, error)
	Plan(ctx context.Context, projectID string) (*SchedulePlan, error)
	// Fix applies the bulk correction. A non-nil expected must equal the
	// computed changes or nothing is written and ErrPlanChanged is returned.
	Fix(ctx context.Context, projectID string, expected []scheduler.PhaseChange) (*SchedulePlan, error)
}

type ImportService interface {
	ImportPlan(ctx context.Context, filePath string) (*ImportResult, error)
	ImportPlanFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}

// PhaseUpdate holds the non-date fields of a phase edit. Empty Name and nil
// pointers leave the stored value unchanged.
type PhaseUpdate struct {
	Name  string
	Notes *string
	Order *int
}

// PhaseDependencies are the edges touching one phase.
type PhaseDependencies struct {
	Phase        *domain.Phase
	Predecessors []domain.Dependency
	Successors   []domain.Dependency
}

// DateProposal is a dry run of moving one phase.
type DateProposal struct {
	Phase      *domain.Phase
	Start      time.Time
	End        time.Time
	Violations []string
	Correction scheduler.Correction
}

// Valid reports whether the proposed dates break no constraint.
func (p *DateProposal) Valid() bool { return len(p.Violations) == 0 }

// RescheduleResult describes a persisted date change.
type RescheduleResult struct {
	Phase     *domain.Phase
	Corrected bool
	// Downstream lists violations the new dates cause for successors.
	// They are left for a bulk fix.
	Downstream []string
}

// ScheduleReport is the constraint state of a whole project.
type ScheduleReport struct {
	ProjectID  string
	Phases     []domain.Phase
	Violations map[string][]string
}

func (r *ScheduleReport) Valid() bool { return len(r.Violations) == 0 }

// SchedulePlan is a bulk correction, previewed or applied.
type SchedulePlan struct {
	ProjectID string
	Phases    []domain.Phase
	Violating []string
	Changes   []scheduler.PhaseChange
	Applied   bool
}

// ImportResult holds the outcome of a plan import.
type ImportResult struct {
	Project         *domain.Project
	PhaseCount      int
	DependencyCount int
	// Violations are constraint breaks present in the imported dates.
	Violations map[string][]string
}
