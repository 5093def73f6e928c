package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   defaultShortID(name),
		Name:      name,
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Phase options
type PhaseOption func(*domain.Phase)

func WithOrder(i int) PhaseOption {
	return func(p *domain.Phase) {
		p.Order = i
	}
}

func WithNotes(n string) PhaseOption {
	return func(p *domain.Phase) {
		p.Notes = n
	}
}

// NewTestPhase builds a phase spanning start..end (YYYY-MM-DD).
func NewTestPhase(projectID, name, start, end string, opts ...PhaseOption) *domain.Phase {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Phase{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		StartDate: domain.MustDate(start),
		EndDate:   domain.MustDate(end),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Dependency options
type DependencyOption func(*domain.Dependency)

func WithType(t domain.DependencyType) DependencyOption {
	return func(d *domain.Dependency) {
		d.Type = t
	}
}

func WithLag(days int) DependencyOption {
	return func(d *domain.Dependency) {
		d.LagDays = days
	}
}

// NewTestDependency builds a Finish-to-Start edge with zero lag unless
// options say otherwise.
func NewTestDependency(pred, succ *domain.Phase, opts ...DependencyOption) *domain.Dependency {
	d := &domain.Dependency{
		ID:                 uuid.New().String(),
		ProjectID:          pred.ProjectID,
		PredecessorPhaseID: pred.ID,
		SuccessorPhaseID:   succ.ID,
		Type:               domain.FinishToStart,
		CreatedAt:          time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}
