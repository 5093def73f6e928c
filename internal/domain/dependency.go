package domain

import "time"

// Dependency is a directed edge between two phases of the same project.
// LagDays is a signed day offset; negative values express lead time.
type Dependency struct {
	ID                 string
	ProjectID          string
	PredecessorPhaseID string
	SuccessorPhaseID   string
	Type               DependencyType
	LagDays            int
	CreatedAt          time.Time
}

// IsSelfLoop reports whether both endpoints are the same phase.
func (d *Dependency) IsSelfLoop() bool {
	return d.PredecessorPhaseID == d.SuccessorPhaseID
}

// PhaseIndex maps phase ids to phases for lookup during constraint evaluation.
func PhaseIndex(phases []Phase) map[string]*Phase {
	idx := make(map[string]*Phase, len(phases))
	for i := range phases {
		idx[phases[i].ID] = &phases[i]
	}
	return idx
}
