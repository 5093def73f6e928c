package scheduler

import (
	"github.com/alexanderramin/cadence/internal/domain"
)

var d = domain.MustDate

func mkPhase(id, start, end string) domain.Phase {
	return domain.Phase{
		ID:        id,
		ProjectID: "proj-1",
		Name:      id,
		StartDate: d(start),
		EndDate:   d(end),
	}
}

func mkDep(pred, succ string, typ domain.DependencyType, lag int) domain.Dependency {
	return domain.Dependency{
		ID:                 pred + "->" + succ,
		ProjectID:          "proj-1",
		PredecessorPhaseID: pred,
		SuccessorPhaseID:   succ,
		Type:               typ,
		LagDays:            lag,
	}
}

// applyChanges returns a copy of phases with the diff applied.
func applyChanges(phases []domain.Phase, changes []PhaseChange) []domain.Phase {
	out := make([]domain.Phase, len(phases))
	copy(out, phases)
	byID := make(map[string]PhaseChange, len(changes))
	for _, c := range changes {
		byID[c.PhaseID] = c
	}
	for i := range out {
		if c, ok := byID[out[i].ID]; ok {
			out[i].StartDate = c.NewStart
			out[i].EndDate = c.NewEnd
		}
	}
	return out
}
