package scheduler

import (
	"sort"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Validate checks a proposed (newStart, newEnd) for phaseID against every
// dependency edge touching that phase and returns one message per violated
// constraint. An empty result means the change is valid. Bounds come from
// the other endpoint's current dates in phases. An unknown phaseID yields
// no messages, and edges with a missing endpoint are skipped.
func Validate(phaseID string, newStart, newEnd time.Time, phases []domain.Phase, deps []domain.Dependency) []string {
	idx := domain.PhaseIndex(phases)
	phase, ok := idx[phaseID]
	if !ok {
		return nil
	}
	newStart, newEnd = domain.NormalizeDate(newStart), domain.NormalizeDate(newEnd)

	var errs []string
	if !newEnd.After(newStart) {
		errs = append(errs, MsgEndBeforeStart)
	}
	errs = append(errs, checkPredecessors(phase, newStart, newEnd, idx, deps)...)
	errs = append(errs, checkSuccessors(phase, newStart, newEnd, idx, deps)...)
	return errs
}

func checkPredecessors(phase *domain.Phase, start, end time.Time, idx map[string]*domain.Phase, deps []domain.Dependency) []string {
	var errs []string
	for _, dep := range deps {
		if dep.SuccessorPhaseID != phase.ID || dep.IsSelfLoop() {
			continue
		}
		pred, ok := idx[dep.PredecessorPhaseID]
		if !ok {
			continue
		}
		earliest := EarliestSuccessorDate(dep, domain.NormalizeDate(pred.StartDate), domain.NormalizeDate(pred.EndDate))
		actual := end
		if dep.Type.ConstrainsSuccessorStart() {
			actual = start
		}
		if actual.Before(earliest) {
			errs = append(errs, predecessorViolation(phase, pred, dep, earliest))
		}
	}
	return errs
}

func checkSuccessors(phase *domain.Phase, start, end time.Time, idx map[string]*domain.Phase, deps []domain.Dependency) []string {
	var errs []string
	for _, dep := range deps {
		if dep.PredecessorPhaseID != phase.ID || dep.IsSelfLoop() {
			continue
		}
		succ, ok := idx[dep.SuccessorPhaseID]
		if !ok {
			continue
		}
		latest := LatestPredecessorDate(dep, domain.NormalizeDate(succ.StartDate), domain.NormalizeDate(succ.EndDate))
		actual := start
		if dep.Type.UsesPredecessorFinish() {
			actual = end
		}
		if actual.After(latest) {
			errs = append(errs, successorViolation(phase, succ, dep, latest))
		}
	}
	return errs
}

// Violations evaluates every phase's stored dates against the ordering rule
// and its predecessor constraints. The result maps each violating phase id
// to its messages; valid phases are absent. A violated edge is attributed to
// its successor only, so each broken edge is reported once.
func Violations(phases []domain.Phase, deps []domain.Dependency) map[string][]string {
	idx := domain.PhaseIndex(phases)
	out := make(map[string][]string)
	for i := range phases {
		p := &phases[i]
		start, end := domain.NormalizeDate(p.StartDate), domain.NormalizeDate(p.EndDate)
		var errs []string
		if !end.After(start) {
			errs = append(errs, MsgEndBeforeStart)
		}
		errs = append(errs, checkPredecessors(p, start, end, idx, deps)...)
		if len(errs) > 0 {
			out[p.ID] = errs
		}
	}
	return out
}

// ViolatingIDs returns the sorted keys of a Violations result.
func ViolatingIDs(violations map[string][]string) []string {
	ids := make([]string, 0, len(violations))
	for id := range violations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
