package scheduler

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Correction is the outcome of Correct.
type Correction struct {
	Start    time.Time
	End      time.Time
	WasValid bool
}

type dateWindow struct {
	start time.Time
	end   time.Time
}

// Correct nudges a proposed (newStart, newEnd) for phaseID forward until it
// satisfies every predecessor constraint, preserving the proposed duration.
// Successor constraints are not considered. Edges are applied in the order
// given, each against the already-corrected dates. WasValid is true only
// when the returned dates equal the proposal.
func Correct(phaseID string, newStart, newEnd time.Time, phases []domain.Phase, deps []domain.Dependency) Correction {
	newStart, newEnd = domain.NormalizeDate(newStart), domain.NormalizeDate(newEnd)
	idx := domain.PhaseIndex(phases)
	if _, ok := idx[phaseID]; !ok {
		return Correction{Start: newStart, End: newEnd, WasValid: true}
	}

	duration := max(1, domain.DaysBetween(newStart, newEnd))
	start := newStart
	end := domain.AddDays(start, duration)

	lookup := func(id string) (dateWindow, bool) {
		p, ok := idx[id]
		if !ok {
			return dateWindow{}, false
		}
		return dateWindow{domain.NormalizeDate(p.StartDate), domain.NormalizeDate(p.EndDate)}, true
	}
	start, end = snapForward(start, end, duration, predecessorsOf(phaseID, deps), lookup)

	return Correction{
		Start:    start,
		End:      end,
		WasValid: start.Equal(newStart) && end.Equal(newEnd),
	}
}

// predecessorsOf returns the edges whose successor is phaseID, in input order.
func predecessorsOf(phaseID string, deps []domain.Dependency) []domain.Dependency {
	var out []domain.Dependency
	for _, dep := range deps {
		if dep.SuccessorPhaseID == phaseID && !dep.IsSelfLoop() {
			out = append(out, dep)
		}
	}
	return out
}

// snapForward moves (start, end) later, never earlier, until each edge in
// preds is satisfied. Moves are monotonic, so an edge satisfied earlier in
// the loop stays satisfied after later snaps.
func snapForward(start, end time.Time, duration int, preds []domain.Dependency, lookup func(string) (dateWindow, bool)) (time.Time, time.Time) {
	for _, dep := range preds {
		w, ok := lookup(dep.PredecessorPhaseID)
		if !ok {
			continue
		}
		earliest := EarliestSuccessorDate(dep, w.start, w.end)
		if dep.Type.ConstrainsSuccessorStart() {
			if start.Before(earliest) {
				start = earliest
				end = domain.AddDays(start, duration)
			}
			continue
		}
		if end.Before(earliest) {
			end = earliest
			start = domain.AddDays(end, -duration)
		}
	}
	return start, end
}
