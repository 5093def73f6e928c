package scheduler

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// PhaseChange is one entry of a bulk correction diff.
type PhaseChange struct {
	PhaseID  string
	NewStart time.Time
	NewEnd   time.Time
}

// CorrectAll repairs the violating phases and cascades the repair to every
// phase downstream of them. Phases are processed in topological order
// against a working copy of the dates, so each phase sees its predecessors'
// corrected dates. A phase only ever moves forward, keeping the duration
// of its original dates (floored to one day).
//
// The returned diff holds only phases whose dates changed, in topological
// order. An empty violating set returns no changes without inspecting the
// graph; otherwise a cyclic graph yields a *CycleError.
func CorrectAll(phases []domain.Phase, deps []domain.Dependency, violating []string) ([]PhaseChange, error) {
	if len(violating) == 0 {
		return nil, nil
	}

	g := buildGraph(phases, deps)
	if err := g.detectCycle(phases); err != nil {
		return nil, err
	}
	order := g.topoOrder(phases)

	working := make(map[string]dateWindow, len(phases))
	for id, p := range g.idx {
		working[id] = dateWindow{domain.NormalizeDate(p.StartDate), domain.NormalizeDate(p.EndDate)}
	}
	lookup := func(id string) (dateWindow, bool) {
		w, ok := working[id]
		return w, ok
	}

	dirty := g.downstreamOf(violating)
	for _, id := range order {
		if !dirty[id] {
			continue
		}
		orig := working[id]
		duration := max(1, domain.DaysBetween(orig.start, orig.end))
		start, end := snapForward(orig.start, domain.AddDays(orig.start, duration), duration, g.preds[id], lookup)
		working[id] = dateWindow{start, end}
	}

	var changes []PhaseChange
	for _, id := range order {
		p := g.idx[id]
		w := working[id]
		if w.start.Equal(domain.NormalizeDate(p.StartDate)) && w.end.Equal(domain.NormalizeDate(p.EndDate)) {
			continue
		}
		changes = append(changes, PhaseChange{PhaseID: id, NewStart: w.start, NewEnd: w.end})
	}
	return changes, nil
}

// downstreamOf returns the known ids in seeds plus every phase reachable
// from them along predecessor -> successor edges.
func (g *graph) downstreamOf(seeds []string) map[string]bool {
	seen := make(map[string]bool)
	var queue []string
	for _, id := range seeds {
		if _, ok := g.idx[id]; ok && !seen[id] {
			seen[id] = true
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range g.succ[id] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}
