package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/cadence/internal/domain"
)

// ErrCyclicDependency is matched by every cycle error returned from this package.
var ErrCyclicDependency = errors.New("cyclic dependency")

// CycleError reports one cycle found in the dependency graph. Path lists
// phase ids along the cycle and repeats the first id at the end.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic dependency: %s", strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCyclicDependency }

// graph is the adjacency view of the usable edges: both endpoints present
// in the phase snapshot and not a self-loop.
type graph struct {
	idx   map[string]*domain.Phase
	succ  map[string][]string
	preds map[string][]domain.Dependency
}

func buildGraph(phases []domain.Phase, deps []domain.Dependency) *graph {
	g := &graph{
		idx:   domain.PhaseIndex(phases),
		succ:  make(map[string][]string),
		preds: make(map[string][]domain.Dependency),
	}
	for _, dep := range deps {
		if dep.IsSelfLoop() {
			continue
		}
		if _, ok := g.idx[dep.PredecessorPhaseID]; !ok {
			continue
		}
		if _, ok := g.idx[dep.SuccessorPhaseID]; !ok {
			continue
		}
		g.succ[dep.PredecessorPhaseID] = append(g.succ[dep.PredecessorPhaseID], dep.SuccessorPhaseID)
		g.preds[dep.SuccessorPhaseID] = append(g.preds[dep.SuccessorPhaseID], dep)
	}
	return g
}

// DetectCycle returns a *CycleError for the first cycle found by a
// depth-first search over predecessor -> successor edges, or nil.
func DetectCycle(phases []domain.Phase, deps []domain.Dependency) error {
	return buildGraph(phases, deps).detectCycle(phases)
}

func (g *graph) detectCycle(phases []domain.Phase) error {
	const (
		white = 0 // unvisited
		gray  = 1 // on the current path
		black = 2 // fully processed
	)

	color := make(map[string]int, len(phases))
	var path []string
	var found []string

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		path = append(path, id)
		for _, next := range g.succ[id] {
			switch color[next] {
			case gray:
				start := 0
				for i, p := range path {
					if p == next {
						start = i
						break
					}
				}
				found = append(append([]string{}, path[start:]...), next)
				return true
			case white:
				if visit(next) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		color[id] = black
		return false
	}

	for i := range phases {
		id := phases[i].ID
		if color[id] == white && visit(id) {
			return &CycleError{Path: found}
		}
	}
	return nil
}

// TopologicalOrder returns phase ids so that every predecessor precedes its
// successors. Phases that are not ordered by an edge are sequenced by start
// date, then Order, then id.
func TopologicalOrder(phases []domain.Phase, deps []domain.Dependency) ([]string, error) {
	g := buildGraph(phases, deps)
	if err := g.detectCycle(phases); err != nil {
		return nil, err
	}
	return g.topoOrder(phases), nil
}

func (g *graph) topoOrder(phases []domain.Phase) []string {
	indegree := make(map[string]int, len(phases))
	for i := range phases {
		indegree[phases[i].ID] = len(g.preds[phases[i].ID])
	}

	less := func(a, b string) bool {
		pa, pb := g.idx[a], g.idx[b]
		if !pa.StartDate.Equal(pb.StartDate) {
			return pa.StartDate.Before(pb.StartDate)
		}
		if pa.Order != pb.Order {
			return pa.Order < pb.Order
		}
		return a < b
	}

	var ready []string
	for id, n := range indegree {
		if n == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]string, 0, len(indegree))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return less(ready[i], ready[j]) })
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		for _, next := range g.succ[id] {
			indegree[next]--
			if indegree[next] == 0 {
				ready = append(ready, next)
			}
		}
	}
	return order
}
