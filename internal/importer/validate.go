package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateProject(&schema.Project)...)

	phaseRefs := make(map[string]bool)
	errs = append(errs, validatePhases(schema.Phases, phaseRefs)...)

	errs = append(errs, validateDependencies(schema.Dependencies, phaseRefs)...)

	return errs
}

func validateProject(p *ProjectImport) []error {
	var errs []error

	if p.ShortID == "" {
		errs = append(errs, fmt.Errorf("project.short_id is required"))
	} else {
		candidate := domain.Project{ShortID: strings.ToUpper(p.ShortID)}
		if err := candidate.ValidateShortID(); err != nil {
			errs = append(errs, fmt.Errorf("project.short_id: %w", err))
		}
	}
	if p.Name == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}

	return errs
}

func validatePhases(phases []PhaseImport, phaseRefs map[string]bool) []error {
	var errs []error

	if len(phases) == 0 {
		errs = append(errs, fmt.Errorf("phases: at least one phase is required"))
	}

	for i, ph := range phases {
		prefix := fmt.Sprintf("phases[%d]", i)

		if ph.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if phaseRefs[ph.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, ph.Ref))
		} else {
			phaseRefs[ph.Ref] = true
		}

		if ph.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}

		start, startErr := validateRequiredDate(prefix+".start_date", ph.StartDate)
		end, endErr := validateRequiredDate(prefix+".end_date", ph.EndDate)
		if startErr != nil {
			errs = append(errs, startErr)
		}
		if endErr != nil {
			errs = append(errs, endErr)
		}
		if startErr == nil && endErr == nil && !end.After(start) {
			errs = append(errs, fmt.Errorf("%s: end_date %q must be after start_date %q", prefix, ph.EndDate, ph.StartDate))
		}

		if ph.Order != nil && *ph.Order < 0 {
			errs = append(errs, fmt.Errorf("%s.order must not be negative", prefix))
		}
	}

	return errs
}

func validateDependencies(deps []DependencyImport, phaseRefs map[string]bool) []error {
	var errs []error
	pairs := make(map[[2]string]bool)

	for i, d := range deps {
		prefix := fmt.Sprintf("dependencies[%d]", i)

		if d.PredecessorRef == "" {
			errs = append(errs, fmt.Errorf("%s.predecessor_ref is required", prefix))
		} else if !phaseRefs[d.PredecessorRef] {
			errs = append(errs, fmt.Errorf("%s.predecessor_ref: ref %q not found in phases", prefix, d.PredecessorRef))
		}

		if d.SuccessorRef == "" {
			errs = append(errs, fmt.Errorf("%s.successor_ref is required", prefix))
		} else if !phaseRefs[d.SuccessorRef] {
			errs = append(errs, fmt.Errorf("%s.successor_ref: ref %q not found in phases", prefix, d.SuccessorRef))
		}

		if d.PredecessorRef != "" && d.SuccessorRef != "" {
			if d.PredecessorRef == d.SuccessorRef {
				errs = append(errs, fmt.Errorf("%s: self-dependency (predecessor_ref == successor_ref == %q)", prefix, d.PredecessorRef))
			} else {
				pair := [2]string{d.PredecessorRef, d.SuccessorRef}
				if pairs[pair] {
					errs = append(errs, fmt.Errorf("%s: duplicate dependency %q -> %q", prefix, d.PredecessorRef, d.SuccessorRef))
				}
				pairs[pair] = true
			}
		}

		if _, err := domain.ParseDependencyType(d.Type); err != nil {
			errs = append(errs, fmt.Errorf("%s.type: %w", prefix, err))
		}
	}

	// Check for circular dependencies
	if len(deps) > 1 {
		errs = append(errs, detectCycles(deps)...)
	}

	return errs
}

// detectCycles reports the first cycle reachable from each unvisited ref,
// walking refs in the order they first appear in deps.
func detectCycles(deps []DependencyImport) []error {
	graph := make(map[string][]string)
	var nodes []string
	seen := make(map[string]bool)
	addNode := func(ref string) {
		if !seen[ref] {
			seen[ref] = true
			nodes = append(nodes, ref)
		}
	}
	for _, d := range deps {
		if d.PredecessorRef != "" && d.SuccessorRef != "" && d.PredecessorRef != d.SuccessorRef {
			graph[d.PredecessorRef] = append(graph[d.PredecessorRef], d.SuccessorRef)
			addNode(d.PredecessorRef)
			addNode(d.SuccessorRef)
		}
	}

	const (
		white = 0 // unvisited
		gray  = 1 // in current path
		black = 2 // fully processed
	)

	color := make(map[string]int)
	var path []string
	var errs []error

	var visit func(node string) bool
	visit = func(node string) bool {
		color[node] = gray
		path = append(path, node)
		for _, neighbor := range graph[node] {
			if color[neighbor] == gray {
				errs = append(errs, fmt.Errorf("circular dependency detected: %s", cyclePath(path, neighbor)))
				// Later roots must not see this path as gray.
				color[node] = black
				return true
			}
			if color[neighbor] == white && visit(neighbor) {
				color[node] = black
				return true
			}
		}
		path = path[:len(path)-1]
		color[node] = black
		return false
	}

	for _, node := range nodes {
		if color[node] == white {
			path = path[:0]
			visit(node)
		}
	}

	return errs
}

// cyclePath renders the tail of path starting at back, closed by back.
func cyclePath(path []string, back string) string {
	start := 0
	for i, ref := range path {
		if ref == back {
			start = i
			break
		}
	}
	loop := append(append([]string{}, path[start:]...), back)
	return strings.Join(loop, " -> ")
}

func validateRequiredDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	parsed, err := domain.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, value)
	}
	return parsed, nil
}
