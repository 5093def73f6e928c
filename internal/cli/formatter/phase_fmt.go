package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/cadence/internal/domain"
)

// FormatPhaseList renders a project's phases. Phases present in violations
// are flagged; pass nil to skip the column.
func FormatPhaseList(project *domain.Project, phases []domain.Phase, violations map[string][]string, wide bool) string {
	title := "Phases"
	if project != nil {
		title = fmt.Sprintf("Phases · %s", project.DisplayID())
	}
	if len(phases) == 0 {
		return RenderBox(title, Dim("No phases yet."))
	}

	headers := []string{"#", "PHASE", "START", "END", "DAYS"}
	if violations != nil {
		headers = append(headers, "STATE")
	}
	if wide {
		headers = append(headers, "ID", "NOTES")
	}

	rows := make([][]string, 0, len(phases))
	for i := range phases {
		p := &phases[i]
		row := []string{
			Dim(fmt.Sprintf("%d", p.Order)),
			Bold(p.Name),
			domain.FormatDate(p.StartDate),
			domain.FormatDate(p.EndDate),
			fmt.Sprintf("%d", p.DurationDays()),
		}
		if violations != nil {
			if msgs := violations[p.ID]; len(msgs) > 0 {
				row = append(row, StyleRed.Render(fmt.Sprintf("✖ %d", len(msgs))))
			} else {
				row = append(row, StyleGreen.Render("✔"))
			}
		}
		if wide {
			row = append(row, TruncID(p.ID), Dim(p.Notes))
		}
		rows = append(rows, row)
	}

	return RenderBox(title, RenderTable(headers, rows))
}

// FormatDependencyList renders dependency edges using phase names.
func FormatDependencyList(deps []domain.Dependency, phases []domain.Phase) string {
	if len(deps) == 0 {
		return RenderBox("Dependencies", Dim("No dependencies."))
	}
	idx := domain.PhaseIndex(phases)
	name := func(id string) string {
		if p, ok := idx[id]; ok {
			return p.Name
		}
		return TruncID(id)
	}

	headers := []string{"ID", "PREDECESSOR", "", "SUCCESSOR", "TYPE", "KIND"}
	rows := make([][]string, 0, len(deps))
	for _, d := range deps {
		rows = append(rows, []string{
			TruncID(d.ID),
			Bold(name(d.PredecessorPhaseID)),
			Dim("→"),
			Bold(name(d.SuccessorPhaseID)),
			DependencyBadge(d.Type, d.LagDays),
			Dim(d.Type.Label()),
		})
	}
	return RenderBox("Dependencies", RenderTable(headers, rows))
}

// FormatPhaseDependencies renders the incoming and outgoing edges of one
// phase.
func FormatPhaseDependencies(phase *domain.Phase, preds, succs []domain.Dependency, phases []domain.Phase) string {
	idx := domain.PhaseIndex(phases)
	name := func(id string) string {
		if p, ok := idx[id]; ok {
			return p.Name
		}
		return TruncID(id)
	}
	section := func(label string, deps []domain.Dependency, other func(domain.Dependency) string) string {
		if len(deps) == 0 {
			return Bold(label) + "\n" + Dim("  none")
		}
		rows := make([][]string, 0, len(deps))
		for _, d := range deps {
			rows = append(rows, []string{TruncID(d.ID), Bold(other(d)), DependencyBadge(d.Type, d.LagDays), Dim(d.Type.Label())})
		}
		return Bold(label) + "\n" + RenderTable([]string{"ID", "PHASE", "TYPE", "KIND"}, rows)
	}

	body := section("Depends on", preds, func(d domain.Dependency) string { return name(d.PredecessorPhaseID) }) +
		"\n\n" +
		section("Required by", succs, func(d domain.Dependency) string { return name(d.SuccessorPhaseID) })
	return RenderBox(fmt.Sprintf("Dependencies · %s", phase.Name), body)
}

// FormatViolations renders constraint messages as a bulleted list.
func FormatViolations(msgs []string) string {
	var b strings.Builder
	for _, m := range msgs {
		b.WriteString(StyleRed.Render("  ✖ "))
		b.WriteString(m)
		b.WriteString("\n")
	}
	return b.String()
}
