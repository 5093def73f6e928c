package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

// FormatScheduleCheck renders the violation report for a project.
func FormatScheduleCheck(phases []domain.Phase, violations map[string][]string) string {
	if len(violations) == 0 {
		return StyleGreen.Render("✔ Schedule is consistent") + Dim(fmt.Sprintf(" (%d phases checked)", len(phases)))
	}

	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%d phases violate constraints", len(violations))))
	b.WriteString("\n")
	for i := range phases {
		msgs := violations[phases[i].ID]
		if len(msgs) == 0 {
			continue
		}
		b.WriteString("\n")
		b.WriteString(Bold(phases[i].Name))
		b.WriteString(" " + Dim(DateRange(phases[i].StartDate, phases[i].EndDate)) + "\n")
		b.WriteString(FormatViolations(msgs))
	}
	return b.String()
}

// FormatCorrectionPlan renders a bulk correction diff. applied switches the
// wording between preview and result.
func FormatCorrectionPlan(phases []domain.Phase, changes []scheduler.PhaseChange, applied bool) string {
	if len(changes) == 0 {
		return StyleGreen.Render("✔ Nothing to correct")
	}

	idx := domain.PhaseIndex(phases)
	headers := []string{"PHASE", "FROM", "TO", "SHIFT"}
	rows := make([][]string, 0, len(changes))
	for _, c := range changes {
		p, ok := idx[c.PhaseID]
		if !ok {
			continue
		}
		rows = append(rows, []string{
			Bold(p.Name),
			Dim(DateRange(p.StartDate, p.EndDate)),
			DateRange(c.NewStart, c.NewEnd),
			ShiftLabel(domain.DaysBetween(p.StartDate, c.NewStart)),
		})
	}

	title := fmt.Sprintf("Proposed corrections (%d)", len(changes))
	if applied {
		title = fmt.Sprintf("Applied corrections (%d)", len(changes))
	}
	return RenderBox(title, RenderTable(headers, rows))
}

// FormatProposal renders the outcome of checking one proposed date change.
func FormatProposal(phase *domain.Phase, start, end time.Time, violations []string, correction scheduler.Correction) string {
	var b strings.Builder
	b.WriteString(Bold(phase.Name) + " " + Dim(DateRange(phase.StartDate, phase.EndDate)) + " → " + DateRange(start, end) + "\n")
	if len(violations) == 0 {
		b.WriteString(StyleGreen.Render("✔ No conflicts") + "\n")
		return b.String()
	}
	b.WriteString(FormatViolations(violations))
	if !correction.WasValid {
		b.WriteString(StyleYellow.Render("Suggested: ") + DateRange(correction.Start, correction.End) + "\n")
	}
	return b.String()
}
