package formatter

import (
	"strings"

	"github.com/alexanderramin/cadence/internal/domain"
)

// FormatProjectList renders a styled project list inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	if len(projects) == 0 {
		return Dim("No projects. Create one with: cadence project add --id WEB01 --name \"Website\"")
	}

	headers := []string{"ID", "NAME", "STATUS", "CREATED"}
	rows := make([][]string, 0, len(projects))

	for _, p := range projects {
		id := p.ShortID
		if strings.TrimSpace(id) == "" {
			id = TruncID(p.ID)
		}
		if strings.TrimSpace(id) == "" {
			id = "--"
		}

		rows = append(rows, []string{
			id,
			Bold(p.Name),
			StatusPill(p.Status),
			Dim(domain.FormatDate(p.CreatedAt)),
		})
	}

	table := RenderTable(headers, rows)
	return RenderBox("Projects", table)
}
