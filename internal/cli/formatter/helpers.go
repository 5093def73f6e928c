package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// StatusPill returns a colored status indicator for project status.
func StatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectActive:
		return StyleGreen.Render("● Active")
	case domain.ProjectArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// DateRange renders "start → end" in the storage date layout.
func DateRange(start, end time.Time) string {
	return fmt.Sprintf("%s → %s", domain.FormatDate(start), domain.FormatDate(end))
}

// FormatDays renders a day count such as "1 day" or "10 days".
func FormatDays(n int) string {
	if n == 1 || n == -1 {
		return fmt.Sprintf("%d day", n)
	}
	return fmt.Sprintf("%d days", n)
}

// ShiftLabel renders a signed day delta, green for earlier and yellow for later.
func ShiftLabel(days int) string {
	switch {
	case days > 0:
		return StyleYellow.Render("+" + FormatDays(days))
	case days < 0:
		return StyleGreen.Render(FormatDays(days))
	default:
		return Dim("±0")
	}
}

// DependencyBadge renders a dependency type code with its lag, e.g. "SS+3".
func DependencyBadge(t domain.DependencyType, lag int) string {
	label := string(t)
	if lag > 0 {
		label += fmt.Sprintf("+%d", lag)
	} else if lag < 0 {
		label += fmt.Sprintf("%d", lag)
	}
	return StylePurple.Render(label)
}
