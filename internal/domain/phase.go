package domain

import (
	"fmt"
	"time"
)

// Phase is one scheduled segment of a project. StartDate and EndDate are
// inclusive calendar dates (midnight UTC).
type Phase struct {
	ID        string
	ProjectID string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Order     int // display sequencing only
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DurationDays is EndDate minus StartDate in days.
func (p *Phase) DurationDays() int {
	return DaysBetween(p.StartDate, p.EndDate)
}

// ValidateDates checks that the phase ends strictly after it starts.
func (p *Phase) ValidateDates() error {
	if !p.EndDate.After(p.StartDate) {
		return fmt.Errorf("phase %q: end date %s must be after start date %s",
			p.Name, FormatDate(p.EndDate), FormatDate(p.StartDate))
	}
	return nil
}

// Reschedule sets new normalized dates and bumps UpdatedAt.
func (p *Phase) Reschedule(start, end, now time.Time) {
	p.StartDate = NormalizeDate(start)
	p.EndDate = NormalizeDate(end)
	p.UpdatedAt = now
}
