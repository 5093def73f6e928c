package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDependency marks dependency edges rejected before persistence.
var ErrInvalidDependency = errors.New("invalid dependency")

// ErrPlanChanged is returned by Fix when the correction computed inside the
// transaction differs from the one the caller confirmed.
var ErrPlanChanged = errors.New("schedule changed since the correction was previewed")

// ScheduleConflictError is returned when a date change breaks dependency
// constraints and was not auto-corrected.
type ScheduleConflictError struct {
	PhaseID    string
	PhaseName  string
	Violations []string
}

func (e *ScheduleConflictError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "schedule conflict for phase %q (%d violations):", e.PhaseName, len(e.Violations))
	for _, v := range e.Violations {
		b.WriteString("\n  - ")
		b.WriteString(v)
	}
	return b.String()
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
