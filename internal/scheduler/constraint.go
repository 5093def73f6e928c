// Package scheduler validates and corrects phase dates against the
// dependency edges of a project. Every function here is pure: inputs are
// snapshots supplied by the caller and are never mutated.
package scheduler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// MsgEndBeforeStart is reported when a proposed end date is not after its start.
const MsgEndBeforeStart = "End date must be after start date"

// EffectiveLag is the single lag rule shared by the checker and both
// correctors. Finish-to-Start edges always leave at least one day between
// the predecessor's end and the successor's start, so their lag is floored
// to 1. SS, FF and SF edges use LagDays as-is; negative values are leads.
func EffectiveLag(dep domain.Dependency) int {
	if dep.Type == domain.FinishToStart && dep.LagDays < 1 {
		return 1
	}
	return dep.LagDays
}

// EarliestSuccessorDate returns the earliest date allowed for the successor
// boundary constrained by dep (start for FS/SS, end for FF/SF), measured
// from the predecessor's dates.
func EarliestSuccessorDate(dep domain.Dependency, predStart, predEnd time.Time) time.Time {
	anchor := predStart
	if dep.Type.UsesPredecessorFinish() {
		anchor = predEnd
	}
	return domain.AddDays(anchor, EffectiveLag(dep))
}

// LatestPredecessorDate returns the latest date allowed for the predecessor
// boundary constrained by dep (end for FS/FF, start for SS/SF), measured
// from the successor's dates.
func LatestPredecessorDate(dep domain.Dependency, succStart, succEnd time.Time) time.Time {
	anchor := succStart
	if !dep.Type.ConstrainsSuccessorStart() {
		anchor = succEnd
	}
	return domain.AddDays(anchor, -EffectiveLag(dep))
}

func boundaryVerb(isStart bool) string {
	if isStart {
		return "start"
	}
	return "finish"
}

func anchorNoun(isFinish bool) string {
	if isFinish {
		return "end"
	}
	return "start"
}

// predecessorViolation describes a successor boundary that falls before the
// bound imposed by its predecessor.
func predecessorViolation(phase, pred *domain.Phase, dep domain.Dependency, required time.Time) string {
	return fmt.Sprintf("%q cannot %s before %s (%s dependency on %q: %s + %d lag days)",
		phase.Name,
		boundaryVerb(dep.Type.ConstrainsSuccessorStart()),
		domain.FormatDate(required),
		dep.Type,
		pred.Name,
		anchorNoun(dep.Type.UsesPredecessorFinish()),
		EffectiveLag(dep),
	)
}

// successorViolation describes a predecessor boundary that falls after the
// bound imposed by one of its successors.
func successorViolation(phase, succ *domain.Phase, dep domain.Dependency, required time.Time) string {
	return fmt.Sprintf("%q cannot %s after %s (%s dependency to %q: %s - %d lag days)",
		phase.Name,
		boundaryVerb(!dep.Type.UsesPredecessorFinish()),
		domain.FormatDate(required),
		dep.Type,
		succ.Name,
		anchorNoun(!dep.Type.ConstrainsSuccessorStart()),
		EffectiveLag(dep),
	)
}
