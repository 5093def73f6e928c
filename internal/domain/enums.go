package domain

import (
	"fmt"
	"strings"
)

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)

// DependencyType links one boundary event of a predecessor phase to one
// boundary event of its successor.
type DependencyType string

const (
	FinishToStart  DependencyType = "FS"
	StartToStart   DependencyType = "SS"
	FinishToFinish DependencyType = "FF"
	StartToFinish  DependencyType = "SF"
)

// ValidDependencyTypes is the canonical set of accepted dependency type codes.
var ValidDependencyTypes = map[DependencyType]bool{
	FinishToStart: true, StartToStart: true, FinishToFinish: true, StartToFinish: true,
}

var dependencyTypeNames = map[DependencyType]string{
	FinishToStart:  "Finish-to-Start",
	StartToStart:   "Start-to-Start",
	FinishToFinish: "Finish-to-Finish",
	StartToFinish:  "Start-to-Finish",
}

// ParseDependencyType accepts a short code ("FS") or a long name
// ("finish-to-start", "finish_to_start"), case-insensitively.
// An empty string yields FinishToStart.
func ParseDependencyType(s string) (DependencyType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return FinishToStart, nil
	}
	code := DependencyType(strings.ToUpper(s))
	if ValidDependencyTypes[code] {
		return code, nil
	}
	norm := strings.ToLower(strings.ReplaceAll(s, "_", "-"))
	for t, name := range dependencyTypeNames {
		if strings.ToLower(name) == norm {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown dependency type %q (expected FS, SS, FF or SF)", s)
}

// Label returns the long human-readable name, e.g. "Finish-to-Start".
func (t DependencyType) Label() string {
	if name, ok := dependencyTypeNames[t]; ok {
		return name
	}
	return string(t)
}

// UsesPredecessorFinish reports whether the constraint is anchored on the
// predecessor's end date (FS, FF) rather than its start date (SS, SF).
func (t DependencyType) UsesPredecessorFinish() bool {
	return t == FinishToStart || t == FinishToFinish
}

// ConstrainsSuccessorStart reports whether the constraint bounds the
// successor's start date (FS, SS) rather than its end date (FF, SF).
func (t DependencyType) ConstrainsSuccessorStart() bool {
	return t == FinishToStart || t == StartToStart
}
